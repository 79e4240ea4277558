package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/epiphanyresto/menu-backend/internal/handlers"
	"github.com/epiphanyresto/menu-backend/internal/service"
)

type Deps struct {
	DB              *gorm.DB
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	MenuHandler     *handlers.MenuHandler
	AdminHandler    *handlers.AdminHandler
	QRHandler       *handlers.QRHandler
	SearchHandler   *handlers.SearchHandler
	Session         *service.SessionService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	// Public catalog surface.
	v1.GET("/categories", d.CategoryHandler.GetCategories)
	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/menu", d.MenuHandler.GetMenu)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	v1.POST("/admin/login", d.AdminHandler.Login)

	admin := v1.Group("/admin", d.Session.RequireAdmin)

	admin.GET("/credentials", d.AdminHandler.GetCredentials)
	admin.PUT("/credentials", d.AdminHandler.UpdateCredentials)
	admin.GET("/qrcode", d.QRHandler.GetQRCode)

	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
	admin.POST("/categories/:id/subcategories", d.CategoryHandler.CreateSubcategories)
	admin.DELETE("/subcategories/:id", d.CategoryHandler.DeleteSubcategory)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/products/:id/extras", d.ProductHandler.AddExtra)
	admin.DELETE("/extras/:id", d.ProductHandler.DeleteExtra)
	admin.POST("/products/:id/verres", d.ProductHandler.AddVerre)
	admin.DELETE("/verres/:id", d.ProductHandler.DeleteVerre)
}
