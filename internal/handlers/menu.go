package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epiphanyresto/menu-backend/internal/logging"
	"github.com/epiphanyresto/menu-backend/internal/models"
	"github.com/epiphanyresto/menu-backend/internal/service"
)

type MenuHandler struct {
	Svc *service.CatalogService
}

type MenuSection struct {
	Subcategory models.Subcategory `json:"subcategory"`
	Products    []models.Product   `json:"products"`
}

type MenuCategory struct {
	Category models.Category `json:"category"`
	Sections []MenuSection   `json:"sections"`
}

// GetMenu composes the public menu: every category with its products
// grouped by subcategory. Empty sections are left out.
func (h *MenuHandler) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu")

	categories, err := h.Svc.GetCategories(ctx)
	if err != nil {
		l.Error("get_menu_failed", "error", err)
		return httpError(err)
	}
	products, err := h.Svc.GetProducts(ctx)
	if err != nil {
		l.Error("get_menu_failed", "error", err)
		return httpError(err)
	}

	menu := make([]MenuCategory, 0, len(categories))
	for _, category := range categories {
		groups := service.GroupProductsBySubcategory(category, products)

		sections := make([]MenuSection, 0, len(category.Subcategories))
		for _, subcategory := range category.Subcategories {
			if len(groups[subcategory.ID]) == 0 {
				continue
			}
			sections = append(sections, MenuSection{
				Subcategory: subcategory,
				Products:    groups[subcategory.ID],
			})
		}
		menu = append(menu, MenuCategory{Category: category, Sections: sections})
	}

	return c.JSON(http.StatusOK, menu)
}
