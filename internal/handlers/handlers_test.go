package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/epiphanyresto/menu-backend/internal/models"
	"github.com/epiphanyresto/menu-backend/internal/repo"
	"github.com/epiphanyresto/menu-backend/internal/service"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Catalog  *CategoryHandler
	Products *ProductHandler
	Menu     *MenuHandler
	Admin    *AdminHandler
	QR       *QRHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Subcategory{},
		&models.Product{},
		&models.ProductExtra{},
		&models.ProductVerre{},
		&models.AdminSetting{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	repository := repo.New(db)
	catalogSvc := &service.CatalogService{Repo: repository}
	adminSvc := &service.AdminService{Repo: repository}
	session := &service.SessionService{JWTSecret: []byte("test_secret")}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Catalog:  &CategoryHandler{Svc: catalogSvc},
		Products: &ProductHandler{Svc: catalogSvc},
		Menu:     &MenuHandler{Svc: catalogSvc},
		Admin:    &AdminHandler{Admin: adminSvc, Session: session},
		QR:       &QRHandler{DefaultURL: "https://menu.example.com"},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}

func createCategory(t *testing.T, env *testEnv, name string) models.Category {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"name":  name,
		"image": "https://img.example.com/" + name + ".jpg",
	})
	require.NoError(t, env.Catalog.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var category models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))
	return category
}

func TestCreateCategoryHandler(t *testing.T) {
	env := newTestEnv(t)

	category := createCategory(t, env, "Drinks")
	require.Equal(t, "Drinks", category.Name)
	require.NotEmpty(t, category.ID)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"name":  "",
		"image": "https://img.example.com/x.jpg",
	})
	requireHTTPError(t, env.Catalog.CreateCategory(c), http.StatusBadRequest)
}

func TestCreateSubcategoriesHandler(t *testing.T) {
	env := newTestEnv(t)
	category := createCategory(t, env, "Drinks")

	rec, c := env.doJSONRequest(http.MethodPost, "/", map[string]interface{}{
		"names": []string{"", " Wine ", "  "},
	})
	c.SetParamNames("id")
	c.SetParamValues(category.ID.String())
	require.NoError(t, env.Catalog.CreateSubcategories(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var rows []models.Subcategory
	require.NoError(t, env.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, "Wine", rows[0].Name)
}

func TestCreateProductHandlerValidation(t *testing.T) {
	env := newTestEnv(t)
	category := createCategory(t, env, "Drinks")

	_, c := env.doJSONRequest(http.MethodPost, "/", map[string]interface{}{
		"names": []string{"Wine"},
	})
	c.SetParamNames("id")
	c.SetParamValues(category.ID.String())
	require.NoError(t, env.Catalog.CreateSubcategories(c))

	var subcategory models.Subcategory
	require.NoError(t, env.DB.First(&subcategory).Error)

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title":          "",
		"image":          "https://x/y.jpg",
		"price":          12.5,
		"category_id":    category.ID,
		"subcategory_id": subcategory.ID,
	})
	requireHTTPError(t, env.Products.CreateProduct(c), http.StatusBadRequest)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title":          "Soup",
		"image":          "https://x/y.jpg",
		"price":          12.5,
		"category_id":    category.ID,
		"subcategory_id": subcategory.ID,
	})
	require.NoError(t, env.Products.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	require.Equal(t, "Soup", product.Title)
	require.NotEmpty(t, product.ID)
}

func TestGetMenuHandler(t *testing.T) {
	env := newTestEnv(t)
	category := createCategory(t, env, "Drinks")

	_, c := env.doJSONRequest(http.MethodPost, "/", map[string]interface{}{
		"names": []string{"Wine", "Beer"},
	})
	c.SetParamNames("id")
	c.SetParamValues(category.ID.String())
	require.NoError(t, env.Catalog.CreateSubcategories(c))

	var wine models.Subcategory
	require.NoError(t, env.DB.First(&wine, "name = ?", "Wine").Error)

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title":          "Merlot",
		"image":          "https://x/y.jpg",
		"price":          7.5,
		"category_id":    category.ID,
		"subcategory_id": wine.ID,
	})
	require.NoError(t, env.Products.CreateProduct(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/menu", nil)
	require.NoError(t, env.Menu.GetMenu(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var menu []MenuCategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &menu))
	require.Len(t, menu, 1)
	// The empty Beer section is suppressed.
	require.Len(t, menu[0].Sections, 1)
	require.Equal(t, "Wine", menu[0].Sections[0].Subcategory.Name)
	require.Len(t, menu[0].Sections[0].Products, 1)
	require.Equal(t, "Merlot", menu[0].Sections[0].Products[0].Title)
}

func TestAdminLoginHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": service.DefaultAdminUsername,
		"password": service.DefaultAdminPassword,
	})
	require.NoError(t, env.Admin.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])

	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "accessToken" && cookie.Value != "" {
			found = true
		}
	}
	require.True(t, found, "accessToken cookie not set")

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": service.DefaultAdminUsername,
		"password": "wrong",
	})
	requireHTTPError(t, env.Admin.Login(c), http.StatusUnauthorized)
}

func TestAdminCredentialsHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/credentials", nil)
	require.NoError(t, env.Admin.GetCredentials(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var credentials service.AdminCredentials
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &credentials))
	require.Equal(t, service.DefaultAdminUsername, credentials.Username)
	require.Empty(t, credentials.Password)

	rec, c = env.doJSONRequest(http.MethodPut, "/api/v1/admin/credentials", map[string]string{
		"username": "newuser",
		"password": "newpass123",
	})
	require.NoError(t, env.Admin.UpdateCredentials(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": "newuser",
		"password": "newpass123",
	})
	require.NoError(t, env.Admin.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestQRCodeHandler(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/qrcode", nil)
	require.NoError(t, env.QR.GetQRCode(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	require.NotEmpty(t, rec.Body.Bytes())
	// PNG magic bytes.
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestRequireAdminMiddleware(t *testing.T) {
	env := newTestEnv(t)
	session := &service.SessionService{JWTSecret: []byte("test_secret")}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/credentials", nil)
	requireHTTPError(t, session.RequireAdmin(next)(c), http.StatusUnauthorized)

	token, _, err := session.CreateAdminToken()
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/admin/credentials", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	require.NoError(t, session.RequireAdmin(next)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, c = env.doJSONRequest(http.MethodGet, "/api/v1/admin/credentials", nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	requireHTTPError(t, session.RequireAdmin(next)(c), http.StatusUnauthorized)
}
