package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/epiphanyresto/menu-backend/internal/logging"
	"github.com/epiphanyresto/menu-backend/internal/mykafka"
	"github.com/epiphanyresto/menu-backend/internal/service"
)

type CategoryHandler struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	categories, err := h.Svc.GetCategories(ctx)
	if err != nil {
		l.Error("get_categories_failed", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(ctx, req.Name, req.Image)
	if err != nil {
		l.Warn("create_category_failed", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "catalog_events", category.ID.String(), map[string]interface{}{
		"type":       "category_created",
		"categoryID": category.ID,
		"name":       category.Name,
	})
	l.Info("create_category_success", "categoryID", category.ID)
	return c.JSON(http.StatusCreated, category)
}

// CreateSubcategories bulk-creates subcategories for one category. Blank
// names in the list are dropped server-side.
func (h *CategoryHandler) CreateSubcategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_subcategories")

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("create_subcategories_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req struct {
		Names []string `json:"names"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_subcategories_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.CreateSubcategories(ctx, req.Names, categoryID); err != nil {
		l.Warn("create_subcategories_failed", "error", err)
		return httpError(err)
	}

	l.Info("create_subcategories_success", "categoryID", categoryID)
	return c.NoContent(http.StatusCreated)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch_category")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_category_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req struct {
		Name  *string `json:"name"`
		Image *string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.UpdateCategory(ctx, id, req.Name, req.Image)
	if err != nil {
		l.Warn("patch_category_failed", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "catalog_events", category.ID.String(), map[string]interface{}{
		"type":       "category_updated",
		"categoryID": category.ID,
		"name":       category.Name,
	})
	l.Info("patch_category_success", "categoryID", category.ID)
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_category_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		l.Warn("delete_category_failed", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "catalog_events", id.String(), map[string]interface{}{
		"type":       "category_deleted",
		"categoryID": id,
	})
	l.Info("delete_category_success", "categoryID", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) DeleteSubcategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_subcategory")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_subcategory_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteSubcategory(ctx, id); err != nil {
		l.Warn("delete_subcategory_failed", "error", err)
		return httpError(err)
	}

	l.Info("delete_subcategory_success", "subcategoryID", id)
	return c.NoContent(http.StatusNoContent)
}
