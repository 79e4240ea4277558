package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/epiphanyresto/menu-backend/internal/logging"
	"github.com/epiphanyresto/menu-backend/internal/models"
	"github.com/epiphanyresto/menu-backend/internal/mykafka"
	"github.com/epiphanyresto/menu-backend/internal/repo"
	"github.com/epiphanyresto/menu-backend/internal/service"
	"github.com/epiphanyresto/menu-backend/internal/service/search"
)

type ProductHandler struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *ProductHandler) indexProduct(c echo.Context, product *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, product); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) dropProductIndex(c echo.Context, id uuid.UUID) {
	if h.ES == nil {
		return
	}
	if err := search.DeleteProduct(c.Request().Context(), h.ES, h.Index, id.String()); err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	products, err := h.Svc.GetProducts(ctx)
	if err != nil {
		l.Error("get_products_failed", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req service.CreateProductInput
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return httpError(err)
	}

	h.indexProduct(c, product)
	publish(c, h.Producer, "catalog_events", product.ID.String(), map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"title":     product.Title,
	})
	l.Info("create_product_success", "productID", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_product_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req struct {
		Title         *string    `json:"title"`
		Image         *string    `json:"image"`
		Price         *float64   `json:"price"`
		Description   *string    `json:"description"`
		CategoryID    *uuid.UUID `json:"category_id"`
		SubcategoryID *uuid.UUID `json:"subcategory_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.UpdateProduct(ctx, id, repo.ProductPatch{
		Title:         req.Title,
		Image:         req.Image,
		Price:         req.Price,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
	})
	if err != nil {
		l.Warn("patch_product_failed", "error", err)
		return httpError(err)
	}

	h.indexProduct(c, product)
	publish(c, h.Producer, "catalog_events", product.ID.String(), map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"title":     product.Title,
	})
	l.Info("patch_product_success", "productID", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_product_failed", "error", err)
		return httpError(err)
	}

	h.dropProductIndex(c, id)
	publish(c, h.Producer, "catalog_events", id.String(), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})
	l.Info("delete_product_success", "productID", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) AddExtra(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_extra")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("add_extra_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_extra_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	extra, err := h.Svc.AddProductExtra(ctx, productID, req.Name, req.Price)
	if err != nil {
		l.Warn("add_extra_failed", "error", err)
		return httpError(err)
	}

	l.Info("add_extra_success", "extraID", extra.ID)
	return c.JSON(http.StatusCreated, extra)
}

func (h *ProductHandler) DeleteExtra(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_extra")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_extra_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteProductExtra(ctx, id); err != nil {
		l.Warn("delete_extra_failed", "error", err)
		return httpError(err)
	}

	l.Info("delete_extra_success", "extraID", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) AddVerre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_verre")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("add_verre_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_verre_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	verre, err := h.Svc.AddProductVerre(ctx, productID, req.Name, req.Price)
	if err != nil {
		l.Warn("add_verre_failed", "error", err)
		return httpError(err)
	}

	l.Info("add_verre_success", "verreID", verre.ID)
	return c.JSON(http.StatusCreated, verre)
}

func (h *ProductHandler) DeleteVerre(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_verre")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_verre_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteProductVerre(ctx, id); err != nil {
		l.Warn("delete_verre_failed", "error", err)
		return httpError(err)
	}

	l.Info("delete_verre_success", "verreID", id)
	return c.NoContent(http.StatusNoContent)
}
