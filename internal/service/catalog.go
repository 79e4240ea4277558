package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/epiphanyresto/menu-backend/internal/models"
	"github.com/epiphanyresto/menu-backend/internal/repo"
)

// Category delete policies.
const (
	DeleteCascade  = "cascade"
	DeleteRestrict = "restrict"
)

type CatalogService struct {
	Repo *repo.GormRepo

	// DeletePolicy decides what deleting a category does to its
	// subcategories and products. Defaults to DeleteCascade.
	DeletePolicy string
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, image string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	image = strings.TrimSpace(image)

	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if image == "" || !validURL(image) {
		return nil, fmt.Errorf("%w: category image must be a valid url", ErrValidation)
	}

	category, err := s.Repo.CreateCategory(ctx, &models.Category{Name: name, Image: image})
	if err != nil {
		return nil, wrapStorage("create category", err)
	}
	return category, nil
}

// CreateSubcategories bulk-inserts the non-blank names for a category.
// Blank and whitespace-only names are dropped; an all-blank input issues
// no storage call at all.
func (s *CatalogService) CreateSubcategories(ctx context.Context, names []string, categoryID uuid.UUID) error {
	rows := make([]models.Subcategory, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rows = append(rows, models.Subcategory{Name: name, CategoryID: categoryID})
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := s.Repo.GetCategory(ctx, categoryID); err != nil {
		return wrapStorage("create subcategories: parent category", err)
	}

	if err := s.Repo.CreateSubcategories(ctx, rows); err != nil {
		return wrapStorage("create subcategories", err)
	}
	return nil
}

type CreateProductInput struct {
	Title         string    `json:"title"`
	Image         string    `json:"image"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
	CategoryID    uuid.UUID `json:"category_id"`
	SubcategoryID uuid.UUID `json:"subcategory_id"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	title := strings.TrimSpace(input.Title)
	image := strings.TrimSpace(input.Image)

	if title == "" {
		return nil, fmt.Errorf("%w: product title is required", ErrValidation)
	}
	if image == "" || !validURL(image) {
		return nil, fmt.Errorf("%w: product image must be a valid url", ErrValidation)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: product price must be greater than 0", ErrValidation)
	}
	if input.CategoryID == uuid.Nil || input.SubcategoryID == uuid.Nil {
		return nil, fmt.Errorf("%w: category and subcategory are required", ErrValidation)
	}

	if err := s.checkSubcategoryInCategory(ctx, input.SubcategoryID, input.CategoryID); err != nil {
		return nil, err
	}

	product := models.Product{
		Title:         title,
		Image:         image,
		Price:         input.Price,
		Description:   strings.TrimSpace(input.Description),
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
	}
	created, err := s.Repo.CreateProduct(ctx, &product)
	if err != nil {
		return nil, wrapStorage("create product", err)
	}
	return created, nil
}

// checkSubcategoryInCategory enforces that a product's subcategory belongs
// to the product's own category.
func (s *CatalogService) checkSubcategoryInCategory(ctx context.Context, subcategoryID, categoryID uuid.UUID) error {
	subcategory, err := s.Repo.GetSubcategory(ctx, subcategoryID)
	if err != nil {
		return wrapStorage("lookup subcategory", err)
	}
	if subcategory.CategoryID != categoryID {
		return fmt.Errorf("%w: subcategory does not belong to category", ErrValidation)
	}
	return nil
}

// GetCategories returns all categories ordered by creation time, each with
// its subcategories nested in creation order.
func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.Repo.GetCategories(ctx)
	if err != nil {
		return nil, wrapStorage("get categories", err)
	}

	for i := range categories {
		subcategories, err := s.Repo.GetSubcategoriesByCategory(ctx, categories[i].ID)
		if err != nil {
			return nil, wrapStorage("get subcategories", err)
		}
		categories[i].Subcategories = subcategories
	}

	return categories, nil
}

// GetProducts returns all products ordered by creation time, each with its
// extras and verres nested.
func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.Repo.GetProducts(ctx)
	if err != nil {
		return nil, wrapStorage("get products", err)
	}

	for i := range products {
		extras, err := s.Repo.GetProductExtras(ctx, products[i].ID)
		if err != nil {
			return nil, wrapStorage("get product extras", err)
		}
		verres, err := s.Repo.GetProductVerres(ctx, products[i].ID)
		if err != nil {
			return nil, wrapStorage("get product verres", err)
		}
		products[i].Extras = extras
		products[i].Verres = verres
	}

	return products, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name, image *string) (*models.Category, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: category name is required", ErrValidation)
		}
		name = &trimmed
	}
	if image != nil {
		trimmed := strings.TrimSpace(*image)
		if trimmed == "" || !validURL(trimmed) {
			return nil, fmt.Errorf("%w: category image must be a valid url", ErrValidation)
		}
		image = &trimmed
	}

	category, err := s.Repo.PatchCategory(ctx, id, name, image)
	if err != nil {
		return nil, wrapStorage("update category", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, patch repo.ProductPatch) (*models.Product, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: product title is required", ErrValidation)
		}
		patch.Title = &trimmed
	}
	if patch.Image != nil {
		trimmed := strings.TrimSpace(*patch.Image)
		if trimmed == "" || !validURL(trimmed) {
			return nil, fmt.Errorf("%w: product image must be a valid url", ErrValidation)
		}
		patch.Image = &trimmed
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, fmt.Errorf("%w: product price must be greater than 0", ErrValidation)
	}

	// Re-check the subcategory/category pairing if either side moves.
	if patch.CategoryID != nil || patch.SubcategoryID != nil {
		current, err := s.Repo.GetProduct(ctx, id)
		if err != nil {
			return nil, wrapStorage("update product", err)
		}
		categoryID := current.CategoryID
		subcategoryID := current.SubcategoryID
		if patch.CategoryID != nil {
			categoryID = *patch.CategoryID
		}
		if patch.SubcategoryID != nil {
			subcategoryID = *patch.SubcategoryID
		}
		if err := s.checkSubcategoryInCategory(ctx, subcategoryID, categoryID); err != nil {
			return nil, err
		}
	}

	product, err := s.Repo.PatchProduct(ctx, id, patch)
	if err != nil {
		return nil, wrapStorage("update product", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if s.DeletePolicy == DeleteRestrict {
		children, err := s.Repo.CountCategoryChildren(ctx, id)
		if err != nil {
			return wrapStorage("delete category", err)
		}
		if children > 0 {
			return fmt.Errorf("%w: category still has subcategories or products", ErrConflict)
		}
		if err := s.Repo.DeleteCategory(ctx, id); err != nil {
			return wrapStorage("delete category", err)
		}
		return nil
	}

	if err := s.Repo.DeleteCategoryCascade(ctx, id); err != nil {
		return wrapStorage("delete category", err)
	}
	return nil
}

func (s *CatalogService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteSubcategory(ctx, id); err != nil {
		return wrapStorage("delete subcategory", err)
	}
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return wrapStorage("delete product", err)
	}
	return nil
}

func (s *CatalogService) AddProductExtra(ctx context.Context, productID uuid.UUID, name string, price float64) (*models.ProductExtra, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: extra name is required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: extra price cannot be negative", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, wrapStorage("add product extra: parent product", err)
	}

	extra, err := s.Repo.CreateProductExtra(ctx, &models.ProductExtra{Name: name, Price: price, ProductID: productID})
	if err != nil {
		return nil, wrapStorage("add product extra", err)
	}
	return extra, nil
}

func (s *CatalogService) DeleteProductExtra(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProductExtra(ctx, id); err != nil {
		return wrapStorage("delete product extra", err)
	}
	return nil
}

func (s *CatalogService) AddProductVerre(ctx context.Context, productID uuid.UUID, name string, price float64) (*models.ProductVerre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: verre name is required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: verre price cannot be negative", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, wrapStorage("add product verre: parent product", err)
	}

	verre, err := s.Repo.CreateProductVerre(ctx, &models.ProductVerre{Name: name, Price: price, ProductID: productID})
	if err != nil {
		return nil, wrapStorage("add product verre", err)
	}
	return verre, nil
}

func (s *CatalogService) DeleteProductVerre(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProductVerre(ctx, id); err != nil {
		return wrapStorage("delete product verre", err)
	}
	return nil
}

// GroupProductsBySubcategory partitions the products of one category by
// subcategory, preserving the relative order of the input. Subcategories
// without products map to empty slices so presentation can skip them.
func GroupProductsBySubcategory(category models.Category, products []models.Product) map[uuid.UUID][]models.Product {
	groups := make(map[uuid.UUID][]models.Product, len(category.Subcategories))
	for _, subcategory := range category.Subcategories {
		groups[subcategory.ID] = []models.Product{}
	}

	for _, product := range products {
		if product.CategoryID != category.ID {
			continue
		}
		if _, ok := groups[product.SubcategoryID]; !ok {
			continue
		}
		groups[product.SubcategoryID] = append(groups[product.SubcategoryID], product)
	}

	return groups
}
