package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epiphanyresto/menu-backend/internal/models"
)

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := models.Category{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *GormRepo) PatchCategory(ctx context.Context, id uuid.UUID, name, image *string) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if name != nil {
		category.Name = *name
	}
	if image != nil {
		category.Image = *image
	}

	if err := r.DB.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

// DeleteCategoryCascade removes the category together with its
// subcategories, its products and their add-ons in one transaction.
func (r *GormRepo) DeleteCategoryCascade(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var productIDs []uuid.UUID
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductExtra{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductVerre{}).Error; err != nil {
				return err
			}
			if err := tx.Where("category_id = ?", id).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) CountCategoryChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var subcategories int64
	if err := r.DB.WithContext(ctx).Model(&models.Subcategory{}).Where("category_id = ?", id).Count(&subcategories).Error; err != nil {
		return 0, err
	}
	var products int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
		return 0, err
	}
	return subcategories + products, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	if err := r.DB.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC").
		Find(&subcategories).Error; err != nil {
		return nil, err
	}
	return subcategories, nil
}

func (r *GormRepo) GetSubcategory(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	subcategory := models.Subcategory{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&subcategory).Error; err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func (r *GormRepo) CreateSubcategories(ctx context.Context, subcategories []models.Subcategory) error {
	return r.DB.WithContext(ctx).Create(&subcategories).Error
}

func (r *GormRepo) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Subcategory{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

type ProductPatch struct {
	Title         *string
	Image         *string
	Price         *float64
	Description   *string
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
}

func (r *GormRepo) PatchProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		product.CategoryID = *patch.CategoryID
	}
	if patch.SubcategoryID != nil {
		product.SubcategoryID = *patch.SubcategoryID
	}

	if err := r.DB.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

// DeleteProduct removes the product and its extras and verres in one
// transaction.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductExtra{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVerre{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) GetProductExtras(ctx context.Context, productID uuid.UUID) ([]models.ProductExtra, error) {
	var extras []models.ProductExtra
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&extras).Error; err != nil {
		return nil, err
	}
	return extras, nil
}

func (r *GormRepo) CreateProductExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error) {
	if err := r.DB.WithContext(ctx).Create(extra).Error; err != nil {
		return nil, err
	}
	return extra, nil
}

func (r *GormRepo) DeleteProductExtra(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.ProductExtra{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetProductVerres(ctx context.Context, productID uuid.UUID) ([]models.ProductVerre, error) {
	var verres []models.ProductVerre
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&verres).Error; err != nil {
		return nil, err
	}
	return verres, nil
}

func (r *GormRepo) CreateProductVerre(ctx context.Context, verre *models.ProductVerre) (*models.ProductVerre, error) {
	if err := r.DB.WithContext(ctx).Create(verre).Error; err != nil {
		return nil, err
	}
	return verre, nil
}

func (r *GormRepo) DeleteProductVerre(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.ProductVerre{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
