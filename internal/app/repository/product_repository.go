package repository

import (
	"github.com/ddrozdov/storefront-backend/internal/app/model"
	"github.com/ddrozdov/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductPage selects one window of the catalog, optionally scoped to a
// creator. When CreatedByUserID is set, results are ordered newest first;
// otherwise insertion order is kept.
type ProductPage struct {
	CreatedByUserID *uint
	Limit           int
	Offset          int
}

type ProductRepository interface {
	Create(product *model.Product) error
	Count(page ProductPage) (int64, error)
	FindPage(page ProductPage) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":               product.Name,
		"product_type":       product.ProductType,
		"created_by_user_id": product.CreatedByUserID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":               product.Name,
			"created_by_user_id": product.CreatedByUserID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) scope(page ProductPage) *gorm.DB {
	query := r.db.Model(&model.Product{})
	if page.CreatedByUserID != nil {
		query = query.Where("created_by_user_id = ?", *page.CreatedByUserID)
	}
	return query
}

func (r *productRepository) Count(page ProductPage) (int64, error) {
	var count int64
	if err := r.scope(page).Count(&count).Error; err != nil {
		logger.Error("Failed to count products in database", err, map[string]interface{}{
			"created_by_user_id": page.CreatedByUserID,
		})
		return 0, err
	}
	return count, nil
}

func (r *productRepository) FindPage(page ProductPage) ([]model.Product, error) {
	logger.Debug("Finding product page in database", map[string]interface{}{
		"created_by_user_id": page.CreatedByUserID,
		"limit":              page.Limit,
		"offset":             page.Offset,
	})

	query := r.scope(page).Preload("CreatedBy")
	if page.CreatedByUserID != nil {
		query = query.Order("created_at DESC")
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find product page in database", err, map[string]interface{}{
			"created_by_user_id": page.CreatedByUserID,
		})
		return nil, err
	}

	logger.Debug("Product page found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("CreatedBy").First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
