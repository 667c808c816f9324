package service

import (
	"errors"
	"time"

	"github.com/ddrozdov/storefront-backend/internal/app/model"
	"github.com/ddrozdov/storefront-backend/internal/app/repository"
	"github.com/ddrozdov/storefront-backend/pkg/logger"
	"github.com/ddrozdov/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrNotProductOwner     = errors.New("not the product owner")
	ErrProductNameRequired = errors.New("product name is required")
	ErrProductPriceInvalid = errors.New("product price must be positive")
	ErrProductInCart       = errors.New("product is referenced by cart items")
)

// ProductInput carries the mutable product attributes for create and update.
type ProductInput struct {
	Name             string
	ShortDescription string
	Price            float64
	ImageURL         *string
	ProductType      model.ProductType
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return ErrProductNameRequired
	}
	if in.Price <= 0 {
		return ErrProductPriceInvalid
	}
	return nil
}

type ProductService interface {
	ListProducts(req pagination.Request) (pagination.Result[model.Product], error)
	ListProductsByUser(userID uint, req pagination.Request) (pagination.Result[model.Product], error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput, creatorID uint) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput, userID uint) (*model.Product, error)
	DeleteProduct(id, userID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

func NewProductService(productRepo repository.ProductRepository, cartRepo repository.CartRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func (s *productService) listPage(page repository.ProductPage, req pagination.Request) (pagination.Result[model.Product], error) {
	req.Normalize()
	page.Limit = req.Take()
	page.Offset = req.Skip()

	totalCount, err := s.productRepo.Count(page)
	if err != nil {
		return pagination.Result[model.Product]{}, err
	}

	products, err := s.productRepo.FindPage(page)
	if err != nil {
		return pagination.Result[model.Product]{}, err
	}

	return pagination.New(products, totalCount, req), nil
}

func (s *productService) ListProducts(req pagination.Request) (pagination.Result[model.Product], error) {
	logger.Debug("Listing products", map[string]interface{}{
		"page":      req.Page,
		"page_size": req.PageSize,
	})

	result, err := s.listPage(repository.ProductPage{}, req)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return result, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"page":        result.Page,
		"count":       len(result.Items),
		"total_count": result.TotalCount,
	})
	return result, nil
}

func (s *productService) ListProductsByUser(userID uint, req pagination.Request) (pagination.Result[model.Product], error) {
	logger.Debug("Listing products by user", map[string]interface{}{
		"user_id":   userID,
		"page":      req.Page,
		"page_size": req.PageSize,
	})

	result, err := s.listPage(repository.ProductPage{CreatedByUserID: &userID}, req)
	if err != nil {
		logger.Error("Failed to list products by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return result, err
	}
	return result, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput, creatorID uint) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":               input.Name,
		"price":              input.Price,
		"created_by_user_id": creatorID,
	})

	if err := input.validate(); err != nil {
		logger.Warn("Product validation failed", map[string]interface{}{
			"name":  input.Name,
			"price": input.Price,
			"error": err.Error(),
		})
		return nil, err
	}

	product := &model.Product{
		Name:             input.Name,
		ShortDescription: input.ShortDescription,
		Price:            input.Price,
		ImageURL:         input.ImageURL,
		ProductType:      input.ProductType,
		CreatedByUserID:  creatorID,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	// Re-read so the response carries the owner projection.
	created, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		logger.Error("Failed to reload created product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": created.ID,
		"name":       created.Name,
	})
	return created, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput, userID uint) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for update", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for update", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	if product.CreatedByUserID != userID {
		logger.Warn("Product update denied: ownership mismatch", map[string]interface{}{
			"product_id": id,
			"user_id":    userID,
			"owner_id":   product.CreatedByUserID,
		})
		return nil, ErrNotProductOwner
	}

	if err := input.validate(); err != nil {
		logger.Warn("Product validation failed", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	now := time.Now().UTC()
	product.Name = input.Name
	product.ShortDescription = input.ShortDescription
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.ProductType = input.ProductType
	product.ModifiedAt = &now

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id, userID uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for deletion", map[string]interface{}{
				"product_id": id,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for deletion", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	if product.CreatedByUserID != userID {
		logger.Warn("Product deletion denied: ownership mismatch", map[string]interface{}{
			"product_id": id,
			"user_id":    userID,
			"owner_id":   product.CreatedByUserID,
		})
		return ErrNotProductOwner
	}

	// The FK restricts the delete anyway; checking here keeps the error
	// actionable instead of surfacing a constraint violation.
	references, err := s.cartRepo.CountByProductID(id)
	if err != nil {
		logger.Error("Failed to count cart references for product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if references > 0 {
		logger.Warn("Product deletion denied: still referenced by carts", map[string]interface{}{
			"product_id": id,
			"references": references,
		})
		return ErrProductInCart
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
