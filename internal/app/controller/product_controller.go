package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ddrozdov/storefront-backend/internal/app/model"
	"github.com/ddrozdov/storefront-backend/internal/app/service"
	apperrors "github.com/ddrozdov/storefront-backend/internal/errors"
	"github.com/ddrozdov/storefront-backend/internal/middleware"
	"github.com/ddrozdov/storefront-backend/pkg/pagination"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name             string            `json:"name" binding:"required"`
	ShortDescription string            `json:"short_description"`
	Price            float64           `json:"price" binding:"required,gt=0"`
	ImageURL         *string           `json:"image_url"`
	ProductType      model.ProductType `json:"product_type"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		ImageURL:         req.ImageURL,
		ProductType:      req.ProductType,
	}
}

// ListProducts returns one page of the catalogue
// GET /api/products?page=&pageSize=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req pagination.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Warn("Invalid pagination query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid pagination parameters")
		return
	}

	result, err := ctrl.productService.ListProducts(req)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(result.Items),
		"total": result.TotalCount,
	})

	c.JSON(http.StatusOK, result)
}

// ListMyProducts returns the authenticated user's products
// GET /api/products/my-products
func (ctrl *ProductController) ListMyProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req pagination.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid pagination parameters")
		return
	}

	result, err := ctrl.productService.ListProductsByUser(userID, req)
	if err != nil {
		log.Error("Failed to fetch user products", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProductByID returns a product by ID
// GET /api/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a new product owned by the caller
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNameRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Product name is required")
		case errors.Is(err, service.ErrProductPriceInvalid):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Product price must be greater than zero")
		default:
			log.Error("Failed to create product", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to create product")
		}
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"user_id":    userID,
	})

	c.Header("Location", fmt.Sprintf("/api/products/%d", product.ID))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct modifies a product; only its creator may do so
// PUT /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, req.toInput(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrNotProductOwner):
			log.Warn("Product update denied: not the owner", map[string]interface{}{
				"product_id": id,
				"user_id":    userID,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only modify your own products")
		case errors.Is(err, service.ErrProductNameRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Product name is required")
		case errors.Is(err, service.ErrProductPriceInvalid):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Product price must be greater than zero")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.InternalError(c, "Failed to update product")
		}
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"user_id":    userID,
	})

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product; only its creator may do so
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrNotProductOwner):
			log.Warn("Product deletion denied: not the owner", map[string]interface{}{
				"product_id": id,
				"user_id":    userID,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only delete your own products")
		case errors.Is(err, service.ErrProductInCart):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Product is referenced by existing carts")
		default:
			log.Error("Failed to delete product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.InternalError(c, "Failed to delete product")
		}
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})

	c.Status(http.StatusNoContent)
}

// parseIDParam reads a positive integer path parameter, responding with
// 400 on garbage input.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
