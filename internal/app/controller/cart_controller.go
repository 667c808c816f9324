package controller

import (
	"errors"
	"net/http"

	"github.com/ddrozdov/storefront-backend/internal/app/service"
	apperrors "github.com/ddrozdov/storefront-backend/internal/errors"
	"github.com/ddrozdov/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart returns all cart items for a user
// GET /api/cart/:userId
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	items, err := ctrl.cartService.GetCartItems(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// AddToCart adds a product to a user's cart, merging quantities when the
// product is already there
// POST /api/cart/:userId/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add-to-cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	item, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuantityOutOfRange):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be between 1 and 100")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "Failed to add item to cart")
		}
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"product_id":   req.ProductID,
		"cart_item_id": item.ID,
	})

	c.JSON(http.StatusCreated, item)
}

// UpdateCartItem sets a cart item's quantity outright
// PUT /api/cart/:userId/items/:cartItemId
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	cartItemID, ok := parseIDParam(c, "cartItemId")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	item, err := ctrl.cartService.UpdateCartItemQuantity(userID, cartItemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuantityOutOfRange):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be between 1 and 100")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cart item not found")
		case errors.Is(err, service.ErrOwnProductInCart):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You cannot modify cart items containing your own products")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id":      userID,
				"cart_item_id": cartItemID,
			})
			apperrors.InternalError(c, "Failed to update cart item")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// RemoveCartItem deletes one cart item
// DELETE /api/cart/:userId/items/:cartItemId
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	cartItemID, ok := parseIDParam(c, "cartItemId")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, cartItemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
		})
		apperrors.InternalError(c, "Failed to remove cart item")
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCart empties a user's cart; clearing an empty cart succeeds
// DELETE /api/cart/:userId/clear
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCartTotal returns the cart's monetary total
// GET /api/cart/:userId/total
func (ctrl *CartController) GetCartTotal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	total, err := ctrl.cartService.GetCartTotal(userID)
	if err != nil {
		log.Error("Failed to compute cart total", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to compute cart total")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// GetCartItemCount returns the sum of quantities across the cart
// GET /api/cart/:userId/count
func (ctrl *CartController) GetCartItemCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	count, err := ctrl.cartService.GetCartItemCount(userID)
	if err != nil {
		log.Error("Failed to count cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to count cart items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
