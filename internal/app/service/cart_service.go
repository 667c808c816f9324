package service

import (
	"errors"

	"github.com/ddrozdov/storefront-backend/internal/app/model"
	"github.com/ddrozdov/storefront-backend/internal/app/repository"
	"github.com/ddrozdov/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	MinCartQuantity = 1
	MaxCartQuantity = 100
)

var (
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrQuantityOutOfRange = errors.New("quantity must be between 1 and 100")
	ErrOwnProductInCart   = errors.New("cannot hold your own product in cart")
)

type CartService interface {
	GetCartItems(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, quantity int) (*model.CartItem, error)
	UpdateCartItemQuantity(userID, cartItemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
	GetCartTotal(userID uint) (float64, error)
	GetCartItemCount(userID uint) (int, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func validQuantity(quantity int) bool {
	return quantity >= MinCartQuantity && quantity <= MaxCartQuantity
}

func (s *cartService) GetCartItems(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if !validQuantity(quantity) {
		logger.Warn("Cannot add to cart: quantity out of range", map[string]interface{}{
			"user_id":  userID,
			"quantity": quantity,
		})
		return nil, ErrQuantityOutOfRange
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for cart add", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: user not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for cart add", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// Atomic insert-or-increment on the (user, product) unique index.
	if err := s.cartRepo.Upsert(userID, productID, quantity); err != nil {
		logger.Error("Failed to upsert cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	cartItem, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil {
		logger.Error("Failed to reload cart item after upsert", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"quantity":     cartItem.Quantity,
	})
	return cartItem, nil
}

func (s *cartService) UpdateCartItemQuantity(userID, cartItemID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if !validQuantity(quantity) {
		logger.Warn("Cannot update cart item: quantity out of range", map[string]interface{}{
			"cart_item_id": cartItemID,
			"quantity":     quantity,
		})
		return nil, ErrQuantityOutOfRange
	}

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	// Foreign rows are reported as missing, not forbidden.
	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return nil, ErrCartItemNotFound
	}

	if cartItem.Product != nil && cartItem.Product.CreatedByUserID == userID {
		logger.Warn("Cart item update denied: own product", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"product_id":   cartItem.ProductID,
		})
		return nil, ErrOwnProductInCart
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})
	return cartItem, nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	// Idempotent: clearing an empty cart succeeds.
	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *cartService) GetCartTotal(userID uint) (float64, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart for total", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}

	var total float64
	for _, item := range cartItems {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}

	logger.Debug("Cart total computed", map[string]interface{}{
		"user_id": userID,
		"total":   total,
	})
	return total, nil
}

func (s *cartService) GetCartItemCount(userID uint) (int, error) {
	count, err := s.cartRepo.SumQuantities(userID)
	if err != nil {
		logger.Error("Failed to count cart items", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}

	logger.Debug("Cart item count computed", map[string]interface{}{
		"user_id": userID,
		"count":   count,
	})
	return count, nil
}
