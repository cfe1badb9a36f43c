package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// LineSelector picks a cart line for a product by its variant.
type LineSelector struct {
	Size  string
	Color *model.Color
}

type AddItemInput struct {
	ProductID uint
	Quantity  int
	LineSelector
}

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID uint, input AddItemInput) (*model.Cart, error)
	UpdateQuantity(userID, productID uint, quantity int, line LineSelector) (*model.Cart, error)
	RemoveItem(userID, productID uint, line LineSelector) (*model.Cart, error)
	ClearCart(userID uint) error
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

// GetCart returns the cart with live product data. A user who never added
// anything gets ErrCartNotFound; no cart is created.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItem(userID uint, input AddItemInput) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
		"quantity":   input.Quantity,
		"size":       input.Size,
	})

	if input.Quantity < 1 || input.Quantity > model.MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByID(input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for cart", map[string]interface{}{
				"user_id":    userID,
				"product_id": input.ProductID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var color model.Color
	if input.Color != nil {
		color = *input.Color
	}
	if !product.OffersVariant(input.Size, color) {
		logger.Warn("Variant not offered by product", map[string]interface{}{
			"user_id":    userID,
			"product_id": product.ID,
			"size":       input.Size,
			"color":      color.Name,
		})
		return nil, ErrInvalidVariant
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	size := product.CanonicalSize(input.Size)
	item := &model.CartItem{
		CartID:          cart.ID,
		ProductID:       product.ID,
		Quantity:        input.Quantity,
		PriceAtAddition: product.Price,
		SelectedSize:    size,
		SelectedColor:   color,
		LineKey:         model.NewLineKey(product.ID, size, input.Color).String(),
	}
	if err := s.cartRepo.UpsertItem(item, model.MaxLineQuantity); err != nil {
		if errors.Is(err, repository.ErrLineQuantityLimit) {
			logger.Warn("Cart line quantity limit reached", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"limit":      model.MaxLineQuantity,
			})
			return nil, ErrLineQuantityLimit
		}
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": product.ID,
		})
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cart.ID,
		"product_id": product.ID,
	})
	return s.cartRepo.FindByUserID(userID)
}

// UpdateQuantity overwrites a line's quantity; zero removes the line.
func (s *cartService) UpdateQuantity(userID, productID uint, quantity int, line LineSelector) (*model.Cart, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 0 || quantity > model.MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(userID, productID, line)
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	key := model.NewLineKey(productID, line.Size, line.Color).String()
	affected, err := s.cartRepo.UpdateItemQuantity(cart.ID, key, quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		logger.Warn("Cart item not found for update", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrCartItemNotFound
	}

	return s.cartRepo.FindByUserID(userID)
}

func (s *cartService) RemoveItem(userID, productID uint, line LineSelector) (*model.Cart, error) {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	key := model.NewLineKey(productID, line.Size, line.Color).String()
	affected, err := s.cartRepo.DeleteItem(cart.ID, key)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		logger.Warn("Cart item not found for removal", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrCartItemNotFound
	}

	return s.cartRepo.FindByUserID(userID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.GetCart(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.ClearItems(cart.ID)
}
