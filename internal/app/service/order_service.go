package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const expiryBatchSize = 100

type CreateOrderInput struct {
	ShippingAddressID uint
	PaymentMethod     string
	IdempotencyKey    string
}

// StatusUpdate carries the only order fields that may change after
// checkout. Nil fields are left as they are.
type StatusUpdate struct {
	OrderStatus    *model.OrderStatus
	PaymentStatus  *model.PaymentStatus
	TrackingNumber *string
}

type OrderService interface {
	CreateOrder(userID uint, input CreateOrderInput) (*model.Order, error)
	FindByIdempotencyKey(userID uint, key string) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	UpdateStatus(orderID uint, update StatusUpdate) (*model.Order, error)
	ExpireStalePendingOrders(olderThan time.Duration) (int, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	db          *gorm.DB
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		db:          db,
		now:         time.Now,
	}
}

// CreateOrder turns the user's cart into an order. Validation runs first
// without side effects; stock, order insert, user link and cart clear then
// commit or roll back together. The cart's price snapshot is the price
// charged; stock is checked against the live product.
func (s *orderService) CreateOrder(userID uint, input CreateOrderInput) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":             userID,
		"shipping_address_id": input.ShippingAddressID,
		"payment_method":      input.PaymentMethod,
	})

	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.IdempotencyKey != "" {
		if existing, err := s.orderRepo.FindByIdempotencyKey(userID, input.IdempotencyKey); err == nil {
			logger.Info("Order replayed for idempotency key", map[string]interface{}{
				"user_id":  userID,
				"order_id": existing.ID,
			})
			return existing, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	address, err := s.addressRepo.FindByUserAndID(userID, input.ShippingAddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Shipping address not owned by user", map[string]interface{}{
				"user_id":    userID,
				"address_id": input.ShippingAddressID,
			})
			return nil, ErrInvalidShippingAddress
		}
		return nil, err
	}

	order := &model.Order{
		UserID:          userID,
		ShippingAddress: address.Snapshot(),
		PaymentMethod:   paymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		OrderStatus:     model.OrderStatusPending,
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		order.IdempotencyKey = &key
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
			panic(r)
		}
	}()

	if err := s.checkout(tx, order); err != nil {
		tx.Rollback()
		if order.IdempotencyKey != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, findErr := s.orderRepo.FindByIdempotencyKey(userID, *order.IdempotencyKey); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount.String(),
		"item_count":   len(order.Items),
	})
	return s.orderRepo.FindByID(order.ID)
}

// checkout runs the write half of CreateOrder inside tx.
func (s *orderService) checkout(tx *gorm.DB, order *model.Order) error {
	var cart model.Cart
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", order.UserID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		return err
	}

	var items []model.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrEmptyCart
	}

	total := decimal.Zero
	order.Items = make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    order.UserID,
					"product_id": item.ProductID,
				})
				return ErrProductNotFound
			}
			return err
		}

		result := tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", product.ID, item.Quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
				"user_id":    order.UserID,
				"product_id": product.ID,
				"requested":  item.Quantity,
				"available":  product.StockQuantity,
			})
			return ErrInsufficientStock
		}

		orderItem := model.OrderItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Price:         item.PriceAtAddition,
			Quantity:      item.Quantity,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
			ImageURL:      product.ImageURL,
		}
		total = total.Add(orderItem.Subtotal())
		order.Items = append(order.Items, orderItem)
	}
	order.TotalAmount = total

	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	if err := tx.Model(&model.User{}).Where("id = ?", order.UserID).
		UpdateColumn("updated_at", s.now()).Error; err != nil {
		return err
	}

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart after order creation", err, map[string]interface{}{
			"user_id": order.UserID,
			"cart_id": cart.ID,
		})
		return err
	}

	result := tx.Model(&model.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]interface{}{"version": gorm.Expr("version + 1")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Cart changed during checkout", map[string]interface{}{
			"user_id": order.UserID,
			"cart_id": cart.ID,
		})
		return ErrCartChanged
	}
	return nil
}

func (s *orderService) FindByIdempotencyKey(userID uint, key string) (*model.Order, error) {
	order, err := s.orderRepo.FindByIdempotencyKey(userID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// GetOrderByID reports another user's order as not found.
func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByUserAndID(userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies an admin status change. Cancelling an order that was
// not cancelled yet puts its quantities back into stock.
func (s *orderService) UpdateStatus(orderID uint, update StatusUpdate) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
	})

	updates := make(map[string]interface{})
	if update.OrderStatus != nil {
		if !update.OrderStatus.Valid() {
			return nil, ErrInvalidOrderStatus
		}
		updates["order_status"] = *update.OrderStatus
	}
	if update.PaymentStatus != nil {
		if !update.PaymentStatus.Valid() {
			return nil, ErrInvalidOrderStatus
		}
		updates["payment_status"] = *update.PaymentStatus
	}
	if update.TrackingNumber != nil {
		updates["tracking_number"] = strings.TrimSpace(*update.TrackingNumber)
	}
	if len(updates) == 0 {
		return nil, ErrEmptyStatusUpdate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if update.OrderStatus != nil &&
			*update.OrderStatus == model.OrderStatusCancelled &&
			order.OrderStatus != model.OrderStatusCancelled {
			if err := restoreStock(tx, order.ID); err != nil {
				return err
			}
		}

		return repository.NewOrderRepository(tx).UpdateStatus(order.ID, updates)
	})
	if err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	return s.orderRepo.FindByID(orderID)
}

// ExpireStalePendingOrders cancels orders whose payment never left pending
// within olderThan and restores their stock, one transaction per order.
func (s *orderService) ExpireStalePendingOrders(olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	orders, err := s.orderRepo.FindStalePending(cutoff, expiryBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range orders {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var order model.Order
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, candidate.ID).Error; err != nil {
				return err
			}
			// paid or handled since the scan
			if order.OrderStatus != model.OrderStatusPending || order.PaymentStatus != model.PaymentStatusPending {
				return errSkipOrder
			}
			if err := restoreStock(tx, order.ID); err != nil {
				return err
			}
			return tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
				"order_status":   model.OrderStatusCancelled,
				"payment_status": model.PaymentStatusFailed,
			}).Error
		})
		if errors.Is(err, errSkipOrder) {
			continue
		}
		if err != nil {
			logger.Error("Failed to expire pending order", err, map[string]interface{}{
				"order_id": candidate.ID,
			})
			return expired, err
		}
		expired++
	}

	if expired > 0 {
		logger.Info("Expired stale pending orders", map[string]interface{}{
			"count":  expired,
			"cutoff": cutoff,
		})
	}
	return expired, nil
}

var errSkipOrder = errors.New("order no longer pending")

func restoreStock(tx *gorm.DB, orderID uint) error {
	var items []model.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		if err := tx.Unscoped().Model(&model.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}
