package repository

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindByUserAndID(userID, orderID uint) (*model.Order, error)
	FindByIdempotencyKey(userID uint, key string) (*model.Order, error)
	FindStalePending(createdBefore time.Time, limit int) ([]model.Order, error)
	UpdateStatus(id uint, updates map[string]interface{}) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

// FindByUserAndID scopes the lookup to the owner, so another user's order
// is reported as not found.
func (r *orderRepository) FindByUserAndID(userID, orderID uint) (*model.Order, error) {
	logger.Debug("Finding order by user and ID in database", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	var order model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).First(&order, orderID).Error; err != nil {
		logger.Debug("Order not found by user and ID in database", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIdempotencyKey(userID uint, key string) (*model.Order, error) {
	var order model.Order
	err := r.preloadOrder().
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindStalePending returns orders that are still pending on both status
// fields and were created before the cutoff, oldest first.
func (r *orderRepository) FindStalePending(createdBefore time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Where("order_status = ? AND payment_status = ? AND created_at < ?",
			model.OrderStatusPending, model.PaymentStatusPending, createdBefore).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find stale pending orders in database", err, map[string]interface{}{
			"created_before": createdBefore,
		})
		return nil, err
	}
	return orders, nil
}

// UpdateStatus writes only status columns. Items, totals and the shipping
// snapshot are never touched after creation.
func (r *orderRepository) UpdateStatus(id uint, updates map[string]interface{}) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"updates":  updates,
	})

	allowed := make(map[string]interface{}, len(updates))
	for _, column := range []string{"order_status", "payment_status", "tracking_number"} {
		if v, ok := updates[column]; ok {
			allowed[column] = v
		}
	}
	if len(allowed) == 0 {
		return nil
	}

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).Updates(allowed).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}
	return nil
}
