package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindByUserID(userID uint) (*model.Cart, error)
	GetOrCreate(userID uint) (*model.Cart, error)
	UpsertItem(item *model.CartItem, maxQuantity int) error
	UpdateItemQuantity(cartID uint, lineKey string, quantity int) (int64, error)
	DeleteItem(cartID uint, lineKey string) (int64, error)
	ClearItems(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// FindByUserID returns the user's cart with items and their live products.
func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		logger.Debug("Cart not found by user ID in database", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"count":   len(cart.Items),
	})
	return &cart, nil
}

// GetOrCreate inserts the cart if the user has none. Concurrent callers all
// end up with the same row.
func (r *cartRepository) GetOrCreate(userID uint) (*model.Cart, error) {
	cart := &model.Cart{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(cart).Error
	if err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	var existing model.Cart
	if err := r.db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
		logger.Error("Failed to load cart after create", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &existing, nil
}

// UpsertItem inserts a line or, when (cart_id, line_key) already exists,
// adds the quantity in place and overwrites the price snapshot. A merge that
// would push the line above maxQuantity leaves it untouched and returns
// ErrLineQuantityLimit.
func (r *cartRepository) UpsertItem(item *model.CartItem, maxQuantity int) error {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"line_key":   item.LineKey,
		"quantity":   item.Quantity,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clauseAssociations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "line_key"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + excluded.quantity")},
				{Column: clause.Column{Name: "price_at_addition"}, Value: gorm.Expr("excluded.price_at_addition")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			},
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("cart_items.quantity + excluded.quantity <= ?", maxQuantity),
			}},
		}).Create(item)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLineQuantityLimit
		}
		return bumpCartVersion(tx, item.CartID)
	})
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

// UpdateItemQuantity overwrites the quantity of one line and reports how many
// rows matched.
func (r *cartRepository) UpdateItemQuantity(cartID uint, lineKey string, quantity int) (int64, error) {
	logger.Debug("Updating cart item quantity in database", map[string]interface{}{
		"cart_id":  cartID,
		"line_key": lineKey,
		"quantity": quantity,
	})

	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.CartItem{}).
			Where("cart_id = ? AND line_key = ?", cartID, lineKey).
			Update("quantity", quantity)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return bumpCartVersion(tx, cartID)
	})
	if err != nil {
		logger.Error("Failed to update cart item quantity in database", err, map[string]interface{}{
			"cart_id":  cartID,
			"line_key": lineKey,
		})
		return 0, err
	}
	return affected, nil
}

func (r *cartRepository) DeleteItem(cartID uint, lineKey string) (int64, error) {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_id":  cartID,
		"line_key": lineKey,
	})

	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("cart_id = ? AND line_key = ?", cartID, lineKey).
			Delete(&model.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return bumpCartVersion(tx, cartID)
	})
	if err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_id":  cartID,
			"line_key": lineKey,
		})
		return 0, err
	}
	return affected, nil
}

func (r *cartRepository) ClearItems(cartID uint) error {
	logger.Debug("Clearing cart items in database", map[string]interface{}{
		"cart_id": cartID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return bumpCartVersion(tx, cartID)
	})
	if err != nil {
		logger.Error("Failed to clear cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}
