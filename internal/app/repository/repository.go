package repository

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLineQuantityLimit is returned when merging into a cart line would exceed
// the allowed quantity.
var ErrLineQuantityLimit = errors.New("cart line quantity limit exceeded")

// clauseAssociations skips nested associations on writes; relations are
// persisted by their own repositories.
const clauseAssociations = clause.Associations

// bumpCartVersion increments the cart version in the same transaction as a
// line change.
func bumpCartVersion(tx *gorm.DB, cartID uint) error {
	return tx.Model(&model.Cart{}).Where("id = ?", cartID).
		Updates(map[string]interface{}{"version": gorm.Expr("version + 1")}).Error
}
