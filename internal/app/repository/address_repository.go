package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	WithTx(tx *gorm.DB) AddressRepository
	Create(address *model.ShippingAddress) error
	FindByUserID(userID uint) ([]model.ShippingAddress, error)
	FindByUserAndID(userID, addressID uint) (*model.ShippingAddress, error)
	CountByUserID(userID uint) (int64, error)
	Update(address *model.ShippingAddress) error
	Delete(userID, addressID uint) (int64, error)
	UnsetDefaultExcept(userID, addressID uint) error
	SetDefault(userID, addressID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *addressRepository) WithTx(tx *gorm.DB) AddressRepository {
	return &addressRepository{db: tx}
}

func (r *addressRepository) Create(address *model.ShippingAddress) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id":    address.UserID,
		"label":      address.Label,
		"is_default": address.IsDefault,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})
	return nil
}

// FindByUserID lists addresses in insertion order, which is also the order
// used to pick a replacement default.
func (r *addressRepository) FindByUserID(userID uint) ([]model.ShippingAddress, error) {
	logger.Debug("Finding addresses by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var addresses []model.ShippingAddress
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&addresses).Error; err != nil {
		logger.Error("Failed to find addresses by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

func (r *addressRepository) FindByUserAndID(userID, addressID uint) (*model.ShippingAddress, error) {
	var address model.ShippingAddress
	err := r.db.Where("user_id = ? AND id = ?", userID, addressID).First(&address).Error
	if err != nil {
		logger.Debug("Address not found for user in database", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ShippingAddress{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *addressRepository) Update(address *model.ShippingAddress) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})

	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(userID, addressID uint) (int64, error) {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	result := r.db.Where("user_id = ? AND id = ?", userID, addressID).Delete(&model.ShippingAddress{})
	if result.Error != nil {
		logger.Error("Failed to delete address from database", result.Error, map[string]interface{}{
			"address_id": addressID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UnsetDefaultExcept clears the default flag on every sibling of addressID.
func (r *addressRepository) UnsetDefaultExcept(userID, addressID uint) error {
	return r.db.Model(&model.ShippingAddress{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, addressID, true).
		Update("is_default", false).Error
}

func (r *addressRepository) SetDefault(userID, addressID uint) error {
	logger.Debug("Setting default address in database", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if err := r.UnsetDefaultExcept(userID, addressID); err != nil {
		return err
	}
	return r.db.Model(&model.ShippingAddress{}).
		Where("user_id = ? AND id = ?", userID, addressID).
		Update("is_default", true).Error
}
