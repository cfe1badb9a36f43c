package service

import (
	"errors"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressInput struct {
	Label     string
	FullName  string
	Phone     string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	IsDefault bool
}

// AddressUpdate merges non-nil fields over the stored address.
type AddressUpdate struct {
	Label     *string
	FullName  *string
	Phone     *string
	Street    *string
	City      *string
	State     *string
	ZipCode   *string
	Country   *string
	IsDefault *bool
}

type AddressService interface {
	List(userID uint) ([]model.ShippingAddress, error)
	Add(userID uint, input AddressInput) (*model.ShippingAddress, error)
	Update(userID, addressID uint, update AddressUpdate) (*model.ShippingAddress, error)
	Delete(userID, addressID uint) error
	SetDefault(userID, addressID uint) (*model.ShippingAddress, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
	db          *gorm.DB
}

func NewAddressService(addressRepo repository.AddressRepository, db *gorm.DB) AddressService {
	return &addressService{addressRepo: addressRepo, db: db}
}

func (s *addressService) List(userID uint) ([]model.ShippingAddress, error) {
	return s.addressRepo.FindByUserID(userID)
}

// Add stores a new address. The first address of a user is always the
// default; a new default clears the flag on its siblings.
func (s *addressService) Add(userID uint, input AddressInput) (*model.ShippingAddress, error) {
	address := &model.ShippingAddress{
		UserID:    userID,
		Label:     strings.TrimSpace(input.Label),
		FullName:  strings.TrimSpace(input.FullName),
		Phone:     strings.TrimSpace(input.Phone),
		Street:    strings.TrimSpace(input.Street),
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		ZipCode:   strings.TrimSpace(input.ZipCode),
		Country:   strings.TrimSpace(input.Country),
		IsDefault: input.IsDefault,
	}
	if !hasRequiredFields(address) {
		return nil, ErrAddressFieldsRequired
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)

		count, err := repo.CountByUserID(userID)
		if err != nil {
			return err
		}
		if count == 0 {
			address.IsDefault = true
		}

		if err := repo.Create(address); err != nil {
			return err
		}
		if address.IsDefault {
			return repo.UnsetDefaultExcept(userID, address.ID)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to add address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Address added", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
		"is_default": address.IsDefault,
	})
	return address, nil
}

func (s *addressService) Update(userID, addressID uint, update AddressUpdate) (*model.ShippingAddress, error) {
	var address *model.ShippingAddress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)

		found, err := repo.FindByUserAndID(userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}
		address = found
		wasDefault := address.IsDefault

		mergeString(&address.Label, update.Label)
		mergeString(&address.FullName, update.FullName)
		mergeString(&address.Phone, update.Phone)
		mergeString(&address.Street, update.Street)
		mergeString(&address.City, update.City)
		mergeString(&address.State, update.State)
		mergeString(&address.ZipCode, update.ZipCode)
		mergeString(&address.Country, update.Country)
		if update.IsDefault != nil {
			address.IsDefault = *update.IsDefault
		}
		if !hasRequiredFields(address) {
			return ErrAddressFieldsRequired
		}

		if wasDefault && !address.IsDefault {
			// the default moves to the oldest sibling; a lone address keeps it
			siblings, err := repo.FindByUserID(userID)
			if err != nil {
				return err
			}
			address.IsDefault = true
			for _, a := range siblings {
				if a.ID != address.ID {
					address.IsDefault = false
					if err := repo.Update(address); err != nil {
						return err
					}
					return repo.SetDefault(userID, a.ID)
				}
			}
		}

		if err := repo.Update(address); err != nil {
			return err
		}
		if address.IsDefault {
			return repo.UnsetDefaultExcept(userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Address updated", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}

// Delete removes an address. When the default goes and others remain, the
// oldest remaining address becomes the default.
func (s *addressService) Delete(userID, addressID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)

		address, err := repo.FindByUserAndID(userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}

		affected, err := repo.Delete(userID, addressID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAddressNotFound
		}
		if !address.IsDefault {
			return nil
		}

		remaining, err := repo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		for _, a := range remaining {
			if a.IsDefault {
				return nil
			}
		}
		return repo.SetDefault(userID, remaining[0].ID)
	})
	if err != nil {
		return err
	}

	logger.Info("Address deleted", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefault(userID, addressID uint) (*model.ShippingAddress, error) {
	var address *model.ShippingAddress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)

		found, err := repo.FindByUserAndID(userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}
		if err := repo.SetDefault(userID, addressID); err != nil {
			return err
		}
		found.IsDefault = true
		address = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func hasRequiredFields(a *model.ShippingAddress) bool {
	for _, v := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if v == "" {
			return false
		}
	}
	return true
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
