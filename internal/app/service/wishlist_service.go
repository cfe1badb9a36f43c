package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type WishlistService interface {
	List(userID uint) ([]model.WishlistItem, error)
	Add(userID, productID uint) ([]model.WishlistItem, error)
	Remove(userID, productID uint) ([]model.WishlistItem, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) List(userID uint) ([]model.WishlistItem, error) {
	return s.wishlistRepo.FindByUserID(userID)
}

func (s *wishlistService) Add(userID, productID uint) ([]model.WishlistItem, error) {
	logger.Info("Adding product to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWishlistItemAlreadyExists
	}

	if err := s.wishlistRepo.Create(&model.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		// lost a race with a concurrent add
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWishlistItemAlreadyExists
		}
		return nil, err
	}

	return s.wishlistRepo.FindByUserID(userID)
}

func (s *wishlistService) Remove(userID, productID uint) ([]model.WishlistItem, error) {
	logger.Info("Removing product from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	affected, err := s.wishlistRepo.Delete(userID, productID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrWishlistItemNotFound
	}

	return s.wishlistRepo.FindByUserID(userID)
}
