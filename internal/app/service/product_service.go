package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"gorm.io/gorm"
)

const (
	DefaultProductPageSize = 20
	MaxProductPageSize     = 100
)

type ProductService interface {
	List(limit, offset int) ([]model.Product, int64, error)
	Get(id uint) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// List pages through the catalog; the int64 is the total product count.
func (s *productService) List(limit, offset int) ([]model.Product, int64, error) {
	if limit <= 0 {
		limit = DefaultProductPageSize
	}
	if limit > MaxProductPageSize {
		limit = MaxProductPageSize
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.FindAll(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *productService) Get(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
