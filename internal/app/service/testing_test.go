package service

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	cart     CartService
	orders   OrderService
	address  AddressService
	wishlist WishlistService
	users    UserService
	products ProductService
}

func setupServiceTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)

	return &testEnv{
		db:       testDB,
		cart:     NewCartService(cartRepo, productRepo, userRepo),
		orders:   NewOrderService(orderRepo, cartRepo, userRepo, addressRepo, testDB),
		address:  NewAddressService(addressRepo, testDB),
		wishlist: NewWishlistService(wishlistRepo, productRepo),
		users:    NewUserService(userRepo),
		products: NewProductService(productRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, subject string) *model.User {
	user := &model.User{
		SubjectID: subject,
		Email:     subject + "@example.com",
		FirstName: "Test",
		Role:      model.RoleCustomer,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createProduct(t *testing.T, name, price string, stock int) *model.Product {
	product := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Category:      "tops",
		Sizes:         []string{"S", "M", "L"},
		Colors: []model.Color{
			{Name: "Red", HexCode: "#FF0000"},
			{Name: "Blue", HexCode: "#0000FF"},
		},
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) createAddress(t *testing.T, userID uint) *model.ShippingAddress {
	address, err := e.address.Add(userID, AddressInput{
		FullName: "Test User",
		Street:   "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "US",
	})
	require.NoError(t, err)
	return address
}

func red() *model.Color {
	return &model.Color{Name: "Red", HexCode: "#FF0000"}
}
