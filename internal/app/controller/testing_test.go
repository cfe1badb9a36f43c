package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/idempotency"
	"github.com/ikkim/storefront-backend/internal/identity"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// tokenVerifier treats the bearer token as the subject id.
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if token == "bad" {
		return nil, identity.ErrInvalidToken
	}
	role := ""
	if token == "admin" {
		role = "admin"
	}
	return &identity.Identity{SubjectID: token, Email: token + "@example.com", FirstName: "Test", Role: role}, nil
}

type testServer struct {
	db      *gorm.DB
	router  *gin.Engine
	idem    *idempotency.MemoryStore
	metrics *metrics.ServerMetrics
}

func setupControllerTest(t *testing.T) *testServer {
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

	userService := service.NewUserService(userRepo)
	idem := idempotency.NewMemoryStore()
	m := metrics.NewServerMetrics("test")

	cartCtrl := NewCartController(service.NewCartService(cartRepo, productRepo, userRepo))
	orderCtrl := NewOrderController(service.NewOrderService(orderRepo, cartRepo, userRepo, addressRepo, testDB), idem, m)
	addressCtrl := NewAddressController(service.NewAddressService(addressRepo, testDB))
	wishlistCtrl := NewWishlistController(service.NewWishlistService(wishlistRepo, productRepo))
	userCtrl := NewUserController(userService)
	productCtrl := NewProductController(service.NewProductService(productRepo))

	auth := middleware.NewAuthMiddleware(tokenVerifier{}, userService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())

	v1 := r.Group("/api/v1")
	v1.GET("/products", productCtrl.ListProducts)
	v1.GET("/products/:id", productCtrl.GetProduct)
	v1.POST("/users/me", auth.Authenticate(), userCtrl.SyncProfile)

	authed := v1.Group("", auth.Authenticate(), auth.ResolveUser())
	authed.GET("/users/me", userCtrl.GetProfile)
	authed.GET("/cart", cartCtrl.GetCart)
	authed.POST("/cart/add", cartCtrl.AddToCart)
	authed.PUT("/cart/update/:productId", cartCtrl.UpdateCartItem)
	authed.DELETE("/cart/remove/:productId", cartCtrl.RemoveFromCart)
	authed.DELETE("/cart", cartCtrl.ClearCart)
	authed.POST("/orders", orderCtrl.CreateOrder)
	authed.GET("/orders", orderCtrl.GetOrders)
	authed.GET("/orders/:id", orderCtrl.GetOrderByID)
	authed.PUT("/orders/:id/status", auth.RequireRole(model.RoleAdmin), orderCtrl.UpdateOrderStatus)
	authed.GET("/addresses", addressCtrl.ListAddresses)
	authed.POST("/addresses", addressCtrl.AddAddress)
	authed.PUT("/addresses/:id", addressCtrl.UpdateAddress)
	authed.DELETE("/addresses/:id", addressCtrl.DeleteAddress)
	authed.PUT("/addresses/:id/default", addressCtrl.SetDefaultAddress)
	authed.GET("/wishlist", wishlistCtrl.GetWishlist)
	authed.POST("/wishlist", wishlistCtrl.AddToWishlist)
	authed.DELETE("/wishlist/:productId", wishlistCtrl.RemoveFromWishlist)

	return &testServer{db: testDB, router: r, idem: idem, metrics: m}
}

// do sends a request as subject (empty for anonymous) and returns the recorder.
func (s *testServer) do(method, path, subject string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register syncs subject as a local user.
func (s *testServer) register(t *testing.T, subject string) *model.User {
	w := s.do(http.MethodPost, "/api/v1/users/me", subject, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user model.User
	require.NoError(t, s.db.Where("subject_id = ?", subject).First(&user).Error)
	return &user
}

func (s *testServer) createProduct(t *testing.T, name, price string, stock int) *model.Product {
	product := &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Category:      "tops",
		Sizes:         []string{"S", "M", "L"},
		Colors:        []model.Color{{Name: "Red", HexCode: "#FF0000"}},
	}
	require.NoError(t, s.db.Create(product).Error)
	return product
}

func (s *testServer) createAddress(t *testing.T, subject string) uint {
	w := s.do(http.MethodPost, "/api/v1/addresses", subject, map[string]interface{}{
		"street":  "1 Main St",
		"city":    "Springfield",
		"state":   "IL",
		"zipCode": "62701",
		"country": "US",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Address model.ShippingAddress `json:"address"`
	}
	decode(t, w, &resp)
	return resp.Address.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func redColor() map[string]string {
	return map[string]string{"name": "Red", "hexCode": "#FF0000"}
}
