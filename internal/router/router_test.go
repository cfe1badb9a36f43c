package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/idempotency"
	"github.com/ikkim/storefront-backend/internal/identity"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectAll struct{}

func (rejectAll) Verify(context.Context, string) (*identity.Identity, error) {
	return nil, identity.ErrInvalidToken
}

func setupRouter(t *testing.T) http.Handler {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)
	userService := service.NewUserService(userRepo)
	m := metrics.NewServerMetrics("router_test")

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: "test"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://shop.example.com"}},
	}

	r := NewRouter(
		controller.NewUserController(userService),
		controller.NewProductController(service.NewProductService(productRepo)),
		controller.NewCartController(service.NewCartService(cartRepo, productRepo, userRepo)),
		controller.NewOrderController(service.NewOrderService(orderRepo, cartRepo, userRepo, addressRepo, testDB), idempotency.NewMemoryStore(), m),
		controller.NewWishlistController(service.NewWishlistService(wishlistRepo, productRepo)),
		controller.NewAddressController(service.NewAddressService(addressRepo, testDB)),
		middleware.NewAuthMiddleware(rejectAll{}, userService),
		m,
		cfg,
	)
	return r.Setup()
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := setupRouter(t)

	for _, path := range []string{"/health", "/api/v1/products", "/metrics"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	h := setupRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/add"},
		{http.MethodPut, "/api/v1/cart/update/1"},
		{http.MethodDelete, "/api/v1/cart/remove/1"},
		{http.MethodDelete, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders/1"},
		{http.MethodPut, "/api/v1/orders/1/status"},
		{http.MethodGet, "/api/v1/addresses"},
		{http.MethodPut, "/api/v1/addresses/1/default"},
		{http.MethodGet, "/api/v1/wishlist"},
		{http.MethodDelete, "/api/v1/wishlist/1"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/users/me"},
	}

	for _, rt := range routes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer whatever")
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
	}
}

func TestRouter_CORS(t *testing.T) {
	h := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://shop.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
