package controller

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/idempotency"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

type orderResponse struct {
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

// checkoutReady registers subject, fills the cart and returns the address id.
func checkoutReady(t *testing.T, s *testServer, subject string) (uint, *model.Product) {
	s.register(t, subject)
	p := s.createProduct(t, "Tee-"+subject, "25.40", 10)

	w := s.do(http.MethodPost, "/api/v1/cart/add", subject, map[string]interface{}{
		"productId": p.ID, "quantity": 3, "selectedSize": "M", "selectedColor": redColor(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return s.createAddress(t, subject), p
}

func TestOrderController_CreateOrder(t *testing.T) {
	s := setupControllerTest(t)
	addressID, p := checkoutReady(t, s, "alice")

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", map[string]interface{}{
		"shippingAddressId": addressID,
		"paymentMethod":     "card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp orderResponse
	decode(t, w, &resp)
	assert.True(t, resp.Order.TotalAmount.Equal(decimal.RequireFromString("76.20")))
	assert.Equal(t, model.OrderStatusPending, resp.Order.OrderStatus)
	assert.Equal(t, model.PaymentStatusPending, resp.Order.PaymentStatus)
	assert.Equal(t, "Springfield", resp.Order.ShippingAddress.City)
	require.Len(t, resp.Order.Items, 1)
	assert.Equal(t, 3, resp.Order.Items[0].Quantity)
	assert.Equal(t, p.ID, resp.Order.Items[0].ProductID)

	w = s.do(http.MethodGet, "/api/v1/cart", "alice", nil)
	assert.Contains(t, w.Body.String(), `"count":0`)

	var stock model.Product
	require.NoError(t, s.db.First(&stock, p.ID).Error)
	assert.Equal(t, 7, stock.StockQuantity)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Checkouts.WithLabelValues("created")))
}

func TestOrderController_CreateOrder_Failures(t *testing.T) {
	s := setupControllerTest(t)
	addressID, _ := checkoutReady(t, s, "alice")
	s.register(t, "bob")
	bobAddress := s.createAddress(t, "bob")

	tests := []struct {
		name    string
		subject string
		body    interface{}
		status  int
		code    string
	}{
		{"missing payment method", "alice", map[string]interface{}{"shippingAddressId": addressID}, http.StatusBadRequest, errors.ValidationInvalidInput},
		{"client supplied total", "alice", map[string]interface{}{"shippingAddressId": addressID, "paymentMethod": "card", "totalAmount": 1}, http.StatusBadRequest, errors.ValidationInvalidInput},
		{"someone else's address", "alice", map[string]interface{}{"shippingAddressId": bobAddress, "paymentMethod": "card"}, http.StatusBadRequest, errors.OrderInvalidAddress},
		{"empty cart", "bob", map[string]interface{}{"shippingAddressId": bobAddress, "paymentMethod": "card"}, http.StatusBadRequest, errors.CartEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/orders", tt.subject, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}

	// nothing was written for the rejected attempts
	var count int64
	s.db.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderController_InsufficientStock(t *testing.T) {
	s := setupControllerTest(t)
	addressID, p := checkoutReady(t, s, "alice")
	require.NoError(t, s.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("stock_quantity", 2).Error)

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", map[string]interface{}{
		"shippingAddressId": addressID, "paymentMethod": "card",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), errors.InsufficientStock)

	// the cart survives a failed checkout
	w = s.do(http.MethodGet, "/api/v1/cart", "alice", nil)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestOrderController_IdempotencyKey(t *testing.T) {
	s := setupControllerTest(t)
	addressID, _ := checkoutReady(t, s, "alice")

	body := map[string]interface{}{"shippingAddressId": addressID, "paymentMethod": "card"}

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, "checkout-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first orderResponse
	decode(t, w, &first)

	w = s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, "checkout-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var replay orderResponse
	decode(t, w, &replay)
	assert.Equal(t, first.Order.ID, replay.Order.ID)
	assert.Equal(t, "order already created", replay.Message)

	var count int64
	s.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// a fresh key against the now empty cart is a new attempt
	w = s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, "checkout-2")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), errors.CartEmpty)
}

func TestOrderController_IdempotencyKeyLength(t *testing.T) {
	s := setupControllerTest(t)
	addressID, _ := checkoutReady(t, s, "alice")
	body := map[string]interface{}{"shippingAddressId": addressID, "paymentMethod": "card"}

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, strings.Repeat("k", idempotency.MaxKeyLength+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), errors.ValidationInvalidInput)

	longest := strings.Repeat("k", idempotency.MaxKeyLength)
	w = s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, longest)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, longest)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the stored column must hold every key the header check accepts
	orderSchema, err := schema.Parse(&model.Order{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	field := orderSchema.LookUpField("IdempotencyKey")
	require.NotNil(t, field)
	assert.Equal(t, idempotency.MaxKeyLength, field.Size)
}

func TestOrderController_IdempotencyKeyInFlight(t *testing.T) {
	s := setupControllerTest(t)
	addressID, _ := checkoutReady(t, s, "alice")
	user := s.register(t, "alice")

	res, err := s.idem.Reserve(t.Context(), fmt.Sprint(user.ID), "busy")
	require.NoError(t, err)
	require.Equal(t, idempotency.StatusNew, res.Status)

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", map[string]interface{}{
		"shippingAddressId": addressID, "paymentMethod": "card",
	}, idempotency.Header, "busy")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), errors.OrderRequestInProgress)
}

func TestOrderController_FailedAttemptReleasesKey(t *testing.T) {
	s := setupControllerTest(t)
	s.register(t, "alice")
	addressID := s.createAddress(t, "alice")
	p := s.createProduct(t, "Mug", "8.00", 5)

	body := map[string]interface{}{"shippingAddressId": addressID, "paymentMethod": "card"}

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, "retry-me")
	require.Equal(t, http.StatusBadRequest, w.Code)

	s.do(http.MethodPost, "/api/v1/cart/add", "alice", map[string]interface{}{"productId": p.ID, "quantity": 1})

	w = s.do(http.MethodPost, "/api/v1/orders", "alice", body, idempotency.Header, "retry-me")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestOrderController_GetOrders(t *testing.T) {
	s := setupControllerTest(t)
	addressID, _ := checkoutReady(t, s, "alice")
	s.register(t, "bob")

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", map[string]interface{}{
		"shippingAddressId": addressID, "paymentMethod": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created orderResponse
	decode(t, w, &created)

	w = s.do(http.MethodGet, "/api/v1/orders", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	path := fmt.Sprintf("/api/v1/orders/%d", created.Order.ID)
	w = s.do(http.MethodGet, path, "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path, "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), errors.OrderNotFound)
}

func TestOrderController_UpdateStatus(t *testing.T) {
	s := setupControllerTest(t)
	addressID, p := checkoutReady(t, s, "alice")
	s.register(t, "admin")

	w := s.do(http.MethodPost, "/api/v1/orders", "alice", map[string]interface{}{
		"shippingAddressId": addressID, "paymentMethod": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created orderResponse
	decode(t, w, &created)
	path := fmt.Sprintf("/api/v1/orders/%d/status", created.Order.ID)

	w = s.do(http.MethodPut, path, "alice", map[string]interface{}{"orderStatus": "shipped"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, path, "admin", map[string]interface{}{"orderStatus": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, "admin", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, "admin", map[string]interface{}{
		"orderStatus": "shipped", "paymentStatus": "paid", "trackingNumber": "1Z999",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated orderResponse
	decode(t, w, &updated)
	assert.Equal(t, model.OrderStatusShipped, updated.Order.OrderStatus)
	assert.Equal(t, "1Z999", updated.Order.TrackingNumber)
	assert.True(t, updated.Order.TotalAmount.Equal(created.Order.TotalAmount))

	w = s.do(http.MethodPut, path, "admin", map[string]interface{}{"orderStatus": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	var stock model.Product
	require.NoError(t, s.db.First(&stock, p.ID).Error)
	assert.Equal(t, 10, stock.StockQuantity)
}
