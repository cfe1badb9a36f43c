package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addressListResponse struct {
	Addresses []model.ShippingAddress `json:"addresses"`
	Count     int                     `json:"count"`
}

func TestAddressController_CRUD(t *testing.T) {
	s := setupControllerTest(t)
	s.register(t, "alice")

	first := s.createAddress(t, "alice")
	second := s.createAddress(t, "alice")

	w := s.do(http.MethodGet, "/api/v1/addresses", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list addressListResponse
	decode(t, w, &list)
	require.Equal(t, 2, list.Count)
	assert.True(t, list.Addresses[0].IsDefault)
	assert.False(t, list.Addresses[1].IsDefault)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/addresses/%d", second), "alice", map[string]interface{}{
		"city": "Shelbyville",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"city":"Shelbyville"`)
	assert.Contains(t, w.Body.String(), `"street":"1 Main St"`)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/addresses/%d/default", second), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/addresses", "alice", nil)
	decode(t, w, &list)
	for _, a := range list.Addresses {
		assert.Equal(t, a.ID == second, a.IsDefault)
	}

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%d", first), "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%d", first), "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), errors.AddressNotFound)
}

func TestAddressController_Validation(t *testing.T) {
	s := setupControllerTest(t)
	s.register(t, "alice")
	s.register(t, "bob")
	bobAddress := s.createAddress(t, "bob")

	w := s.do(http.MethodPost, "/api/v1/addresses", "alice", map[string]interface{}{
		"street": "1 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"city":"required"`)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/addresses/%d", bobAddress), "alice", map[string]interface{}{
		"city": "Elsewhere",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/addresses/%d", bobAddress), "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
