package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddAddressRequest struct {
	Label     string `json:"label" binding:"max=100"`
	FullName  string `json:"fullName" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=30"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"required,max=100"`
	ZipCode   string `json:"zipCode" binding:"required,max=20"`
	Country   string `json:"country" binding:"required,max=100"`
	IsDefault bool   `json:"isDefault"`
}

type UpdateAddressRequest struct {
	Label     *string `json:"label" binding:"omitempty,max=100"`
	FullName  *string `json:"fullName" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Street    *string `json:"street" binding:"omitempty,min=1"`
	City      *string `json:"city" binding:"omitempty,min=1,max=100"`
	State     *string `json:"state" binding:"omitempty,min=1,max=100"`
	ZipCode   *string `json:"zipCode" binding:"omitempty,min=1,max=20"`
	Country   *string `json:"country" binding:"omitempty,min=1,max=100"`
	IsDefault *bool   `json:"isDefault"`
}

// GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.List(userID)
	if err != nil {
		errors.Respond(c, err, "fetch addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// POST /api/v1/addresses
func (ctrl *AddressController) AddAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddAddressRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		log.Warn("Invalid add address request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondBindError(c, err)
		return
	}

	address, err := ctrl.addressService.Add(userID, service.AddressInput{
		Label:     req.Label,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		errors.Respond(c, err, "add address")
		return
	}

	log.Info("Address added", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "address added",
		"address": address,
	})
}

// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		respondBindError(c, err)
		return
	}

	address, err := ctrl.addressService.Update(userID, addressID, service.AddressUpdate{
		Label:     req.Label,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		log.Warn("Failed to update address", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"error":      err.Error(),
		})
		errors.Respond(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "address updated",
		"address": address,
	})
}

// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.addressService.Delete(userID, addressID); err != nil {
		errors.Respond(c, err, "delete address")
		return
	}

	log.Info("Address deleted", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "address deleted",
	})
}

// PUT /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	address, err := ctrl.addressService.SetDefault(userID, addressID)
	if err != nil {
		errors.Respond(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "default address updated",
		"address": address,
	})
}
