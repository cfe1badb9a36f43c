package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type AddToWishlistRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := ctrl.wishlistService.List(userID)
	if err != nil {
		errors.Respond(c, err, "fetch wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wishlist": items,
		"count":    len(items),
	})
}

// POST /api/v1/wishlist
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddToWishlistRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		respondBindError(c, err)
		return
	}

	items, err := ctrl.wishlistService.Add(userID, req.ProductID)
	if err != nil {
		log.Warn("Failed to add to wishlist", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		errors.Respond(c, err, "add wishlist")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "added to wishlist",
		"wishlist": items,
	})
}

// DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	items, err := ctrl.wishlistService.Remove(userID, productID)
	if err != nil {
		errors.Respond(c, err, "remove wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "removed from wishlist",
		"wishlist": items,
	})
}
