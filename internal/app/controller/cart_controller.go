package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID     uint          `json:"productId" binding:"required"`
	Quantity      int           `json:"quantity" binding:"required,gte=1,lte=999"`
	SelectedSize  string        `json:"selectedSize" binding:"max=20"`
	SelectedColor *ColorRequest `json:"selectedColor"`
}

type UpdateCartRequest struct {
	Quantity      *int          `json:"quantity" binding:"required,gte=0,lte=999"`
	SelectedSize  string        `json:"selectedSize" binding:"max=20"`
	SelectedColor *ColorRequest `json:"selectedColor"`
}

type RemoveFromCartRequest struct {
	SelectedSize  string        `json:"selectedSize" binding:"max=20"`
	SelectedColor *ColorRequest `json:"selectedColor"`
}

// cartView is the GET /cart body.
type cartView struct {
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total string           `json:"total"`
}

func newCartView(cart *model.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return cartView{Items: items, Count: len(items), Total: cart.Total().StringFixed(2)}
}

// GetCart returns user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"message": "cart is empty",
				"items":   []model.CartItem{},
			})
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Respond(c, err, "fetch cart")
		return
	}

	view := newCartView(cart)
	log.Info("Cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   view.Count,
		"total":   view.Total,
	})

	c.JSON(http.StatusOK, view)
}

// AddToCart adds a line or merges into the matching one
// POST /api/v1/cart/add
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.cartService.AddItem(userID, service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		LineSelector: service.LineSelector{
			Size:  req.SelectedSize,
			Color: req.SelectedColor.toModel(),
		},
	})
	if err != nil {
		log.Warn("Failed to add item to cart", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		errors.Respond(c, err, "add cart item")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "item added to cart",
		"cart":    cart,
	})
}

// UpdateCartItem overwrites a line's quantity, zero removes it
// PUT /api/v1/cart/update/:productId
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.cartService.UpdateQuantity(userID, productID, *req.Quantity, service.LineSelector{
		Size:  req.SelectedSize,
		Color: req.SelectedColor.toModel(),
	})
	if err != nil {
		log.Warn("Failed to update cart item", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		errors.Respond(c, err, "update cart item")
		return
	}

	message := "cart item updated"
	if *req.Quantity == 0 {
		message = "cart item removed"
	}

	log.Info("Cart item updated", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   *req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"cart":    cart,
	})
}

// RemoveFromCart deletes one line
// DELETE /api/v1/cart/remove/:productId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	var req RemoveFromCartRequest
	if err := bindStrictJSON(c, &req, true); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, productID, service.LineSelector{
		Size:  req.SelectedSize,
		Color: req.SelectedColor.toModel(),
	})
	if err != nil {
		log.Warn("Failed to remove cart item", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		errors.Respond(c, err, "remove cart item")
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "item removed from cart",
		"cart":    cart,
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil && !errors.Is(err, service.ErrCartNotFound) {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.Respond(c, err, "clear cart")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "cart cleared",
	})
}
