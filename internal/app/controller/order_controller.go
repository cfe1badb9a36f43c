package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/idempotency"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/metrics"
)

type OrderController struct {
	orderService service.OrderService
	idemStore    idempotency.Store
	metrics      *metrics.ServerMetrics
}

// NewOrderController wires checkout. idemStore and m may be nil; without a
// store a repeated Idempotency-Key is still answered from the orders table.
func NewOrderController(orderService service.OrderService, idemStore idempotency.Store, m *metrics.ServerMetrics) *OrderController {
	return &OrderController{
		orderService: orderService,
		idemStore:    idemStore,
		metrics:      m,
	}
}

type CreateOrderRequest struct {
	ShippingAddressID uint   `json:"shippingAddressId" binding:"required"`
	PaymentMethod     string `json:"paymentMethod" binding:"required,max=50"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus    *model.OrderStatus   `json:"orderStatus" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus  *model.PaymentStatus `json:"paymentStatus" binding:"omitempty,oneof=pending paid failed refunded"`
	TrackingNumber *string              `json:"trackingNumber" binding:"omitempty,max=100"`
}

// CreateOrder checks the cart out into an order
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	key := idempotency.Key(c.Request)
	if len(key) > idempotency.MaxKeyLength {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Idempotency-Key is too long")
		return
	}

	var req CreateOrderRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondBindError(c, err)
		return
	}

	if key != "" {
		if ctrl.replayOrder(c, userID, key) {
			return
		}

		if ctrl.idemStore != nil {
			scope := strconv.FormatUint(uint64(userID), 10)
			res, err := ctrl.idemStore.Reserve(c.Request.Context(), scope, key)
			if err != nil {
				log.Error("Idempotency store unavailable", err, map[string]interface{}{
					"user_id": userID,
				})
				ctrl.metrics.ObserveCheckout("failed")
				errors.Respond(c, err, "create order")
				return
			}

			switch res.Status {
			case idempotency.StatusInFlight:
				log.Warn("Checkout already in progress for key", map[string]interface{}{
					"user_id": userID,
				})
				ctrl.metrics.ObserveCheckout("rejected")
				errors.Respond(c, service.ErrOrderInProgress, "create order")
				return
			case idempotency.StatusCompleted:
				if ctrl.replayOrder(c, userID, key) {
					return
				}
				// stale entry with no order behind it; treat the key as new
			}

			completed := false
			defer func() {
				if !completed {
					if err := ctrl.idemStore.Release(c.Request.Context(), scope, key); err != nil {
						log.Error("Failed to release idempotency key", err, nil)
					}
				}
			}()

			order, ok := ctrl.createOrder(c, userID, key, req)
			if !ok {
				return
			}
			if err := ctrl.idemStore.Complete(c.Request.Context(), scope, key, order.ID); err != nil {
				log.Error("Failed to record idempotency key", err, map[string]interface{}{
					"order_id": order.ID,
				})
			} else {
				completed = true
			}
			return
		}
	}

	ctrl.createOrder(c, userID, key, req)
}

func (ctrl *OrderController) createOrder(c *gin.Context, userID uint, key string, req CreateOrderRequest) (*model.Order, bool) {
	log := middleware.GetLoggerFromContext(c)

	order, err := ctrl.orderService.CreateOrder(userID, service.CreateOrderInput{
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
		IdempotencyKey:    key,
	})
	if err != nil {
		kind := errors.KindOf(err)
		if kind == errors.KindInternal {
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			ctrl.metrics.ObserveCheckout("failed")
		} else {
			log.Warn("Order rejected", map[string]interface{}{
				"user_id": userID,
				"reason":  err.Error(),
			})
			ctrl.metrics.ObserveCheckout("rejected")
		}
		errors.Respond(c, err, "create order")
		return nil, false
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount.StringFixed(2),
	})
	ctrl.metrics.ObserveCheckout("created")

	c.JSON(http.StatusCreated, gin.H{
		"message": "order created",
		"order":   order,
	})
	return order, true
}

// replayOrder answers with the order already created for key, if any.
func (ctrl *OrderController) replayOrder(c *gin.Context, userID uint, key string) bool {
	order, err := ctrl.orderService.FindByIdempotencyKey(userID, key)
	if err != nil {
		if !errors.Is(err, service.ErrOrderNotFound) {
			middleware.GetLoggerFromContext(c).Error("Failed to look up idempotency key", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return false
	}

	middleware.GetLoggerFromContext(c).Info("Order replayed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})
	ctrl.metrics.ObserveCheckout("replayed")

	c.JSON(http.StatusOK, gin.H{
		"message": "order already created",
		"order":   order,
	})
	return true
}

// GetOrders lists the caller's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		errors.Respond(c, err, "fetch orders")
		return
	}

	log.Info("Orders fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		errors.Respond(c, err, "fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus is the fulfillment endpoint, admin only
// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := bindStrictJSON(c, &req, false); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.orderService.UpdateStatus(orderID, service.StatusUpdate{
		OrderStatus:    req.OrderStatus,
		PaymentStatus:  req.PaymentStatus,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		log.Warn("Failed to update order status", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		errors.Respond(c, err, "update order")
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("Order status updated", map[string]interface{}{
		"order_id":       orderID,
		"admin_id":       adminID,
		"order_status":   order.OrderStatus,
		"payment_status": order.PaymentStatus,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "order status updated",
		"order":   order,
	})
}
