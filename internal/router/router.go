package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/metrics"
)

type Router struct {
	userController     *controller.UserController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	wishlistController *controller.WishlistController
	addressController  *controller.AddressController
	authMiddleware     *middleware.AuthMiddleware
	metrics            *metrics.ServerMetrics
	config             *config.Config
}

func NewRouter(
	userController *controller.UserController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	wishlistController *controller.WishlistController,
	addressController *controller.AddressController,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.ServerMetrics,
	cfg *config.Config,
) *Router {
	return &Router{
		userController:     userController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		wishlistController: wishlistController,
		addressController:  addressController,
		authMiddleware:     authMiddleware,
		metrics:            m,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if r.metrics != nil {
		router.Use(r.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "storefront API is running",
		})
	})

	auth := r.authMiddleware

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		// registration only needs a verified token
		v1.POST("/users/me", auth.Authenticate(), r.userController.SyncProfile)

		authed := v1.Group("", auth.Authenticate(), auth.ResolveUser())
		{
			authed.GET("/users/me", r.userController.GetProfile)

			cart := authed.Group("/cart")
			{
				cart.GET("", r.cartController.GetCart)
				cart.POST("/add", r.cartController.AddToCart)
				cart.PUT("/update/:productId", r.cartController.UpdateCartItem)
				cart.DELETE("/remove/:productId", r.cartController.RemoveFromCart)
				cart.DELETE("", r.cartController.ClearCart)
			}

			orders := authed.Group("/orders")
			{
				orders.POST("", r.orderController.CreateOrder)
				orders.GET("", r.orderController.GetOrders)
				orders.GET("/:id", r.orderController.GetOrderByID)
				orders.PUT("/:id/status", auth.RequireRole(model.RoleAdmin), r.orderController.UpdateOrderStatus)
			}

			addresses := authed.Group("/addresses")
			{
				addresses.GET("", r.addressController.ListAddresses)
				addresses.POST("", r.addressController.AddAddress)
				addresses.PUT("/:id", r.addressController.UpdateAddress)
				addresses.DELETE("/:id", r.addressController.DeleteAddress)
				addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
			}

			wishlist := authed.Group("/wishlist")
			{
				wishlist.GET("", r.wishlistController.GetWishlist)
				wishlist.POST("", r.wishlistController.AddToWishlist)
				wishlist.DELETE("/:productId", r.wishlistController.RemoveFromWishlist)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Idempotency-Key, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
