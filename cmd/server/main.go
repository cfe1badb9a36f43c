package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/idempotency"
	"github.com/ikkim/storefront-backend/internal/identity"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/router"
	"github.com/ikkim/storefront-backend/internal/scheduler"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/ikkim/storefront-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting storefront backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	verifier, err := identity.NewJWTVerifier(cfg.Identity)
	if err != nil {
		logger.Fatal("Failed to configure identity verifier", err)
	}

	var idemStore idempotency.Store
	redisClient, err := redis.Init(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	if redisClient != nil {
		idemStore = idempotency.NewRedisStore(redisClient, cfg.Redis.IdempotencyTTL)
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	} else {
		idemStore = idempotency.NewMemoryStore()
	}

	serverMetrics := metrics.NewServerMetrics("api")

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	cartRepo := repository.NewCartRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	addressRepo := repository.NewAddressRepository(conn)
	wishlistRepo := repository.NewWishlistRepository(conn)

	// Initialize services
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo, addressRepo, conn)
	addressService := service.NewAddressService(addressRepo, conn)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)

	r := router.NewRouter(
		controller.NewUserController(userService),
		controller.NewProductController(productService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService, idemStore, serverMetrics),
		controller.NewWishlistController(wishlistService),
		controller.NewAddressController(addressService),
		middleware.NewAuthMiddleware(verifier, userService),
		serverMetrics,
		cfg,
	)

	var expiry *scheduler.OrderExpiryScheduler
	if cfg.Scheduler.Enabled {
		expiry = scheduler.NewOrderExpiryScheduler(orderService, serverMetrics, cfg.Scheduler.OrderExpirySpec, cfg.Scheduler.PaymentTTL)
		if err := expiry.Start(); err != nil {
			logger.Fatal("Failed to start order expiry scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	if expiry != nil {
		expiry.Stop(ctx)
	}

	logger.Info("Server stopped successfully")
}
