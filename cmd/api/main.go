package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mritika-studio/storefront-backend/api/routes"
	"github.com/mritika-studio/storefront-backend/internal/auth"
	"github.com/mritika-studio/storefront-backend/internal/cart"
	"github.com/mritika-studio/storefront-backend/internal/inquiries"
	"github.com/mritika-studio/storefront-backend/internal/inventory"
	"github.com/mritika-studio/storefront-backend/internal/notifications"
	"github.com/mritika-studio/storefront-backend/internal/orders"
	"github.com/mritika-studio/storefront-backend/internal/products"
	"github.com/mritika-studio/storefront-backend/internal/users"
	"github.com/mritika-studio/storefront-backend/pkg/auth/session"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/metrics"
	"github.com/mritika-studio/storefront-backend/pkg/migrate"
	"github.com/mritika-studio/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	notificationRepo := notifications.NewRepository(conn)
	inquiryRepo := inquiries.NewRepository(conn)

	authService, err := auth.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo, cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, cartRepo, cartService, dbClient, notificationService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventoryRepo, logg, cfg.Pricing, cfg.Inventory)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	inquiryService, err := inquiries.NewService(inquiryRepo, nil, notificationService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inquiry service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			Metrics:       httpMetrics,
			Auth:          authService,
			Cart:          cartService,
			Products:      productService,
			Orders:        orderService,
			Users:         userService,
			Inventory:     inventoryService,
			Notifications: notificationService,
			Inquiries:     inquiryService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
