package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mritika-studio/storefront-backend/internal/cart"
	"github.com/mritika-studio/storefront-backend/internal/cron"
	"github.com/mritika-studio/storefront-backend/internal/inventory"
	"github.com/mritika-studio/storefront-backend/internal/notifications"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/metrics"
	"github.com/mritika-studio/storefront-backend/pkg/migrate"
	"github.com/mritika-studio/storefront-backend/pkg/redis"
)

const lockKeyFormat = "mritika:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	conn := dbClient.DB()
	cartRepo := cart.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)

	notificationService, err := notifications.NewService(notifications.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	staleCarts, err := cron.NewStaleCartJob(cron.StaleCartJobParams{
		Logger:     logg,
		Repository: cartRepo,
		MaxAge:     cfg.Cron.StaleCartAge,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stale cart job", err)
		os.Exit(1)
	}

	lowStock, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:        logg,
		Inventory:     inventoryRepo,
		Notifications: notificationService,
		Threshold:     cfg.Inventory.LowStockThreshold,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create low stock job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(staleCarts, lowStock),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.SweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	if addr := cfg.Cron.MetricsListenAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logg.Error(ctx, "cron metrics listener stopped", err)
			}
		}()
	}

	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
