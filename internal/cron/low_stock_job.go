package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
)

const defaultDedupeWindow = 24 * time.Hour

// lowStockLister returns active tracked products at or below the threshold.
type lowStockLister interface {
	ListLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error)
}

// notificationSink records notifications and answers dedupe queries.
type notificationSink interface {
	Record(ctx context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error
	HasRecentOfType(ctx context.Context, notificationType enums.NotificationType, refID uuid.UUID, since time.Time) (bool, error)
}

type LowStockJobParams struct {
	Logger        *logger.Logger
	Inventory     lowStockLister
	Notifications notificationSink
	Threshold     int
	DedupeWindow  time.Duration
}

func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	if params.Threshold <= 0 {
		return nil, fmt.Errorf("threshold must be positive")
	}
	window := params.DedupeWindow
	if window <= 0 {
		window = defaultDedupeWindow
	}
	return &lowStockJob{
		logg:      params.Logger,
		inventory: params.Inventory,
		sink:      params.Notifications,
		threshold: params.Threshold,
		window:    window,
		now:       time.Now,
	}, nil
}

type lowStockJob struct {
	logg      *logger.Logger
	inventory lowStockLister
	sink      notificationSink
	threshold int
	window    time.Duration
	now       func() time.Time
}

func (j *lowStockJob) Name() string { return "low-stock-sweep" }

// Run walks every product at or below the threshold and records one
// notification per product per dedupe window. A failure on one product does
// not stop the sweep.
func (j *lowStockJob) Run(ctx context.Context) error {
	products, err := j.inventory.ListLowStockProducts(ctx, j.threshold)
	if err != nil {
		return fmt.Errorf("list low stock products: %w", err)
	}

	cutoff := j.now().UTC().Add(-j.window)
	var notified int
	var errs []error
	for i := range products {
		product := &products[i]
		recent, err := j.sink.HasRecentOfType(ctx, enums.NotificationTypeLowStock, product.ID, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("dedupe check %s: %w", product.SKU, err))
			continue
		}
		if recent {
			continue
		}

		productID := product.ID
		title := "Low stock"
		message := fmt.Sprintf("%s (%s) is down to %d units", product.Name, product.SKU, product.InventoryQuantity)
		if product.InventoryQuantity == 0 {
			title = "Out of stock"
			message = fmt.Sprintf("%s (%s) is out of stock", product.Name, product.SKU)
		}
		if err := j.sink.Record(ctx, enums.NotificationTypeLowStock, title, message, &productID); err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", product.SKU, err))
			continue
		}
		notified++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"threshold":  j.threshold,
		"candidates": len(products),
		"notified":   notified,
	})
	j.logg.Info(logCtx, "low stock sweep complete")
	return multierr.Combine(errs...)
}
