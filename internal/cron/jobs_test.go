package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

type fakeCartPruner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeCartPruner) DeleteUntouchedSince(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestStaleCartJob(t *testing.T) {
	pruner := &fakeCartPruner{deleted: 4}
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger:     testLogger(),
		Repository: pruner,
		MaxAge:     48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "stale-cart-prune" {
		t.Fatalf("unexpected job name %q", job.Name())
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	wantCutoff := time.Now().UTC().Add(-48 * time.Hour)
	if diff := pruner.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("cutoff drifted: %v", pruner.cutoff)
	}

	pruner.err = errors.New("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected the repository error to surface")
	}
}

type fakeLowStockLister struct {
	products []models.Product
	err      error
	seen     int
}

func (f *fakeLowStockLister) ListLowStockProducts(_ context.Context, threshold int) ([]models.Product, error) {
	f.seen = threshold
	return f.products, f.err
}

type fakeSink struct {
	mu       sync.Mutex
	recent   map[uuid.UUID]bool
	recorded []string
	failFor  map[uuid.UUID]bool
}

func (f *fakeSink) Record(_ context.Context, _ enums.NotificationType, title, _ string, refID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if refID != nil && f.failFor[*refID] {
		return errors.New("sink down")
	}
	f.recorded = append(f.recorded, title)
	return nil
}

func (f *fakeSink) HasRecentOfType(_ context.Context, _ enums.NotificationType, refID uuid.UUID, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recent[refID], nil
}

func lowStockProduct(name, sku string, qty int) models.Product {
	return models.Product{
		ID:                uuid.New(),
		Name:              name,
		Slug:              sku,
		SKU:               sku,
		Price:             decimal.NewFromInt(100),
		InventoryQuantity: qty,
		TrackInventory:    true,
		IsActive:          true,
	}
}

func TestLowStockJobRecordsAndDedupes(t *testing.T) {
	low := lowStockProduct("Terracotta diya", "DIYA-1", 2)
	out := lowStockProduct("Clay kulhad", "KUL-1", 0)
	seen := lowStockProduct("Glazed vase", "VASE-1", 1)

	lister := &fakeLowStockLister{products: []models.Product{low, out, seen}}
	sink := &fakeSink{recent: map[uuid.UUID]bool{seen.ID: true}}

	job, err := NewLowStockJob(LowStockJobParams{
		Logger:        testLogger(),
		Inventory:     lister,
		Notifications: sink,
		Threshold:     5,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "low-stock-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lister.seen != 5 {
		t.Fatalf("expected threshold 5 to be passed through, got %d", lister.seen)
	}
	if len(sink.recorded) != 2 {
		t.Fatalf("expected 2 notifications (one deduped), got %d: %v", len(sink.recorded), sink.recorded)
	}
	// Zero quantity gets the stronger title.
	var sawOutOfStock bool
	for _, title := range sink.recorded {
		if title == "Out of stock" {
			sawOutOfStock = true
		}
	}
	if !sawOutOfStock {
		t.Fatalf("expected an out-of-stock notification, got %v", sink.recorded)
	}
}

func TestLowStockJobContinuesPastFailures(t *testing.T) {
	broken := lowStockProduct("Broken pot", "POT-1", 1)
	fine := lowStockProduct("Fine pot", "POT-2", 2)

	lister := &fakeLowStockLister{products: []models.Product{broken, fine}}
	sink := &fakeSink{failFor: map[uuid.UUID]bool{broken.ID: true}}

	job, err := NewLowStockJob(LowStockJobParams{
		Logger:        testLogger(),
		Inventory:     lister,
		Notifications: sink,
		Threshold:     5,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	err = job.Run(context.Background())
	if err == nil {
		t.Fatalf("expected the per-product failure to be reported")
	}
	if len(sink.recorded) != 1 {
		t.Fatalf("the sweep must keep going past failures, recorded %d", len(sink.recorded))
	}
}

func TestLowStockJobValidation(t *testing.T) {
	lister := &fakeLowStockLister{}
	sink := &fakeSink{}

	if _, err := NewLowStockJob(LowStockJobParams{Logger: testLogger(), Inventory: lister, Notifications: sink}); err == nil {
		t.Fatalf("expected error for zero threshold")
	}
	if _, err := NewLowStockJob(LowStockJobParams{Logger: testLogger(), Notifications: sink, Threshold: 5}); err == nil {
		t.Fatalf("expected error without inventory repository")
	}
}
