package orders

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orders.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		GSTRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(1499),
		ShippingFlatRate:      decimal.NewFromInt(99),
		CostMarginFallback:    decimal.RequireFromString("0.6"),
		TurnoverRate:          2.5,
	}
}

func testShipping() ShippingInput {
	return ShippingInput{
		Name:        "Asha Kulkarni",
		Phone:       "+91 98200 12345",
		AddressLine: "14 Pottery Lane",
		City:        "Pune",
		State:       "Maharashtra",
		PostalCode:  "411001",
	}
}

type seededProduct struct {
	price   decimal.Decimal
	stock   int
	tracked bool
}

func mustSeedProduct(t *testing.T, conn *gorm.DB, name string, seed seededProduct) *models.Product {
	t.Helper()

	suffix := uuid.NewString()[:8]
	product := &models.Product{
		Name:              name,
		Slug:              "p-" + suffix,
		SKU:               "SKU-" + suffix,
		Price:             seed.price,
		InventoryQuantity: seed.stock,
		TrackInventory:    seed.tracked,
		IsActive:          true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func mustSeedVariant(t *testing.T, conn *gorm.DB, productID uuid.UUID, name string, price *decimal.Decimal, stock int) *models.ProductVariant {
	t.Helper()

	variant := &models.ProductVariant{
		ProductID:         productID,
		Name:              name,
		SKU:               "VSKU-" + uuid.NewString()[:8],
		Price:             price,
		InventoryQuantity: stock,
		IsActive:          true,
	}
	if err := conn.Create(variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant
}

func mustSeedCartItem(t *testing.T, conn *gorm.DB, userID, productID uuid.UUID, variantID *uuid.UUID, qty int) {
	t.Helper()

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  qty,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
}

func mustSetOrderCreatedAt(t *testing.T, conn *gorm.DB, orderID uuid.UUID, at time.Time) {
	t.Helper()

	err := conn.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("created_at", at).Error
	if err != nil {
		t.Fatalf("set order created_at: %v", err)
	}
}

type recordedNotification struct {
	Type        enums.NotificationType
	Title       string
	Message     string
	ReferenceID *uuid.UUID
}

// stubNotifier records notifications in memory; fail makes every call error
// to exercise the best-effort path.
type stubNotifier struct {
	mu       sync.Mutex
	recorded []recordedNotification
	fail     bool
}

func (s *stubNotifier) Record(_ context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.recorded = append(s.recorded, recordedNotification{
		Type:        notificationType,
		Title:       title,
		Message:     message,
		ReferenceID: referenceID,
	})
	return nil
}

func (s *stubNotifier) all() []recordedNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordedNotification, len(s.recorded))
	copy(out, s.recorded)
	return out
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
