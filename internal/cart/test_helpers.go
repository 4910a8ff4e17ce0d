package cart

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cart_test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
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

type productOpt func(*models.Product)

func withPrice(value string) productOpt {
	return func(p *models.Product) { p.Price = decimal.RequireFromString(value) }
}

func withStock(qty int) productOpt {
	return func(p *models.Product) { p.InventoryQuantity = qty }
}

func untracked() productOpt {
	return func(p *models.Product) { p.TrackInventory = false }
}

func inactive() productOpt {
	return func(p *models.Product) { p.IsActive = false }
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, opts ...productOpt) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:              "Terracotta Planter",
		Slug:              fmt.Sprintf("terracotta-planter-%s", uuid.NewString()[:8]),
		SKU:               fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Price:             decimal.NewFromInt(600),
		InventoryQuantity: 10,
		TrackInventory:    true,
		IsActive:          true,
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateVariant(t *testing.T, tx *gorm.DB, productID uuid.UUID, price *decimal.Decimal, stock int) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID:         productID,
		Name:              "Large",
		SKU:               fmt.Sprintf("SKU-VAR-%s", uuid.NewString()[:8]),
		Price:             price,
		InventoryQuantity: stock,
		IsActive:          true,
	}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return variant
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
