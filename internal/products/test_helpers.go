package products

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog_test.db")
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
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestCategory(t *testing.T, tx *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:     name,
		Slug:     fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		IsActive: true,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID *uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:        categoryID,
		Name:              "Terracotta Planter",
		Slug:              fmt.Sprintf("terracotta-planter-%s", uuid.NewString()[:8]),
		SKU:               fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Price:             decimal.NewFromInt(600),
		InventoryQuantity: 10,
		TrackInventory:    true,
		IsActive:          true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestVariant(t *testing.T, tx *gorm.DB, productID uuid.UUID, price *decimal.Decimal) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ProductID:         productID,
		Name:              "Large",
		SKU:               fmt.Sprintf("SKU-VAR-%s", uuid.NewString()[:8]),
		Price:             price,
		InventoryQuantity: 5,
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
