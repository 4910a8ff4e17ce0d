package models

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openModelDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "models_test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return conn
}

// The full model set must migrate on sqlite so package test suites can use
// file-backed databases. Postgres-only column defaults do not belong in the
// gorm tags; the goose migrations carry those.
func TestAutoMigrateAllModels(t *testing.T) {
	conn := openModelDB(t)
	if err := conn.AutoMigrate(
		&User{},
		&Category{},
		&Product{},
		&ProductVariant{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&InventoryAdjustment{},
		&Notification{},
		&Inquiry{},
	); err != nil {
		t.Fatalf("migrate models: %v", err)
	}
}

func TestBeforeCreateAssignsID(t *testing.T) {
	conn := openModelDB(t)
	if err := conn.AutoMigrate(&Product{}); err != nil {
		t.Fatalf("migrate models: %v", err)
	}

	product := &Product{
		Name:           "Terracotta Kulhad",
		Slug:           "terracotta-kulhad",
		SKU:            "SKU-KULHAD-01",
		Price:          decimal.NewFromInt(120),
		TrackInventory: true,
		IsActive:       true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("expected hook to assign an id")
	}

	var got Product
	if err := conn.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.Slug != product.Slug {
		t.Fatalf("expected slug %q got %q", product.Slug, got.Slug)
	}
}

func TestProductTagsRoundTrip(t *testing.T) {
	conn := openModelDB(t)
	if err := conn.AutoMigrate(&Product{}); err != nil {
		t.Fatalf("migrate models: %v", err)
	}

	tags := pq.StringArray{"handmade", "terracotta", "garden"}
	product := &Product{
		Name:           "Terracotta Planter",
		Slug:           "terracotta-planter",
		SKU:            "SKU-PLANTER-01",
		Price:          decimal.NewFromInt(600),
		Tags:           tags,
		TrackInventory: true,
		IsActive:       true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	var got Product
	if err := conn.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if !reflect.DeepEqual(got.Tags, tags) {
		t.Fatalf("expected tags %v got %v", tags, got.Tags)
	}
}
