package inventory

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	pkglogger "github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inventory_test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.InventoryAdjustment{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	logg := pkglogger.New(pkglogger.Options{ServiceName: "inventory-test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), logg, config.PricingConfig{
		GSTRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(1499),
		ShippingFlatRate:      decimal.NewFromInt(99),
		CostMarginFallback:    decimal.RequireFromString("0.6"),
		TurnoverRate:          2.5,
	}, config.InventoryConfig{LowStockThreshold: 5})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, price string, cost *string, qty int, categoryID *uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:        categoryID,
		Name:              name,
		Slug:              fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		SKU:               fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Price:             decimal.RequireFromString(price),
		InventoryQuantity: qty,
		TrackInventory:    true,
		IsActive:          true,
	}
	if cost != nil {
		c := decimal.RequireFromString(*cost)
		product.CostPrice = &c
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestBuildOverview(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	// cost 100 * 10 units
	seedProduct(t, conn, "pot", "200", strPtr("100"), 10, nil)
	// no cost: 500 * 0.6 = 300, * 3 units, low stock at threshold 5
	seedProduct(t, conn, "vase", "500", nil, 3, nil)
	// out of stock
	seedProduct(t, conn, "diya", "60", nil, 0, nil)

	// inactive products stay out of the report
	hidden := seedProduct(t, conn, "hidden", "999", nil, 50, nil)
	if err := conn.Model(hidden).Update("is_active", false).Error; err != nil {
		t.Fatalf("hide product: %v", err)
	}

	metrics, err := svc.BuildOverview(ctx, 0)
	if err != nil {
		t.Fatalf("build overview: %v", err)
	}

	if metrics.TotalProducts != 3 {
		t.Fatalf("expected 3 products, got %d", metrics.TotalProducts)
	}
	if metrics.LowStockItems != 1 {
		t.Fatalf("expected 1 low stock, got %d", metrics.LowStockItems)
	}
	if metrics.OutOfStockItems != 1 {
		t.Fatalf("expected 1 out of stock, got %d", metrics.OutOfStockItems)
	}
	if metrics.StockHealth.Healthy != 1 {
		t.Fatalf("expected 1 healthy, got %d", metrics.StockHealth.Healthy)
	}
	// 100*10 + 300*3 + 0
	if !metrics.TotalInventoryValue.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("expected inventory value 1900, got %s", metrics.TotalInventoryValue)
	}
	if metrics.TurnoverRate != 2.5 {
		t.Fatalf("expected turnover rate constant 2.5, got %f", metrics.TurnoverRate)
	}
}

func TestBuildOverviewCustomThreshold(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	seedProduct(t, conn, "pot", "100", strPtr("50"), 8, nil)

	metrics, err := svc.BuildOverview(ctx, 10)
	if err != nil {
		t.Fatalf("build overview: %v", err)
	}
	if metrics.LowStockItems != 1 {
		t.Fatalf("expected low stock with threshold 10, got %d", metrics.LowStockItems)
	}
}

func TestBuildValuation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	category := &models.Category{Name: "Kitchenware", Slug: "kitchenware", IsActive: true}
	if err := conn.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	seedProduct(t, conn, "kulhad", "120", strPtr("60"), 10, &category.ID)  // 600
	seedProduct(t, conn, "plate", "300", strPtr("150"), 2, &category.ID)   // 300
	seedProduct(t, conn, "stray", "100", strPtr("40"), 5, nil)             // 200, uncategorized

	report, err := svc.BuildValuation(ctx)
	if err != nil {
		t.Fatalf("build valuation: %v", err)
	}

	if !report.TotalValuation.Equal(decimal.NewFromInt(1100)) {
		t.Fatalf("expected total valuation 1100, got %s", report.TotalValuation)
	}
	if len(report.CategoryBreakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(report.CategoryBreakdown))
	}

	byName := map[string]CategoryValuation{}
	for _, row := range report.CategoryBreakdown {
		byName[row.Category] = row
	}
	kitchen := byName["Kitchenware"]
	if kitchen.Products != 2 || kitchen.Quantity != 12 || !kitchen.Value.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("unexpected kitchenware rollup: %+v", kitchen)
	}
	misc := byName["Uncategorized"]
	if misc.Products != 1 || !misc.Value.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected uncategorized rollup: %+v", misc)
	}
}

func TestAdjustStockRelative(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, conn, "pot", "200", nil, 10, nil)

	result, err := svc.AdjustStock(ctx, product.ID, AdjustStockInput{
		Adjustment: intPtr(-5),
		Reason:     enums.AdjustmentReasonSale,
	})
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if result.PreviousQuantity != 10 || result.NewQuantity != 5 {
		t.Fatalf("expected 10 -> 5, got %+v", result)
	}

	var reloaded models.Product
	if err := conn.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.InventoryQuantity != 5 {
		t.Fatalf("expected persisted quantity 5, got %d", reloaded.InventoryQuantity)
	}

	audits, err := svc.ListAdjustments(ctx, product.ID, 10)
	if err != nil {
		t.Fatalf("list adjustments: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audits))
	}
	if audits[0].AdjustmentAmount != -5 || audits[0].Reason != enums.AdjustmentReasonSale {
		t.Fatalf("unexpected audit row: %+v", audits[0])
	}
}

func TestAdjustStockAbsolute(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := seedProduct(t, conn, "pot", "200", nil, 10, nil)

	result, err := svc.AdjustStock(ctx, product.ID, AdjustStockInput{
		NewQuantity: intPtr(25),
		Reason:      enums.AdjustmentReasonRestock,
		Notes:       strPtr("monsoon batch"),
	})
	if err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if result.NewQuantity != 25 {
		t.Fatalf("expected new quantity 25, got %d", result.NewQuantity)
	}
}

func TestAdjustStockErrors(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	tracked := seedProduct(t, conn, "pot", "200", nil, 10, nil)
	loose := seedProduct(t, conn, "made-to-order", "900", nil, 0, nil)
	if err := conn.Model(loose).Update("track_inventory", false).Error; err != nil {
		t.Fatalf("untrack product: %v", err)
	}

	cases := []struct {
		name      string
		productID uuid.UUID
		input     AdjustStockInput
		code      pkgerrors.Code
	}{
		{
			name:      "neither field",
			productID: tracked.ID,
			input:     AdjustStockInput{Reason: enums.AdjustmentReasonManual},
			code:      pkgerrors.CodeValidation,
		},
		{
			name:      "both fields",
			productID: tracked.ID,
			input:     AdjustStockInput{Adjustment: intPtr(1), NewQuantity: intPtr(2), Reason: enums.AdjustmentReasonManual},
			code:      pkgerrors.CodeValidation,
		},
		{
			name:      "bad reason",
			productID: tracked.ID,
			input:     AdjustStockInput{Adjustment: intPtr(1), Reason: "whim"},
			code:      pkgerrors.CodeValidation,
		},
		{
			name:      "unknown product",
			productID: uuid.New(),
			input:     AdjustStockInput{Adjustment: intPtr(1), Reason: enums.AdjustmentReasonManual},
			code:      pkgerrors.CodeNotFound,
		},
		{
			name:      "untracked product",
			productID: loose.ID,
			input:     AdjustStockInput{Adjustment: intPtr(1), Reason: enums.AdjustmentReasonManual},
			code:      pkgerrors.CodeNotTracked,
		},
		{
			name:      "negative result",
			productID: tracked.ID,
			input:     AdjustStockInput{Adjustment: intPtr(-20), Reason: enums.AdjustmentReasonDamage},
			code:      pkgerrors.CodeNegativeInventory,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AdjustStock(ctx, tc.productID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}

	// the rejected negative adjustment must not touch stored stock
	var reloaded models.Product
	if err := conn.First(&reloaded, "id = ?", tracked.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.InventoryQuantity != 10 {
		t.Fatalf("expected stock unchanged at 10, got %d", reloaded.InventoryQuantity)
	}
}
