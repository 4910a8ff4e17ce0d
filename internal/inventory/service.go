package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const uncategorizedLabel = "Uncategorized"

// StockHealth partitions the active catalog by stock level.
type StockHealth struct {
	Healthy    int `json:"healthy"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// InventoryMetrics is the admin dashboard overview.
type InventoryMetrics struct {
	TotalProducts       int             `json:"total_products"`
	LowStockItems       int             `json:"low_stock_items"`
	OutOfStockItems     int             `json:"out_of_stock_items"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	StockHealth         StockHealth     `json:"stock_health"`
	// TurnoverRate is a configured constant, not derived from order history.
	TurnoverRate float64 `json:"turnover_rate"`
}

// CategoryValuation is one row of the per-category rollup.
type CategoryValuation struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
	Products int             `json:"products"`
	Quantity int             `json:"quantity"`
}

// ValuationReport aggregates stock value across the catalog.
type ValuationReport struct {
	TotalValuation    decimal.Decimal     `json:"total_valuation"`
	CategoryBreakdown []CategoryValuation `json:"category_breakdown"`
}

// AdjustStockInput mutates a product's stock either relatively or absolutely.
// Exactly one of Adjustment and NewQuantity must be set.
type AdjustStockInput struct {
	Adjustment  *int
	NewQuantity *int
	Reason      enums.AdjustmentReason
	Notes       *string
	ActorID     *uuid.UUID
}

// AdjustStockResult reports the before/after stock levels.
type AdjustStockResult struct {
	PreviousQuantity int `json:"previous_quantity"`
	NewQuantity      int `json:"new_quantity"`
}

// Service builds inventory reports and applies stock adjustments.
type Service interface {
	BuildOverview(ctx context.Context, threshold int) (*InventoryMetrics, error)
	BuildValuation(ctx context.Context) (*ValuationReport, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, input AdjustStockInput) (*AdjustStockResult, error)
	ListAdjustments(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryAdjustment, error)
}

type service struct {
	repo    *Repository
	logg    *logger.Logger
	pricing config.PricingConfig
	invCfg  config.InventoryConfig
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, logg *logger.Logger, pricing config.PricingConfig, invCfg config.InventoryConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		logg:    logg,
		pricing: pricing,
		invCfg:  invCfg,
	}, nil
}

// effectiveCost falls back to a fixed margin assumption when no cost basis
// is recorded.
func (s *service) effectiveCost(product *models.Product) decimal.Decimal {
	if product.CostPrice != nil {
		return *product.CostPrice
	}
	return product.Price.Mul(s.pricing.CostMarginFallback)
}

// BuildOverview computes the stock dashboard. A non-positive threshold falls
// back to the configured low-stock threshold.
func (s *service) BuildOverview(ctx context.Context, threshold int) (*InventoryMetrics, error) {
	if threshold <= 0 {
		threshold = s.invCfg.LowStockThreshold
	}

	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	metrics := &InventoryMetrics{
		TotalProducts:       len(products),
		TotalInventoryValue: decimal.Zero,
		TurnoverRate:        s.pricing.TurnoverRate,
	}

	for i := range products {
		product := &products[i]
		qty := product.InventoryQuantity

		switch {
		case qty == 0:
			metrics.OutOfStockItems++
		case qty <= threshold:
			metrics.LowStockItems++
		}

		value := s.effectiveCost(product).Mul(decimal.NewFromInt(int64(qty)))
		metrics.TotalInventoryValue = metrics.TotalInventoryValue.Add(value)
	}

	metrics.StockHealth = StockHealth{
		Healthy:    metrics.TotalProducts - metrics.LowStockItems - metrics.OutOfStockItems,
		LowStock:   metrics.LowStockItems,
		OutOfStock: metrics.OutOfStockItems,
	}
	return metrics, nil
}

// BuildValuation rolls up stock value per category, with an explicit bucket
// for uncategorized products.
func (s *service) BuildValuation(ctx context.Context) (*ValuationReport, error) {
	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	report := &ValuationReport{TotalValuation: decimal.Zero}
	buckets := map[string]*CategoryValuation{}
	var order []string

	for i := range products {
		product := &products[i]

		label := uncategorizedLabel
		if product.Category != nil {
			label = product.Category.Name
		}

		bucket, ok := buckets[label]
		if !ok {
			bucket = &CategoryValuation{Category: label, Value: decimal.Zero}
			buckets[label] = bucket
			order = append(order, label)
		}

		value := s.effectiveCost(product).Mul(decimal.NewFromInt(int64(product.InventoryQuantity)))
		bucket.Value = bucket.Value.Add(value)
		bucket.Products++
		bucket.Quantity += product.InventoryQuantity

		report.TotalValuation = report.TotalValuation.Add(value)
	}

	report.CategoryBreakdown = make([]CategoryValuation, 0, len(order))
	for _, label := range order {
		report.CategoryBreakdown = append(report.CategoryBreakdown, *buckets[label])
	}
	return report, nil
}

// AdjustStock sets or shifts a product's quantity. The audit append is
// best-effort: a failed log write is reported in the logs but does not roll
// back the stock change.
func (s *service) AdjustStock(ctx context.Context, productID uuid.UUID, input AdjustStockInput) (*AdjustStockResult, error) {
	if input.Adjustment == nil && input.NewQuantity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment or new_quantity is required")
	}
	if input.Adjustment != nil && input.NewQuantity != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment and new_quantity are mutually exclusive")
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid adjustment reason %q", input.Reason))
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.TrackInventory {
		return nil, pkgerrors.New(pkgerrors.CodeNotTracked, "product does not track inventory")
	}

	previous := product.InventoryQuantity
	final := previous
	if input.NewQuantity != nil {
		final = *input.NewQuantity
	} else {
		final = previous + *input.Adjustment
	}

	if final < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNegativeInventory, "adjustment would drive inventory negative").
			WithDetails(map[string]any{
				"current":   previous,
				"requested": final,
			})
	}

	if err := s.repo.SetProductQuantity(ctx, productID, final); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist quantity")
	}

	audit := &models.InventoryAdjustment{
		ProductID:        productID,
		PreviousQuantity: previous,
		NewQuantity:      final,
		AdjustmentAmount: final - previous,
		Reason:           input.Reason,
		Notes:            input.Notes,
		CreatedBy:        input.ActorID,
	}
	if err := s.repo.CreateAdjustment(ctx, audit); err != nil {
		ctx = s.logg.WithField(ctx, "product_id", productID.String())
		s.logg.Error(ctx, "inventory audit append failed", err)
	}

	return &AdjustStockResult{
		PreviousQuantity: previous,
		NewQuantity:      final,
	}, nil
}

// ListAdjustments returns the audit history for a product.
func (s *service) ListAdjustments(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryAdjustment, error) {
	rows, err := s.repo.ListAdjustments(ctx, productID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list adjustments")
	}
	return rows, nil
}
