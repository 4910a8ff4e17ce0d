package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// Service computes carts and applies the mutation contract. Reads filter out
// invalid lines; writes reject them up front. Read-modify-write sequences are
// not serialized, matching the storage model the storefront runs on.
type Service interface {
	ComputeCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) error
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error

	BulkAdd(ctx context.Context, entries []BulkEntry) []BulkResult
	BulkClear(ctx context.Context, userIDs []uuid.UUID) []BulkResult
}

type service struct {
	repo     *Repository
	products productLoader
	pricer   Pricer
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, products productLoader, pricing config.PricingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		products: products,
		pricer:   NewPricer(pricing),
	}, nil
}

// ComputeCart prices the user's cart against live product data. Lines whose
// product or variant went inactive, or whose tracked stock dropped below the
// requested quantity, are excluded from the result but left in storage.
func (s *service) ComputeCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	summary := &CartSummary{
		Items:    make([]CartItemView, 0, len(rows)),
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}

	for i := range rows {
		item := &rows[i]
		if !lineValid(item) {
			continue
		}

		unitPrice := effectivePrice(item.Product, item.Variant)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		view := CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Product.Name,
			Slug:      item.Product.Slug,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		}
		if item.Variant != nil {
			name := item.Variant.Name
			view.VariantName = &name
		}

		summary.Items = append(summary.Items, view)
		summary.Subtotal = summary.Subtotal.Add(lineTotal)
		summary.TotalItems += item.Quantity
	}

	summary.Tax, summary.Shipping, summary.Total = s.pricer.Totals(summary.Subtotal)
	return summary, nil
}

// AddItem validates the product, variant, and stock, then merges into an
// existing row or inserts a new one.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) error {
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, variant, err := s.resolveLine(ctx, input.ProductID, input.VariantID)
	if err != nil {
		return err
	}

	if err := checkStock(product, variant, input.Quantity); err != nil {
		return err
	}

	existing, err := s.repo.FindByKey(ctx, userID, input.ProductID, input.VariantID)
	switch {
	case err == nil:
		merged := existing.Quantity + input.Quantity
		if err := checkStock(product, variant, merged); err != nil {
			return err
		}
		if err := s.repo.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:    userID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  input.Quantity,
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
		}
		return nil

	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
}

// UpdateQuantity sets the quantity on an owned cart row. Zero deletes the row
// and is idempotent.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		if err := s.repo.Delete(ctx, userID, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		return nil
	}

	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	product, variant, err := s.resolveLine(ctx, item.ProductID, item.VariantID)
	if err != nil {
		return err
	}
	if err := checkStock(product, variant, quantity); err != nil {
		return err
	}

	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return nil
}

// RemoveItem deletes one owned cart row.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return nil
}

// ClearCart deletes all cart rows for the user.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// resolveLine loads the product and optional variant, applying visibility
// rules: inactive products and foreign or inactive variants read as missing.
func (s *service) resolveLine(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*models.Product, *models.ProductVariant, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if variantID == nil {
		return product, nil, nil
	}

	variant, err := s.products.FindVariantByID(ctx, *variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.ProductID != product.ID || !variant.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return product, variant, nil
}

func checkStock(product *models.Product, variant *models.ProductVariant, quantity int) error {
	if !product.TrackInventory {
		return nil
	}
	available := effectiveStock(product, variant)
	if quantity > available {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{
				"available": available,
				"requested": quantity,
			})
	}
	return nil
}
