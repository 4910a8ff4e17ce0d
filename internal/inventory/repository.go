package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists inventory reads and the adjustment audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListActiveProducts loads every active product with its category for the
// reporting rollups.
func (r *Repository) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindProductByID loads a product row.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SetProductQuantity persists the new stock level for a product.
func (r *Repository) SetProductQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("inventory_quantity", quantity).
		Error
}

// CreateAdjustment appends a row to the audit log.
func (r *Repository) CreateAdjustment(ctx context.Context, adjustment *models.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// ListAdjustments returns the audit rows for a product, newest first.
func (r *Repository) ListAdjustments(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListLowStockProducts returns active tracked products at or below the
// threshold. Used by the low-stock notification sweep.
func (r *Repository) ListLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND track_inventory = ? AND inventory_quantity <= ?", true, true, threshold).
		Order("inventory_quantity ASC").
		Find(&rows).
		Error
	return rows, err
}
