package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists cart rows. Product and variant data is always loaded
// alongside items because every read path reprices against live records.
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

// ListByUser returns the user's cart rows with product and variant preloaded,
// oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads one cart row scoped to the owning user.
func (r *Repository) FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		First(&item, "id = ? AND user_id = ?", itemID, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByKey looks up the merge target for (user, product, variant-or-null).
func (r *Repository) FindByKey(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	qb := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		qb = qb.Where("variant_id = ?", *variantID)
	} else {
		qb = qb.Where("variant_id IS NULL")
	}

	var item models.CartItem
	if err := qb.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a cart row.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets the quantity on an existing row.
func (r *Repository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).
		Error
}

// Delete removes one cart row scoped to the owning user. Deleting an absent
// row is not an error.
func (r *Repository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{}).
		Error
}

// Clear removes every cart row for the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

// DeleteUntouchedSince removes cart rows not updated since the cutoff and
// reports how many went away. Used by the stale-cart sweep.
func (r *Repository) DeleteUntouchedSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
