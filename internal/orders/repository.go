package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists orders and their snapshot line items.
type Repository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{conn: conn}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{conn: tx}
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.conn.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.conn.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser resolves an order only when it belongs to the user.
func (r *Repository) FindByIDForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.conn.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one keyset page of the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, params, func(query *gorm.DB) *gorm.DB {
		return query.Where("user_id = ?", userID)
	})
}

// ListAll returns one keyset page across all users, optionally filtered by status.
func (r *Repository) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, params, func(query *gorm.DB) *gorm.DB {
		if status != nil {
			query = query.Where("status = ?", *status)
		}
		return query
	})
}

func (r *Repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) ([]models.Order, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := scope(r.conn.WithContext(ctx).Model(&models.Order{}))
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var orders []models.Order
	err = query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus persists a status change.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.conn.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// DecrementProductStock subtracts qty from the product's pool, refusing to go
// below zero. Returns false when the guard blocked the write.
func (r *Repository) DecrementProductStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND inventory_quantity >= ?", productID, qty).
		Update("inventory_quantity", gorm.Expr("inventory_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DecrementVariantStock is the variant-pool counterpart of DecrementProductStock.
func (r *Repository) DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND inventory_quantity >= ?", variantID, qty).
		Update("inventory_quantity", gorm.Expr("inventory_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LoadProduct fetches the live product row, used to decide whether a line's
// stock pool is tracked at all.
func (r *Repository) LoadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.conn.WithContext(ctx).First(&product, "id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
