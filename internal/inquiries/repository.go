package inquiries

import (
	"context"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists B2B inquiries.
type Repository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{conn: conn}
}

func (r *Repository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	return r.conn.WithContext(ctx).Create(inquiry).Error
}

func (r *Repository) FindByID(ctx context.Context, inquiryID uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := r.conn.WithContext(ctx).First(&inquiry, "id = ?", inquiryID).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// List returns one keyset page, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.InquiryStatus, params pagination.Params) ([]models.Inquiry, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.conn.WithContext(ctx).Model(&models.Inquiry{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var inquiries []models.Inquiry
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, inquiryID uuid.UUID, status enums.InquiryStatus) error {
	result := r.conn.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("id = ?", inquiryID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
