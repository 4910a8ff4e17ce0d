package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists back-office notifications.
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

func (r *Repository) Create(ctx context.Context, notification *models.Notification) error {
	return r.conn.WithContext(ctx).Create(notification).Error
}

func (r *Repository) FindByID(ctx context.Context, notificationID uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.conn.WithContext(ctx).First(&notification, "id = ?", notificationID).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// List returns one keyset page, newest first, optionally unread only.
func (r *Repository) List(ctx context.Context, unreadOnly bool, params pagination.Params) ([]models.Notification, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.conn.WithContext(ctx).Model(&models.Notification{})
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var notifications []models.Notification
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *Repository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn.WithContext(ctx).
		Model(&models.Notification{}).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

// MarkRead stamps read_at; already-read rows are left untouched.
func (r *Repository) MarkRead(ctx context.Context, notificationID uuid.UUID, at time.Time) (int64, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", notificationID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

// MarkAllRead stamps every unread row and reports how many were touched.
func (r *Repository) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.Notification{}).
		Where("read_at IS NULL").
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

// HasRecentOfType reports whether a notification for the same reference was
// created after the cutoff. The low-stock sweep uses it to avoid spamming the
// same product every run.
func (r *Repository) HasRecentOfType(ctx context.Context, notificationType enums.NotificationType, refID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.conn.WithContext(ctx).
		Model(&models.Notification{}).
		Where("type = ? AND ref_id = ? AND created_at > ?", notificationType, refID, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
