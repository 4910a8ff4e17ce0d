package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ListFilters narrows the admin user listing.
type ListFilters struct {
	Role  *enums.UserRole
	Query string
}

// Repository persists users.
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

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.conn.WithContext(ctx).Create(user).Error
}

func (r *Repository) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.conn.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased but
// legacy rows may predate that.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.conn.WithContext(ctx).
		First(&user, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one keyset page of users, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.User, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.conn.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			needle, needle, needle,
		)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var users []models.User
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	return r.updateColumn(ctx, userID, "is_active", active)
}

func (r *Repository) SetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	return r.updateColumn(ctx, userID, "role", role)
}

func (r *Repository) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.updateColumn(ctx, userID, "password_hash", hash)
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.updateColumn(ctx, userID, "last_login_at", at)
}

func (r *Repository) updateColumn(ctx context.Context, userID uuid.UUID, column string, value any) error {
	result := r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
