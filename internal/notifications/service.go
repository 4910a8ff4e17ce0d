package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// NotificationDTO is the API shape of a back-office notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	RefID     *uuid.UUID             `json:"ref_id,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListResult is one page plus the global unread count.
type NotificationListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

// Service owns the notification feed and the Record sink other services
// write through.
type Service interface {
	Record(ctx context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error
	// HasRecentOfType reports whether a notification for the same reference
	// exists after the cutoff; sweeps use it to avoid duplicates.
	HasRecentOfType(ctx context.Context, notificationType enums.NotificationType, refID uuid.UUID, since time.Time) (bool, error)
	List(ctx context.Context, unreadOnly bool, params pagination.Params) (*NotificationListResult, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("notifications: repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func NewNotificationDTO(notification *models.Notification) *NotificationDTO {
	if notification == nil {
		return nil
	}
	return &NotificationDTO{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		RefID:     notification.RefID,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}

func (s *service) Record(ctx context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error {
	if !notificationType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}

	notification := &models.Notification{
		Type:    notificationType,
		Title:   title,
		Message: message,
		RefID:   referenceID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create notification")
	}
	return nil
}

func (s *service) HasRecentOfType(ctx context.Context, notificationType enums.NotificationType, refID uuid.UUID, since time.Time) (bool, error) {
	recent, err := s.repo.HasRecentOfType(ctx, notificationType, refID, since)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to query notifications")
	}
	return recent, nil
}

func (s *service) List(ctx context.Context, unreadOnly bool, params pagination.Params) (*NotificationListResult, error) {
	params.Limit = pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, unreadOnly, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to count notifications")
	}

	result := &NotificationListResult{
		Notifications: make([]NotificationDTO, 0, len(rows)),
		UnreadCount:   unread,
	}
	hasMore := len(rows) > params.Limit
	if hasMore {
		rows = rows[:params.Limit]
	}
	for i := range rows {
		result.Notifications = append(result.Notifications, *NewNotificationDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, notificationID, s.now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to mark notification read")
	}
	if affected == 0 {
		// Either missing or already read; distinguish so the client can tell.
		if _, err := s.repo.FindByID(ctx, notificationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load notification")
		}
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, s.now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to mark notifications read")
	}
	return affected, nil
}
