package inquiries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

const maxMessageLength = 4000

var validate = validator.New()

// Sender forwards an accepted inquiry to an external channel (email,
// WhatsApp). Implementations live at the edge; persistence never depends on
// delivery succeeding.
type Sender interface {
	Send(ctx context.Context, inquiry *models.Inquiry) error
}

// notifier records a back-office notification.
type notifier interface {
	Record(ctx context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error
}

// CreateInquiryInput is the public contact-form payload.
type CreateInquiryInput struct {
	Name    string
	Email   string
	Phone   *string
	Company *string
	Message string
}

// InquiryDTO is the API shape of an inquiry.
type InquiryDTO struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Phone     *string             `json:"phone,omitempty"`
	Company   *string             `json:"company,omitempty"`
	Message   string              `json:"message"`
	Status    enums.InquiryStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// InquiryListResult is one page of inquiries with its next cursor.
type InquiryListResult struct {
	Inquiries  []InquiryDTO `json:"inquiries"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Service owns inquiry intake and the admin triage surface.
type Service interface {
	Create(ctx context.Context, input CreateInquiryInput) (*InquiryDTO, error)
	List(ctx context.Context, status *enums.InquiryStatus, params pagination.Params) (*InquiryListResult, error)
	Get(ctx context.Context, inquiryID uuid.UUID) (*InquiryDTO, error)
	UpdateStatus(ctx context.Context, inquiryID uuid.UUID, status enums.InquiryStatus) (*InquiryDTO, error)
}

type service struct {
	repo   *Repository
	sender Sender
	notify notifier
	logg   *logger.Logger
}

// NewService wires inquiry intake. sender and notify may be nil when the
// corresponding sink is not configured.
func NewService(repo *Repository, sender Sender, notify notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("inquiries: repository is required")
	}
	if logg == nil {
		return nil, errors.New("inquiries: logger is required")
	}
	return &service{repo: repo, sender: sender, notify: notify, logg: logg}, nil
}

func NewInquiryDTO(inquiry *models.Inquiry) *InquiryDTO {
	if inquiry == nil {
		return nil
	}
	return &InquiryDTO{
		ID:        inquiry.ID,
		Name:      inquiry.Name,
		Email:     inquiry.Email,
		Phone:     inquiry.Phone,
		Company:   inquiry.Company,
		Message:   inquiry.Message,
		Status:    inquiry.Status,
		CreatedAt: inquiry.CreatedAt,
		UpdatedAt: inquiry.UpdatedAt,
	}
}

func (s *service) Create(ctx context.Context, input CreateInquiryInput) (*InquiryDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Message = strings.TrimSpace(input.Message)

	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validate.Var(input.Email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if input.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if len(input.Message) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is too long")
	}

	inquiry := &models.Inquiry{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Message: input.Message,
		Status:  enums.InquiryStatusNew,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create inquiry")
	}

	// Delivery and notification are best-effort: the inquiry is already
	// persisted and the admin can find it in the back-office.
	if s.sender != nil {
		if err := s.sender.Send(ctx, inquiry); err != nil {
			s.logg.Error(ctx, "inquiry delivery failed", err)
		}
	}
	if s.notify != nil {
		inquiryID := inquiry.ID
		message := fmt.Sprintf("%s (%s) sent a wholesale inquiry", inquiry.Name, inquiry.Email)
		if err := s.notify.Record(ctx, enums.NotificationTypeNewInquiry, "New inquiry", message, &inquiryID); err != nil {
			s.logg.Error(ctx, "inquiry notification failed", err)
		}
	}

	return NewInquiryDTO(inquiry), nil
}

func (s *service) List(ctx context.Context, status *enums.InquiryStatus, params pagination.Params) (*InquiryListResult, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inquiry status filter")
	}
	params.Limit = pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, status, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list inquiries")
	}

	result := &InquiryListResult{Inquiries: make([]InquiryDTO, 0, len(rows))}
	hasMore := len(rows) > params.Limit
	if hasMore {
		rows = rows[:params.Limit]
	}
	for i := range rows {
		result.Inquiries = append(result.Inquiries, *NewInquiryDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, inquiryID uuid.UUID) (*InquiryDTO, error) {
	inquiry, err := s.repo.FindByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load inquiry")
	}
	return NewInquiryDTO(inquiry), nil
}

func (s *service) UpdateStatus(ctx context.Context, inquiryID uuid.UUID, status enums.InquiryStatus) (*InquiryDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inquiry status %q", status))
	}
	if err := s.repo.UpdateStatus(ctx, inquiryID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update inquiry")
	}
	return s.Get(ctx, inquiryID)
}
