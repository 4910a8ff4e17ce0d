package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"github.com/mritika-studio/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const tempPasswordLength = 12

// ResetPasswordResult carries the generated temporary password back to the
// admin who requested the reset. It is returned once and never stored.
type ResetPasswordResult struct {
	User         UserDTO `json:"user"`
	TempPassword string  `json:"temp_password"`
}

// Service owns the admin user-management surface.
type Service interface {
	ListUsers(ctx context.Context, filters ListFilters, params pagination.Params) (*UserListResult, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*UserDTO, error)
	SetRole(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) (*UserDTO, error)
	ResetPassword(ctx context.Context, userID uuid.UUID) (*ResetPasswordResult, error)
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, errors.New("users: repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) ListUsers(ctx context.Context, filters ListFilters, params pagination.Params) (*UserListResult, error) {
	if filters.Role != nil && !filters.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}
	params.Limit = pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list users")
	}

	result := &UserListResult{Users: make([]UserDTO, 0, len(rows))}
	hasMore := len(rows) > params.Limit
	if hasMore {
		rows = rows[:params.Limit]
	}
	for i := range rows {
		result.Users = append(result.Users, *NewUserDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewUserDTO(user), nil
}

func (s *service) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*UserDTO, error) {
	if actorID == userID && !active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate your own account")
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return NewUserDTO(user), nil
	}
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return nil, mapWriteError(err, "failed to update user")
	}
	user.IsActive = active
	return NewUserDTO(user), nil
}

func (s *service) SetRole(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}
	if actorID == userID && role != enums.UserRoleAdmin {
		// An admin stripping their own role would lock themselves out
		// mid-session.
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot revoke your own admin role")
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return NewUserDTO(user), nil
	}
	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return nil, mapWriteError(err, "failed to update role")
	}
	user.Role = role
	return NewUserDTO(user), nil
}

func (s *service) ResetPassword(ctx context.Context, userID uuid.UUID) (*ResetPasswordResult, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to generate password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash password")
	}
	if err := s.repo.SetPasswordHash(ctx, userID, hash); err != nil {
		return nil, mapWriteError(err, "failed to store password")
	}

	return &ResetPasswordResult{
		User:         *NewUserDTO(user),
		TempPassword: tempPassword,
	}, nil
}

func (s *service) find(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load user")
	}
	return user, nil
}

func mapWriteError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
