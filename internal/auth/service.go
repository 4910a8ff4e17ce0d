package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mritika-studio/storefront-backend/internal/users"
	pkgauth "github.com/mritika-studio/storefront-backend/pkg/auth"
	"github.com/mritika-studio/storefront-backend/pkg/auth/session"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/security"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var validate = validator.New()

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// AuthResult is the token pair handed to a freshly authenticated client.
type AuthResult struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int           `json:"expires_in"`
	User         users.UserDTO `json:"user"`
}

// sessionManager is the slice of session.Manager the service needs.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service owns registration, login, and the token lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	repo        *users.Repository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

func NewService(
	repo *users.Repository,
	sessions sessionManager,
	jwtCfg config.JWTConfig,
	passwordCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, errors.New("auth: users repository is required")
	}
	if sessions == nil {
		return nil, errors.New("auth: session manager is required")
	}
	if logg == nil {
		return nil, errors.New("auth: logger is required")
	}
	return &service{
		repo:        repo,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := validate.Var(input.Email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash password")
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create user")
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load user")
	}
	if !user.IsActive {
		return nil, invalidCredentials()
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		// Login still succeeds; the timestamp is informational.
		s.logg.Error(ctx, "failed to record last login", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access and refresh tokens are required")
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to rotate session")
	}

	// Re-check the account: a user deactivated mid-session must not be able
	// to refresh their way back in.
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		revokeErr := s.sessions.Revoke(ctx, newAccessID)
		if revokeErr != nil {
			s.logg.Error(ctx, "failed to revoke session for inactive user", revokeErr)
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is no longer active")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	return &AuthResult{
		AccessToken:  token,
		RefreshToken: newRefresh,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		User:         *users.NewUserDTO(user),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create session")
	}

	return &AuthResult{
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
		User:         *users.NewUserDTO(user),
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
