package auth

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/internal/users"
	pkgauth "github.com/mritika-studio/storefront-backend/pkg/auth"
	"github.com/mritika-studio/storefront-backend/pkg/auth/session"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubSessions mimics the redis-backed manager with an in-memory map of
// accessID to refresh token.
type stubSessions struct {
	mu       sync.Mutex
	sessions map[string]string
	revoked  []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: map[string]string{}}
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := "refresh-" + uuid.NewString()
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[oldAccessID]
	if !ok || current != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + uuid.NewString()
	s.sessions[newID] = token
	return newID, token, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func (s *stubSessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "mritika",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *users.Repository, *stubSessions) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "auth.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := users.NewRepository(conn)
	sessions := newStubSessions()
	logg := logger.New(logger.Options{ServiceName: "auth-test", Output: io.Discard})
	svc, err := NewService(repo, sessions, testJWTConfig(), testPasswordConfig(), logg)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	return svc, repo, sessions
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func validRegister() RegisterInput {
	return RegisterInput{
		Email:     "Asha@Example.com",
		Password:  "wheel-thrown-9",
		FirstName: "Asha",
		LastName:  "Kulkarni",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, repo, sessions := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.User.Email != "asha@example.com" {
		t.Fatalf("expected lowercased email, got %q", result.User.Email)
	}
	if result.User.Role != enums.UserRoleCustomer {
		t.Fatalf("new accounts must be customers, got %s", result.User.Role)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected a token pair")
	}
	if result.ExpiresIn != 15*60 {
		t.Fatalf("expected expires_in 900, got %d", result.ExpiresIn)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("claims user mismatch")
	}
	if sessions.count() != 1 {
		t.Fatalf("expected one live session, got %d", sessions.count())
	}

	login, err := svc.Login(ctx, "asha@example.com", "wheel-thrown-9")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.AccessToken == "" {
		t.Fatalf("expected an access token on login")
	}

	stored, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.LastLoginAt == nil || time.Since(*stored.LastLoginAt) > time.Minute {
		t.Fatalf("expected last_login_at to be touched, got %v", stored.LastLoginAt)
	}
	if stored.PasswordHash == "wheel-thrown-9" {
		t.Fatalf("password must not be stored in the clear")
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"missing first name", func(in *RegisterInput) { in.FirstName = "  " }},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := validRegister()
			tc.mutate(&input)
			_, err := svc.Register(ctx, input)
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, validRegister())
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "wheel-thrown-9")
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	// Deactivated accounts look identical to bad credentials.
	if err := repo.SetActive(ctx, registered.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = svc.Login(ctx, "asha@example.com", "wheel-thrown-9")
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, first.AccessToken, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == first.AccessToken {
		t.Fatalf("expected a new access token")
	}
	if refreshed.RefreshToken == first.RefreshToken {
		t.Fatalf("expected a new refresh token")
	}
	if sessions.count() != 1 {
		t.Fatalf("rotation must not leak sessions, got %d", sessions.count())
	}

	// The old pair is burned.
	_, err = svc.Refresh(ctx, first.AccessToken, first.RefreshToken)
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Refresh(ctx, refreshed.AccessToken, "forged-token")
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Refresh(ctx, "not-a-jwt", refreshed.RefreshToken)
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	t.Parallel()

	svc, repo, sessions := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.SetActive(ctx, result.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = svc.Refresh(ctx, result.AccessToken, result.RefreshToken)
	expectCode(t, err, pkgerrors.CodeUnauthorized)
	if sessions.count() != 0 {
		t.Fatalf("the rotated session must be revoked, got %d live", sessions.count())
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	svc, _, sessions := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.count() != 0 {
		t.Fatalf("expected no live sessions after logout")
	}

	err = svc.Logout(ctx, "  ")
	expectCode(t, err, pkgerrors.CodeValidation)
}
