package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	internalusers "github.com/rohanmalik/boutique-backend/internal/users"
	pkgauth "github.com/rohanmalik/boutique-backend/pkg/auth"
	"github.com/rohanmalik/boutique-backend/pkg/auth/session"
	"github.com/rohanmalik/boutique-backend/pkg/config"
	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "boutique",
		ExpirationMinutes: 15,
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

func newAuthService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	repo := newAuthUsersRepo()
	svc := newAuthService(t, repo, newStubSessions())
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		FirstName: "Priya",
		LastName:  "Sharma",
		Email:     "Priya@Example.com",
		Password:  "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair on register")
	}
	if resp.User.Email != "priya@example.com" {
		t.Fatalf("expected normalized email, got %s", resp.User.Email)
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "priya@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.MemberRoleCustomer {
		t.Fatalf("expected customer role, got %s", claims.Role)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("token user mismatch: %s vs %s", claims.UserID, resp.User.ID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newAuthUsersRepo()
	svc := newAuthService(t, repo, newStubSessions())
	ctx := context.Background()

	req := RegisterRequest{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Password: "correct-horse"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()

	repo := newAuthUsersRepo()
	svc := newAuthService(t, repo, newStubSessions())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "priya@example.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed := pkgerrors.As(err); typed.Message() != invalidCredentialsMessage {
		t.Fatalf("credential failures must not leak detail, got %q", typed.Message())
	}
}

func TestAdminRoleFlowsIntoToken(t *testing.T) {
	t.Parallel()

	repo := newAuthUsersRepo()
	svc := newAuthService(t, repo, newStubSessions())
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	role := string(enums.MemberRoleAdmin)
	repo.users[resp.User.ID].SystemRole = &role

	login, err := svc.Login(ctx, LoginRequest{Email: "asha@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.MemberRoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	repo := newAuthUsersRepo()
	sessions := newStubSessions()
	svc := newAuthService(t, repo, sessions)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == resp.AccessToken {
		t.Fatal("expected a new access token")
	}

	// The rotated-out pair is dead.
	_, err = svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for stale pair, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	repo := newAuthUsersRepo()
	sessions := newStubSessions()
	svc := newAuthService(t, repo, sessions)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, resp.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err = svc.Refresh(ctx, RefreshRequest{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

type authUsersRepo struct {
	users   map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
}

func newAuthUsersRepo() *authUsersRepo {
	return &authUsersRepo{
		users:   map[uuid.UUID]*models.User{},
		byEmail: map[string]uuid.UUID{},
	}
}

func (s *authUsersRepo) Create(ctx context.Context, dto internalusers.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.users[user.ID] = user
	s.byEmail[strings.ToLower(user.Email)] = user.ID
	return user, nil
}

func (s *authUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if id, ok := s.byEmail[strings.ToLower(email)]; ok {
		return s.users[id], nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *authUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *authUsersRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := s.users[id]; ok {
		user.LastLoginAt = &at
		return nil
	}
	return gorm.ErrRecordNotFound
}

type stubSessions struct {
	tokens map[string]string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + uuid.NewString()
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + uuid.NewString()
	s.tokens[newAccessID] = token
	return newAccessID, token, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	return nil
}
