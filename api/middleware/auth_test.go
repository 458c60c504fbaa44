package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/rohanmalik/boutique-backend/pkg/auth"
	"github.com/rohanmalik/boutique-backend/pkg/auth/session"
	"github.com/rohanmalik/boutique-backend/pkg/config"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
)

type stubChecker struct {
	ok bool
}

func (s stubChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, nil
}

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "boutique",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, userID uuid.UUID, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(jwtTestConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(jwtTestConfig(), stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	handler := Auth(jwtTestConfig(), stubChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a dead session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	var seenUser, seenRole string
	handler := Auth(jwtTestConfig(), stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID, enums.MemberRoleAdmin))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if seenUser != userID.String() {
		t.Fatalf("expected user %s in context, got %q", userID, seenUser)
	}
	if seenRole != string(enums.MemberRoleAdmin) {
		t.Fatalf("expected admin role in context, got %q", seenRole)
	}
}
