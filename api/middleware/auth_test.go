package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/tiffinbox/backend/pkg/auth"
	"github.com/tiffinbox/backend/pkg/config"
	"github.com/tiffinbox/backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "tiffinbox",
		ExpirationDays: 30,
		CookieName:     "token",
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintSessionToken(cfg, time.Now(), pkgauth.SessionTokenPayload{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := testJWTConfig()
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "Not authenticated" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	cfg := testJWTConfig()
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-jwt"})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsContextFromCookie(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	var gotUser uuid.UUID
	var gotRole string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: mintTestToken(t, cfg, userID, enums.UserRoleSeller)})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotUser != userID {
		t.Fatalf("expected user id %s got %s", userID, gotUser)
	}
	if gotRole != string(enums.UserRoleSeller) {
		t.Fatalf("unexpected role %q", gotRole)
	}
}

func TestAuthAcceptsBearerFallback(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	var gotUser uuid.UUID
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, userID, enums.UserRoleAdmin))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if gotUser != userID {
		t.Fatalf("expected user id %s got %s", userID, gotUser)
	}
}

func TestRequireRoleBlocksNonAdmins(t *testing.T) {
	handler := RequireRole(string(enums.UserRoleAdmin), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for non-admins")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/admin/all", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.UserRoleSeller)))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRolePassesAdmins(t *testing.T) {
	called := false
	handler := RequireRole(string(enums.UserRoleAdmin), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/admin/all", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.UserRoleAdmin)))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if !called {
		t.Fatal("expected handler to run")
	}
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}
