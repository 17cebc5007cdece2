package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tiffinbox/backend/pkg/config"
	"github.com/tiffinbox/backend/pkg/db/models"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
)

type stubAuthService struct {
	user      *models.User
	token     string
	sendErr   error
	verifyErr error
	sentTo    string
	verified  [2]string
}

func (s *stubAuthService) SendPasscode(ctx context.Context, phone string) error {
	s.sentTo = phone
	return s.sendErr
}

func (s *stubAuthService) VerifyPasscode(ctx context.Context, phone, code string) (*models.User, string, error) {
	s.verified = [2]string{phone, code}
	if s.verifyErr != nil {
		return nil, "", s.verifyErr
	}
	return s.user, s.token, nil
}

func authTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "tiffinbox",
		ExpirationDays: 30,
		CookieName:     "token",
	}
}

func TestAuthSendOTPAcceptsJSON(t *testing.T) {
	stub := &stubAuthService{}
	handler := AuthSendOTP(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp", strings.NewReader(`{"phone":"+919876543210"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.sentTo != "+919876543210" {
		t.Fatalf("unexpected phone %q", stub.sentTo)
	}
}

func TestAuthSendOTPAcceptsForm(t *testing.T) {
	stub := &stubAuthService{}
	handler := AuthSendOTP(stub, nil)

	form := url.Values{"phone": {"+919876543210"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.sentTo != "+919876543210" {
		t.Fatalf("unexpected phone %q", stub.sentTo)
	}
}

func TestAuthSendOTPRequiresPhone(t *testing.T) {
	stub := &stubAuthService{}
	handler := AuthSendOTP(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if stub.sentTo != "" {
		t.Fatal("service must not be called without a phone")
	}
}

func TestAuthVerifyOTPSetsSessionCookie(t *testing.T) {
	user := &models.User{ID: uuid.New(), Phone: "+919876543210"}
	stub := &stubAuthService{user: user, token: "signed-token"}
	handler := AuthVerifyOTP(stub, authTestJWTConfig(), false, nil)

	payload := `{"phone":"+919876543210","otp":"123456"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.verified != [2]string{"+919876543210", "123456"} {
		t.Fatalf("unexpected verify args %v", stub.verified)
	}

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.Value != "signed-token" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie %+v", cookie)
	}

	var body models.User
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != user.ID {
		t.Fatalf("unexpected user id %s", body.ID)
	}
}

func TestAuthVerifyOTPRejectsBadCode(t *testing.T) {
	stub := &stubAuthService{verifyErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid or expired OTP")}
	handler := AuthVerifyOTP(stub, authTestJWTConfig(), false, nil)

	payload := `{"phone":"+919876543210","otp":"000000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	for _, c := range resp.Result().Cookies() {
		if c.Name == "token" && c.Value != "" {
			t.Fatal("no session cookie on failed verification")
		}
	}
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	handler := AuthLogout(authTestJWTConfig(), false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected cleared cookie")
	}
	if cookie.Value != "" || cookie.MaxAge != -1 {
		t.Fatalf("cookie not cleared: %+v", cookie)
	}
}
