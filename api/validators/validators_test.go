package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/pagination"
)

type samplePayload struct {
	Phone string `json:"phone" validate:"required"`
	Qty   int    `json:"qty" validate:"omitempty,min=1"`
	Kind  string `json:"kind" validate:"omitempty,oneof=COD ONLINE"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"+919876543210","qty":2}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Phone != "+919876543210" || payload.Qty != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected error for malformed json")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"+919876543210","price":99}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty":0,"kind":"UPI"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	msg := typed.Message()
	if !strings.Contains(msg, "phone is required") {
		t.Fatalf("expected phone failure in %q", msg)
	}
	if !strings.Contains(msg, "kind must be one of COD ONLINE") {
		t.Fatalf("expected kind failure in %q", msg)
	}
}

func TestValidateStructMinMessage(t *testing.T) {
	err := ValidateStruct(&samplePayload{Phone: "x", Qty: -2})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || !strings.Contains(typed.Message(), "qty must be at least 1") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParsePaginationDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?", nil)
	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params != (pagination.Params{Page: 1, Limit: pagination.DefaultLimit}) {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestParsePaginationReadsQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=25", nil)
	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params != (pagination.Params{Page: 3, Limit: 25}) {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestParsePaginationRejectsBadInput(t *testing.T) {
	for _, query := range []string{"?page=abc", "?limit=0", "?limit=9999", "?page=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
		if _, err := ParsePagination(req); err == nil {
			t.Fatalf("expected error for %s", query)
		}
	}
}
