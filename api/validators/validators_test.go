package validators

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/atheash/commerce-insights/pkg/errors"
)

type reloadBody struct {
	Source string `json:"source" validate:"omitempty,oneof=csv warehouse"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"source":"csv"}`))
	var body reloadBody
	if err := DecodeJSONBody(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Source != "csv" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"nope":true}`))
	var body reloadBody
	err := DecodeJSONBody(r, &body)
	if err == nil {
		t.Fatal("expected an error for unknown fields")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidatesOneOf(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"source":"excel"}`))
	var body reloadBody
	err := DecodeJSONBody(r, &body)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if typed.Details() == nil {
		t.Fatal("expected per-field details")
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=7", nil)
	value, err := ParseQueryInt(r, "limit", 5, 1, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 7 {
		t.Fatalf("expected 7, got %d", value)
	}

	r = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryInt(r, "limit", 5, 1, 50)
	if err != nil || value != 5 {
		t.Fatalf("expected default 5, got %d err %v", value, err)
	}

	r = httptest.NewRequest("GET", "/?limit=999", nil)
	if _, err := ParseQueryInt(r, "limit", 5, 1, 50); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestParseQueryDay(t *testing.T) {
	r := httptest.NewRequest("GET", "/?from=2018-01-01", nil)
	day, err := ParseQueryDay(r, "from")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !day.Equal(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", day)
	}

	r = httptest.NewRequest("GET", "/", nil)
	day, err = ParseQueryDay(r, "from")
	if err != nil || !day.IsZero() {
		t.Fatalf("expected zero time for missing parameter, got %v err %v", day, err)
	}

	r = httptest.NewRequest("GET", "/?from=01-02-2018", nil)
	if _, err := ParseQueryDay(r, "from"); err == nil {
		t.Fatal("expected format error")
	}
}
