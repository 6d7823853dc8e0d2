package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyReportsJSONFieldNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope"}`))
	var body loginBody
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["email"] != "must be a valid email" || details["password"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","password":"x","admin":true}`))
	var body loginBody
	if err := DecodeJSONBody(r, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?featured=true&bad=maybe", nil)
	v, err := ParseQueryBool(r, "featured")
	if err != nil || v == nil || !*v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(r, "missing"); err != nil || v != nil {
		t.Fatalf("expected nil for missing flag")
	}
	if _, err := ParseQueryBool(r, "bad"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(httptest.NewRequest("GET", "/?offset=20", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != 10 || p.Offset != 20 {
		t.Fatalf("unexpected params %+v", p)
	}
	if _, err := ParsePagination(httptest.NewRequest("GET", "/?limit=-1", nil)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfirmed(t *testing.T) {
	if Confirmed(httptest.NewRequest("DELETE", "/", nil)) {
		t.Fatalf("missing confirm must not count")
	}
	if !Confirmed(httptest.NewRequest("DELETE", "/?confirm=true", nil)) {
		t.Fatalf("confirm=true must count")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello world ", 5); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" desk \t  lamp ", 0); got != "desk lamp" {
		t.Fatalf("expected collapsed whitespace, got %q", got)
	}
	if got := SanitizeString("lampé", 5); got != "lamp" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
}
