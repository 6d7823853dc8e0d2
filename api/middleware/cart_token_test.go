package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func captureCartToken(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := CartToken(time.Hour, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestCartTokenMintsWhenAbsent(t *testing.T) {
	token, rec := captureCartToken(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if _, err := uuid.Parse(token); err != nil {
		t.Fatalf("expected minted uuid, got %q", token)
	}
	if rec.Header().Get(CartTokenHeader) != token {
		t.Fatalf("expected token echoed in header")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CartCookieName || cookies[0].Value != token {
		t.Fatalf("unexpected cookies %v", cookies)
	}
}

func TestCartTokenPrefersHeaderOverCookie(t *testing.T) {
	header := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartTokenHeader, header)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: uuid.NewString()})

	token, _ := captureCartToken(t, req)
	if token != header {
		t.Fatalf("expected header token %s, got %s", header, token)
	}
}

func TestCartTokenReusesCookie(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: existing})

	token, _ := captureCartToken(t, req)
	if token != existing {
		t.Fatalf("expected cookie token %s, got %s", existing, token)
	}
}

func TestCartTokenReplacesMalformedValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartTokenHeader, "../../etc/passwd")

	token, _ := captureCartToken(t, req)
	if _, err := uuid.Parse(token); err != nil || token == "../../etc/passwd" {
		t.Fatalf("expected fresh token, got %q", token)
	}
}
