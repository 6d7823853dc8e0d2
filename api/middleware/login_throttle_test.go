package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	pkgredis "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis/redistest"
)

func loginRequest(email, remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = remote
	return req
}

func throttled(t *testing.T, cfg config.AuthRateLimitConfig) (*redistest.Cmdable, http.Handler) {
	t.Helper()
	fake := redistest.NewCmdable()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"password":"secret"`) {
			t.Fatalf("body was not restored for the handler: %s", body)
		}
		w.WriteHeader(http.StatusOK)
	})
	return fake, LoginThrottle(cfg, pkgredis.NewWithCmdable(fake), logger.Nop())(ok)
}

func TestLoginThrottleEmailBucket(t *testing.T) {
	fake, handler := throttled(t, config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginEmailLimit: 2})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("Blocked@Example.com", "1.2.3.4:5678"))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("blocked@example.com", "9.9.9.9:1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the email bucket is full, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("unexpected code: %s", payload.Error.Code)
	}
	for key := range fake.Counters {
		if strings.Contains(key, "example.com") {
			t.Fatalf("raw email leaked into key %s", key)
		}
	}
}

func TestLoginThrottleIPBucketUsesForwardedFor(t *testing.T) {
	_, handler := throttled(t, config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 1})

	first := loginRequest("a@example.com", "10.0.0.1:1")
	first.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	second := loginRequest("b@example.com", "10.0.0.2:1")
	second.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for the same forwarded client, got %d", rec.Code)
	}
}

func TestLoginThrottleDisabledWithoutWindow(t *testing.T) {
	fake, handler := throttled(t, config.AuthRateLimitConfig{LoginEmailLimit: 1})
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("a@example.com", "1.1.1.1:1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
	if len(fake.Counters) != 0 {
		t.Fatalf("disabled throttle must not count")
	}
}

func TestLoginThrottleStoreOutage(t *testing.T) {
	fake, handler := throttled(t, config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 5})
	fake.FailWith = redistest.ErrUnavailable

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("a@example.com", "1.1.1.1:1"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
