package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	pkgredis "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis/redistest"
)

func checkoutRequest(body, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req.WithContext(WithCartToken(req.Context(), "cart-1"))
}

func newGuard(t *testing.T) (*redistest.Cmdable, func(http.Handler) http.Handler) {
	t.Helper()
	fake := redistest.NewCmdable()
	return fake, Idempotency(pkgredis.NewWithCmdable(fake), time.Hour, logger.Nop())
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	fake, guard := newGuard(t)
	calls := 0
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, checkoutRequest(`{"customer_email":"a@b.co"}`, ""))
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected handler to run for every keyless request, ran %d", calls)
	}
	if len(fake.Data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyReplaysFirstSuccess(t *testing.T) {
	fake, guard := newGuard(t)
	calls := 0
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_number":"ISQ-1"}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest(`{"customer_email":"a@b.co"}`, "abc"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(`{"customer_email":"a@b.co"}`, "abc"))
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", second.Code)
	}
	if second.Header().Get("Content-Type") != "application/json" || second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("unexpected replay headers %v", second.Header())
	}
	if second.Body.String() != `{"order_number":"ISQ-1"}` {
		t.Fatalf("expected stored body got %s", second.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
	for key := range fake.Data {
		if !strings.Contains(key, "cart-1") {
			t.Fatalf("expected key scoped by cart token, got %s", key)
		}
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	fake, guard := newGuard(t)
	status := http.StatusBadRequest
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest(`{"customer_email":""}`, "k1"))
	if len(fake.Data) != 0 {
		t.Fatalf("rejected attempt must not be stored")
	}

	status = http.StatusCreated
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest(`{"customer_email":"a@b.co"}`, "k1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("corrected resubmit under the same key should run, got %d", rec.Code)
	}
}

func TestIdempotencyRejectsBodyChange(t *testing.T) {
	_, guard := newGuard(t)
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest(`{"customer_email":"a@b.co"}`, "xyz"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest(`{"customer_email":"c@d.co"}`, "xyz"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}

func TestIdempotencyStoreOutageIsDependencyError(t *testing.T) {
	fake, guard := newGuard(t)
	fake.FailWith = redistest.ErrUnavailable
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the store is down")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest(`{}`, "k"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	fake, guard := newGuard(t)
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_number":"ISQ-1"}`))
	}))

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(first, checkoutRequest(`{"customer_email":"a@b.co"}`, "dup"))
	}()
	<-entered

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(`{"customer_email":"a@b.co"}`, "dup"))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 while the first request runs, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), string(pkgerrors.CodeIdempotency)) {
		t.Fatalf("expected idempotency error body, got %s", second.Body.String())
	}

	close(release)
	<-done
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls.Load())
	}

	third := httptest.NewRecorder()
	handler.ServeHTTP(third, checkoutRequest(`{"customer_email":"a@b.co"}`, "dup"))
	if third.Code != http.StatusCreated || third.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay after completion, got %d %v", third.Code, third.Header())
	}
	for key, ttl := range fake.TTLs {
		if ttl != time.Hour {
			t.Fatalf("completed record %s should carry the replay window, got %s", key, ttl)
		}
	}
}

func TestIdempotencyReleasesKeyWhenHandlerPanics(t *testing.T) {
	fake, guard := newGuard(t)
	handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	func() {
		defer func() { _ = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest(`{}`, "p1"))
	}()
	if len(fake.Data) != 0 {
		t.Fatalf("reservation must be released, got %v", fake.Data)
	}
}
