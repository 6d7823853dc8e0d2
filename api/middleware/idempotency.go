package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	pkgredis "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// inFlightTTL caps how long a reservation survives a handler that never
// finishes.
const inFlightTTL = 2 * time.Minute

// replay is a stored 2xx response keyed by cart token, route and client key.
// A zero Status marks a request that is still running.
type replay struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	BodyHash    string `json:"body_hash"`
}

func (r replay) pending() bool { return r.Status == 0 }

// Idempotency guards a single route. A repeated Idempotency-Key with the same
// body gets the first successful response back without reaching next; the
// same key with another body is rejected. The key is reserved before next
// runs, so a concurrent duplicate is rejected instead of running twice.
// Failed attempts release the key, so a shopper can fix the form and
// resubmit under the same key. Requests without the header pass straight
// through.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)
			bodyHash := hex.EncodeToString(sum[:])

			key := store.IdempotencyKey(CartTokenFromContext(ctx)+"|"+r.Method+" "+r.URL.Path, clientKey)
			if answerStored(w, r, store, key, bodyHash, logg) {
				return
			}

			marker, err := json.Marshal(replay{BodyHash: bodyHash})
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency reservation"))
				return
			}
			reserved, err := store.SetNX(ctx, key, string(marker), min(ttl, inFlightTTL))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: reserve idempotency key"))
				return
			}
			if !reserved {
				if !answerStored(w, r, store, key, bodyHash, logg) {
					responses.WriteError(ctx, logg, w, errInFlight())
				}
				return
			}

			// The outcome is recorded even when the client has gone away.
			storeCtx := context.WithoutCancel(ctx)
			capture := &responseCapture{ResponseWriter: w}
			stored := false
			defer func() {
				if stored {
					return
				}
				if err := store.Del(storeCtx, key); err != nil && logg != nil {
					logg.Error(logg.WithField(ctx, "idempotency_key", clientKey), "idempotency.release_failed", err)
				}
			}()

			next.ServeHTTP(capture, r)
			if capture.status < 200 || capture.status >= 300 {
				return
			}

			payload, err := json.Marshal(replay{
				Status:      capture.status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				BodyHash:    bodyHash,
			})
			if err == nil {
				err = store.Set(storeCtx, key, string(payload), ttl)
			}
			if err != nil {
				if logg != nil {
					logg.Error(logg.WithField(ctx, "idempotency_key", clientKey), "idempotency.store_failed", err)
				}
				return
			}
			stored = true
		})
	}
}

// answerStored writes the response for a key that already has a record and
// reports whether it did. A missing record leaves w untouched.
func answerStored(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, key, bodyHash string, logg *logger.Logger) bool {
	ctx := r.Context()
	raw, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, redis.Nil) || (err == nil && raw == ""):
		return false
	case err != nil:
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: get idempotency record"))
		return true
	}

	var prior replay
	if err := json.Unmarshal([]byte(raw), &prior); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode idempotency record"))
		return true
	}
	if prior.BodyHash != bodyHash {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return true
	}
	if prior.pending() {
		responses.WriteError(ctx, logg, w, errInFlight())
		return true
	}
	if prior.ContentType != "" {
		w.Header().Set("Content-Type", prior.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(prior.Status)
	_, _ = w.Write(prior.Body)
	return true
}

func errInFlight() error {
	return pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress")
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
