package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/responses"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// maxLoginBody caps how much of a login body is buffered to find the email.
const maxLoginBody = 16 << 10

type counterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// throttleBucket is one fixed-window counter. An empty scope skips the bucket.
type throttleBucket struct {
	name  string
	scope string
	limit int
}

// LoginThrottle counts login attempts per client IP and per email inside a
// fixed window and answers 429 with Retry-After once either count passes its
// limit. Emails are hashed before they reach Redis or the logs. A zero window
// or zero limits disable the throttle.
func LoginThrottle(cfg config.AuthRateLimitConfig, store counterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.LoginWindow <= 0 || (cfg.LoginIPLimit <= 0 && cfg.LoginEmailLimit <= 0) {
			return next
		}
		retryAfter := strconv.Itoa(int(cfg.LoginWindow.Round(time.Second).Seconds()))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			buckets := []throttleBucket{
				{name: "ip", scope: prefixed("login:ip:", clientIP(r)), limit: cfg.LoginIPLimit},
				{name: "email", scope: prefixed("login:email:", emailDigest(body)), limit: cfg.LoginEmailLimit},
			}
			for _, b := range buckets {
				if b.limit <= 0 || b.scope == "" {
					continue
				}
				count, err := store.IncrWithTTL(ctx, store.RateLimitKey(b.scope), cfg.LoginWindow)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: count login attempt"))
					return
				}
				if count > int64(b.limit) {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"bucket":   b.name,
							"scope":    b.scope,
							"attempts": count,
							"limit":    b.limit,
						}), "auth.login_throttled")
					}
					w.Header().Set("Retry-After", retryAfter)
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

// clientIP takes the first X-Forwarded-For hop when present, else the peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func emailDigest(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
