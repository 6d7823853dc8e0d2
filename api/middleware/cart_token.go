package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

const (
	CartCookieName  = "issaq_cart"
	CartTokenHeader = "X-Cart-Token"
)

// CartToken resolves the browsing session a cart belongs to. The token comes
// from the header first, then the cookie; a fresh one is minted otherwise and
// echoed back on both.
func CartToken(cookieTTL time.Duration, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validCartToken(r.Header.Get(CartTokenHeader))
			if token == "" {
				if cookie, err := r.Cookie(CartCookieName); err == nil {
					token = validCartToken(cookie.Value)
				}
			}
			if token == "" {
				token = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CartCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(cookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(CartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validCartToken(raw string) string {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return id.String()
}
