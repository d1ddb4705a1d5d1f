package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dealer-admin-console/internal/model"
)

type contextKey string

const sessionContextKey contextKey = "session_token"

// Session extracts the backend session cookie and rejects requests that
// carry none. The cookie is relayed to the backend as-is; the only local
// check is an unverified expiry read when the value is a JWT, so an
// obviously dead session fails fast instead of on the first proxied call.
type Session struct {
	cookieName string
	parser     *jwt.Parser
}

func NewSession(cookieName string) *Session {
	return &Session{
		cookieName: cookieName,
		parser:     jwt.NewParser(),
	}
}

func (m *Session) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeSessionError(w, http.StatusUnauthorized, "SESSION_REQUIRED", "sign in to use the console")
			return
		}

		token := strings.TrimSpace(cookie.Value)
		if m.expired(token) {
			writeSessionError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "your session has expired, sign in again")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// expired reports whether the token is a JWT whose exp claim has passed.
// Opaque tokens and malformed values pass through; the backend stays the
// authority on session validity.
func (m *Session) expired(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}

	parsed, _, err := m.parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}

	return expiry.Before(time.Now())
}

func SessionFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionContextKey).(string)
	return token, ok
}

func writeSessionError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
