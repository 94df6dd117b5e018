package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/domain"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <token> and injects the user id into
// the request context. The store is not consulted: a token stays valid until
// it expires.
func Auth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := strings.TrimSpace(r.Header.Get("Authorization"))
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			scheme, raw, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			raw = strings.TrimSpace(raw)
			if raw == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}
