package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Taum/marketbot-sub000/internal/domain"
	"github.com/Taum/marketbot-sub000/pkg/ctxutil"
)

type adminValidator interface {
	ValidateAdminToken(token string) (string, error)
}

// AdminAuth rejects requests without a valid admin bearer token. A missing or
// unusable token yields 401; a valid token without the admin role yields 403.
func AdminAuth(validator adminValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			operator, err := validator.ValidateAdminToken(token)
			if err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					writeError(w, http.StatusForbidden, "forbidden")
					return
				}
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := ctxutil.WithOperator(r.Context(), operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
