package middleware

import (
	"net/http"

	"github.com/tiffinbox/backend/api/responses"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
)

// RequireRole gates a subtree on the actor role resolved by Auth.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
