package middleware

import (
	"net/http"
	"slices"

	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/identity"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
)

// RequireRole admits only sessions whose identity holds one of roles. It runs behind Guard.
func RequireRole(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := requestctx.GetSession(r.Context())
			if !ok {
				http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
				return
			}
			if !slices.Contains(roles, sess.Identity.Role) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
