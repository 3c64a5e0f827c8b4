package rbac

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/quill-blog/quill/internal/platform/httpx"
)

// Gate authenticates a request and checks the caller's role against a route
// policy. Handlers receive it to guard their routes.
type Gate interface {
	Authenticate(next http.Handler) http.Handler
	Authorize(allowed Set) func(http.Handler) http.Handler
}

// Middleware wires role checks for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// Require rejects callers whose role is not in allowed. It must run after
// authentication has placed a Subject in the request context.
func (m Middleware) Require(allowed Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				httpx.Message(w, http.StatusUnauthorized, httpx.MsgUnauthenticated)
				return
			}
			role := subject.SubjectRole()
			if !allowed.Allows(role) {
				if m.Logger != nil {
					m.Logger.Warn("rbac role rejected",
						slog.String("role", role.String()),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path))
				}
				httpx.Message(w, http.StatusForbidden, fmt.Sprintf("User role %s is not authorized to reach this route", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
