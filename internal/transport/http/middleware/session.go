package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/session"
	"hrportal/internal/requestctx"
)

type SessionResolver interface {
	Current(ctx context.Context, id string) (session.Session, bool)
}

type CookieJar interface {
	Read(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

// Session resolves the session cookie into the request context. A cookie that no longer
// names a live session is cleared.
func Session(cookies CookieJar, sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := cookies.Read(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			sess, ok := sessions.Current(r.Context(), id)
			if !ok {
				slog.Debug("stale session cookie", "requestId", GetRequestID(r.Context()))
				cookies.Clear(w)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithSession(r.Context(), sess)))
		})
	}
}

// Guard sends visitors who may not open screen to the login page. The redirect is the same
// for every path so it reveals nothing about what exists behind it.
func Guard(screen guard.Screen) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current *session.Session
			if sess, ok := requestctx.GetSession(r.Context()); ok {
				current = &sess
			}
			if !guard.CanEnter(screen, current) {
				http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
