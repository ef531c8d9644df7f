package authhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/identity"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/shared"
)

const DashboardPath = "/app/dashboard"

type CookieIssuer interface {
	Set(w http.ResponseWriter, sessionID string) error
	Clear(w http.ResponseWriter)
}

type Handler struct {
	Service *auth.Service
	Cookies CookieIssuer
	Env     *shared.Env
}

func NewHandler(service *auth.Service, cookies CookieIssuer, env *shared.Env) *Handler {
	return &Handler{Service: service, Cookies: cookies, Env: env}
}

type loginResponse struct {
	User     identity.Identity `json:"user"`
	Redirect string            `json:"redirect"`
}

type loginForm struct {
	Screen        guard.Screen       `json:"screen"`
	Authenticated bool               `json:"authenticated"`
	User          *identity.Identity `json:"user,omitempty"`
}

// RegisterRoutes mounts login and logout. limit wraps the credential-accepting routes.
func (h *Handler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Get("/login", h.handleLoginForm)
	r.With(limit).Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Screen: guard.ScreenLogin}
	if sess, ok := requestctx.GetSession(r.Context()); ok {
		user := sess.Identity
		form.Authenticated = true
		form.User = &user
	}
	api.Success(w, form, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !shared.DecodeJSON(w, r, &creds) {
		return
	}

	sess, err := h.Service.Login(r.Context(), creds)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	if prev, ok := requestctx.GetSession(r.Context()); ok && prev.ID != sess.ID {
		h.Env.Workspaces.Close(prev.ID)
		if err := h.Service.Logout(r.Context(), prev.ID); err != nil {
			slog.Warn("replace previous session failed", "requestId", requestctx.GetRequestID(r.Context()), "err", err)
		}
	}
	if err := h.Cookies.Set(w, sess.ID); err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, loginResponse{User: sess.Identity, Redirect: DashboardPath}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := requestctx.GetSession(r.Context()); ok {
		h.Env.Workspaces.Close(sess.ID)
		if err := h.Service.Logout(r.Context(), sess.ID); err != nil {
			slog.Warn("logout failed", "requestId", requestctx.GetRequestID(r.Context()), "err", err)
		}
	}
	h.Cookies.Clear(w)
	api.Success(w, map[string]string{"redirect": guard.LoginPath}, requestctx.GetRequestID(r.Context()))
}
