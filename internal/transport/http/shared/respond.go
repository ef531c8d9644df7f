package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/hrmanagement"
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/uploads"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
)

const MsgSessionExpired = "Your session has expired. Please log in again."

type SessionInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

type CookieClearer interface {
	Clear(w http.ResponseWriter)
}

// Env is what every guarded handler needs besides its own service.
type Env struct {
	Workspaces *workflow.Registry
	Sessions   SessionInvalidator
	Cookies    CookieClearer
}

// Session returns the guarded request's session and its workspace. Guard has already run,
// so a missing session here is a wiring error.
func (e *Env) Session(r *http.Request) (session.Session, *workflow.Workspace, bool) {
	sess, ok := requestctx.GetSession(r.Context())
	if !ok {
		return session.Session{}, nil, false
	}
	return sess, e.Workspaces.Get(sess.ID), true
}

// WithSession resolves the session or answers 401.
func (e *Env) WithSession(fn func(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ws, ok := e.Session(r)
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
			return
		}
		fn(w, r, sess, ws)
	}
}

// Fail maps a service error onto the response envelope. A rejected session token ends the
// session here: the store entry, the cookie and the workspace all go.
func (e *Env) Fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())

	var (
		validation *workflow.ValidationError
		write      *workflow.WriteError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation):
		if len(validation.Fields) > 0 {
			api.FailWithDetails(w, http.StatusUnprocessableEntity, "validation_error", validation.Message,
				map[string]any{"fields": validation.Fields}, requestID)
			return
		}
		api.Fail(w, http.StatusUnprocessableEntity, "validation_error", validation.Message, requestID)
	case errors.Is(err, workflow.ErrSessionInvalid):
		e.endSession(w, r)
		api.Fail(w, http.StatusUnauthorized, "session_invalid", MsgSessionExpired, requestID)
	case errors.As(err, &write):
		api.Fail(w, write.Status, "write_failed", write.Message, requestID)
	case errors.Is(err, workflow.ErrBusy):
		api.Fail(w, http.StatusConflict, "busy", "request already in progress", requestID)
	case errors.Is(err, hrmanagement.ErrForbidden), errors.Is(err, uploads.ErrNotAllowed):
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
	case errors.Is(err, payroll.ErrNoPayroll), errors.Is(err, payroll.ErrPaymentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	case errors.Is(err, identity.ErrUnknownRole):
		slog.Error("session carries unknown role", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "unknown_role", "unrecognized role", requestID)
	default:
		slog.Error("request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}

func (e *Env) endSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestctx.GetSession(r.Context())
	if !ok {
		return
	}
	if err := e.Sessions.Invalidate(r.Context(), sess.ID); err != nil {
		slog.Warn("invalidate session failed", "requestId", requestctx.GetRequestID(r.Context()), "err", err)
	}
	e.Workspaces.Close(sess.ID)
	e.Cookies.Clear(w)
}
