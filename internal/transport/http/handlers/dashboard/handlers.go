package dashboardhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/uploads"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

// multipartMemory is how much of an upload is held in memory before spilling to disk.
const multipartMemory = 1 << 20

type Handler struct {
	Service *dashboard.Service
	Uploads *uploads.Service
	Env     *shared.Env
}

func NewHandler(service *dashboard.Service, uploadSvc *uploads.Service, env *shared.Env) *Handler {
	return &Handler{Service: service, Uploads: uploadSvc, Env: env}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Env.WithSession(h.handleDashboard))
	r.Get("/profile", h.Env.WithSession(h.handleProfile))
	r.Get("/hr-contacts", h.Env.WithSession(h.handleContacts))
	r.With(middleware.RequireRole(identity.RoleHR)).Get("/analytics", h.Env.WithSession(h.handleAnalytics))
	r.With(middleware.UploadLimit(h.Uploads.MaxBytes())).Post("/uploads/{kind}", h.Env.WithSession(h.handleUpload))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Open(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Profile(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleContacts(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Contacts(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Analytics(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	kind, err := uploads.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "unknown upload", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Env.Fail(w, r, err)
			return
		}
		h.Env.Fail(w, r, workflow.Invalid("Please choose a file"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Env.Fail(w, r, workflow.Invalid("Please choose a file"))
		return
	}
	defer file.Close()

	state, err := h.Uploads.Upload(r.Context(), ws, sess, kind, uploads.File{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}
