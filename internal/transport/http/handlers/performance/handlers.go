package performancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
	Env     *shared.Env
}

func NewHandler(service *performance.Service, env *shared.Env) *Handler {
	return &Handler{Service: service, Env: env}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.Get("/", h.Env.WithSession(h.handleOpen))
		r.Post("/tasks", h.Env.WithSession(h.handleAddTask))
		r.Put("/tasks/{taskID}", h.Env.WithSession(h.handleUpdateTask))
		r.Post("/feedback", h.Env.WithSession(h.handleFeedback))
	})
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Open(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleAddTask(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var draft performance.TaskDraft
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.AddTask(r.Context(), ws, sess, draft)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	state, err := h.Service.UpdateTaskStatus(r.Context(), ws, sess, chi.URLParam(r, "taskID"), payload.Status)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var draft performance.FeedbackDraft
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.SubmitFeedback(r.Context(), ws, sess, draft)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}
