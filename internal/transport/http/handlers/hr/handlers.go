package hrhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/hrmanagement"
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/onboarding"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const (
	defaultRosterLimit = 50
	maxRosterLimit     = 200
)

type Handler struct {
	Service *hrmanagement.Service
	Env     *shared.Env
}

func NewHandler(service *hrmanagement.Service, env *shared.Env) *Handler {
	return &Handler{Service: service, Env: env}
}

type rosterPage struct {
	workflow.State[hrmanagement.RosterView]
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type decisionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hr", func(r chi.Router) {
		r.Use(middleware.RequireRole(identity.RoleHR))
		r.Get("/", h.Env.WithSession(h.handleRoster))
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", h.Env.WithSession(h.handleUser))
			r.Post("/onboarding", h.Env.WithSession(h.handleCreateOnboarding))
			r.Put("/onboarding", h.Env.WithSession(h.handleUpdateOnboarding))
			r.Post("/payroll", h.Env.WithSession(h.handleCreatePayroll))
			r.Post("/payments", h.Env.WithSession(h.handleAddPayment))
			r.Post("/goals", h.Env.WithSession(h.handleCreateGoal))
			r.Put("/leaves/{leaveID}", h.Env.WithSession(h.handleDecideLeave))
		})
	})
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Roster(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	page := shared.ParsePagination(r, defaultRosterLimit, maxRosterLimit)
	out := rosterPage{State: state, Limit: page.Limit, Offset: page.Offset}
	if state.View != nil {
		out.Total = len(state.View.Users)
		view := hrmanagement.RosterView{Users: shared.Page(state.View.Users, page)}
		out.View = &view
	}
	api.Success(w, out, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.User(r.Context(), ws, sess, chi.URLParam(r, "userID"))
	h.respond(w, r, state, err)
}

func (h *Handler) handleCreateOnboarding(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.CreateOnboarding(r.Context(), ws, sess, chi.URLParam(r, "userID"))
	h.respond(w, r, state, err)
}

func (h *Handler) handleUpdateOnboarding(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	draft := onboarding.DefaultUpdate()
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.UpdateOnboarding(r.Context(), ws, sess, chi.URLParam(r, "userID"), draft)
	h.respond(w, r, state, err)
}

func (h *Handler) handleCreatePayroll(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	draft := payroll.DefaultCreateDraft()
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.CreatePayroll(r.Context(), ws, sess, chi.URLParam(r, "userID"), draft)
	h.respond(w, r, state, err)
}

func (h *Handler) handleAddPayment(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var draft payroll.PaymentDraft
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.AddPayment(r.Context(), ws, sess, chi.URLParam(r, "userID"), draft)
	h.respond(w, r, state, err)
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var draft hrmanagement.GoalDraft
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.CreateGoal(r.Context(), ws, sess, chi.URLParam(r, "userID"), draft)
	h.respond(w, r, state, err)
}

func (h *Handler) handleDecideLeave(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var payload decisionRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	state, err := h.Service.DecideLeave(r.Context(), ws, sess, chi.URLParam(r, "userID"), chi.URLParam(r, "leaveID"), payload.Status)
	h.respond(w, r, state, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, state workflow.State[hrmanagement.UserView], err error) {
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}
