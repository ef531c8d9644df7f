package attendancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Env     *shared.Env
}

func NewHandler(service *attendance.Service, env *shared.Env) *Handler {
	return &Handler{Service: service, Env: env}
}

type checkOutResponse struct {
	State  workflow.State[attendance.View] `json:"state"`
	Result attendance.CheckOutResult       `json:"result"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.Env.WithSession(h.handleOpen))
		r.Post("/checkin", h.Env.WithSession(h.handleCheckIn))
		r.Post("/checkout", h.Env.WithSession(h.handleCheckOut))
		r.Post("/leave", h.Env.WithSession(h.handleApplyLeave))
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

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.CheckIn(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, result, err := h.Service.CheckOut(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, checkOutResponse{State: state, Result: result}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleApplyLeave(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	var draft attendance.LeaveRequest
	if !shared.DecodeJSON(w, r, &draft) {
		return
	}
	state, err := h.Service.ApplyLeave(r.Context(), ws, sess, draft)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}
