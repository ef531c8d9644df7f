package onboardinghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/onboarding"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *onboarding.Service
	Env     *shared.Env
}

func NewHandler(service *onboarding.Service, env *shared.Env) *Handler {
	return &Handler{Service: service, Env: env}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/onboarding", h.Env.WithSession(h.handleOpen))
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request, sess session.Session, ws *workflow.Workspace) {
	state, err := h.Service.Open(r.Context(), ws, sess)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Success(w, state, requestctx.GetRequestID(r.Context()))
}
