package signuphandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/signup"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *signup.Service
	Cookies authhandler.CookieIssuer
	Env     *shared.Env
}

func NewHandler(service *signup.Service, cookies authhandler.CookieIssuer, env *shared.Env) *Handler {
	return &Handler{Service: service, Cookies: cookies, Env: env}
}

// wizardView is what the client renders. Password fields are never echoed back.
type wizardView struct {
	Step         signup.Step       `json:"step"`
	Role         identity.Role     `json:"role,omitempty"`
	Roles        []identity.Role   `json:"roles,omitempty"`
	CommonFields []signup.Field    `json:"commonFields,omitempty"`
	RoleFields   []signup.Field    `json:"roleFields,omitempty"`
	Values       map[string]string `json:"values,omitempty"`
}

func viewOf(w *signup.Wizard) wizardView {
	values := make(map[string]string, len(w.Common)+len(w.Fields))
	for name, value := range w.Common {
		if name == "password" || name == "confirm_password" {
			continue
		}
		values[name] = value
	}
	for name, value := range w.Fields {
		values[name] = value
	}
	view := wizardView{Step: w.Step, Role: w.Role, Values: values}
	if w.Step == signup.StepRoleSelection {
		view.Roles = identity.Roles()
		return view
	}
	view.CommonFields = signup.CommonFields()
	view.RoleFields = signup.RoleFields(w.Role)
	return view
}

func (h *Handler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Route("/signup", func(r chi.Router) {
		r.Get("/", h.handleStart)
		r.Post("/back", h.handleBack)
		r.Get("/{role}", h.handleForm)
		r.With(limit).Post("/{role}", h.handleSubmit)
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	api.Success(w, viewOf(signup.NewWizard()), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.chooseRole(w, r)
	if !ok {
		return
	}
	api.Success(w, viewOf(wizard), requestctx.GetRequestID(r.Context()))
}

// handleBack returns to role selection keeping only the common answers.
func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	values := map[string]string{}
	if !shared.DecodeJSON(w, r, &values) {
		return
	}
	wizard := signup.NewWizard()
	wizard.Fill(values)
	wizard.Back()
	api.Success(w, viewOf(wizard), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.chooseRole(w, r)
	if !ok {
		return
	}
	values := map[string]string{}
	if !shared.DecodeJSON(w, r, &values) {
		return
	}
	wizard.Fill(values)

	sess, err := h.Service.Submit(r.Context(), wizard)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	if err := h.Cookies.Set(w, sess.ID); err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	api.Created(w, map[string]any{"user": sess.Identity, "redirect": authhandler.DashboardPath}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) chooseRole(w http.ResponseWriter, r *http.Request) (*signup.Wizard, bool) {
	wizard := signup.NewWizard()
	if err := wizard.ChooseRole(chi.URLParam(r, "role")); err != nil {
		if errors.Is(err, identity.ErrUnknownRole) {
			api.Fail(w, http.StatusNotFound, "unknown_role", "unknown signup role", requestctx.GetRequestID(r.Context()))
			return nil, false
		}
		h.Env.Fail(w, r, err)
		return nil, false
	}
	return wizard, true
}
