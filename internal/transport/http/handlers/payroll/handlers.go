package payrollhandler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Env     *shared.Env
}

func NewHandler(service *payroll.Service, env *shared.Env) *Handler {
	return &Handler{Service: service, Env: env}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/", h.Env.WithSession(h.handleOpen))
		r.Get("/payments/{paymentID}/slip", h.Env.WithSession(h.handleSlip))
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

func (h *Handler) handleSlip(w http.ResponseWriter, r *http.Request, sess session.Session, _ *workflow.Workspace) {
	paymentID := chi.URLParam(r, "paymentID")
	pdf, err := h.Service.Slip(r.Context(), sess, paymentID)
	if err != nil {
		h.Env.Fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, slipFilename(paymentID)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// slipFilename keeps only characters that are safe inside a quoted header value.
func slipFilename(paymentID string) string {
	var b strings.Builder
	for _, c := range paymentID {
		if c == '-' || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "payslip.pdf"
	}
	return "payslip-" + b.String() + ".pdf"
}
