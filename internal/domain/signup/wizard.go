package signup

import (
	"context"
	"strings"
	"unicode/utf8"

	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

type Step string

const (
	StepRoleSelection Step = "ROLE_SELECTION"
	StepDetailsForm   Step = "DETAILS_FORM"

	MinPasswordLength = 6

	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgFillRequired     = "Please fill in all required fields"
	MsgSignupFailed     = "Signup failed. Please try again."
)

// Wizard is the two-step signup flow. Details are only reachable by choosing a role.
type Wizard struct {
	Step   Step              `json:"step"`
	Role   identity.Role     `json:"role,omitempty"`
	Common map[string]string `json:"common"`
	Fields map[string]string `json:"fields"`
}

func NewWizard() *Wizard {
	return &Wizard{
		Step:   StepRoleSelection,
		Common: map[string]string{"preferred_language": DefaultLanguage},
		Fields: map[string]string{},
	}
}

func (w *Wizard) ChooseRole(raw string) error {
	role, err := identity.ParseRole(raw)
	if err != nil {
		return err
	}
	if w.Role != role {
		w.Fields = map[string]string{}
	}
	w.Role = role
	w.Step = StepDetailsForm
	return nil
}

// Back returns to role selection. Role-specific values are discarded, common ones kept.
func (w *Wizard) Back() {
	w.Step = StepRoleSelection
	w.Role = ""
	w.Fields = map[string]string{}
}

// Fill sorts submitted values into common and role fields. Unknown names are ignored.
func (w *Wizard) Fill(values map[string]string) {
	for name, value := range values {
		switch {
		case isCommonField(name):
			w.Common[name] = value
		case w.Step == StepDetailsForm && isRoleField(w.Role, name):
			w.Fields[name] = value
		}
	}
}

// Validate applies the local checks in order: confirmation, length, then required fields.
func (w *Wizard) Validate() error {
	if w.Step != StepDetailsForm {
		return workflow.Invalid("Please choose a role")
	}
	password := w.Common["password"]
	if password != w.Common["confirm_password"] {
		return workflow.Invalid(MsgPasswordMismatch)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return workflow.Invalid(MsgPasswordTooShort)
	}
	v := workflow.NewValidator()
	for _, f := range commonFields {
		if f.Required {
			v.Required(f.Name, w.Common[f.Name])
		}
	}
	for _, f := range roleFields[w.Role] {
		if f.Required {
			v.Required(f.Name, w.Fields[f.Name])
		}
	}
	if err := v.Err(MsgFillRequired); err != nil {
		return err
	}
	v = workflow.NewValidator()
	for _, f := range append(CommonFields(), RoleFields(w.Role)...) {
		if f.Type == "date" {
			v.Date(f.Name, w.value(f.Name))
		}
	}
	return v.Err("Please correct the highlighted fields")
}

func (w *Wizard) value(name string) string {
	if v, ok := w.Common[name]; ok {
		return v
	}
	return w.Fields[name]
}

// Payload is the role-tagged signup body. The confirmation never leaves the portal.
func (w *Wizard) Payload() map[string]string {
	out := make(map[string]string, len(w.Common)+len(w.Fields))
	for name, value := range w.Common {
		if name == "confirm_password" {
			continue
		}
		if name != "password" {
			value = strings.TrimSpace(value)
		}
		if value == "" && name != "password" {
			continue
		}
		out[name] = value
	}
	for name, value := range w.Fields {
		if value = strings.TrimSpace(value); value != "" {
			out[name] = value
		}
	}
	if out["preferred_language"] == "" {
		out["preferred_language"] = DefaultLanguage
	}
	return out
}

type Backend interface {
	Signup(ctx context.Context, role identity.Role, payload map[string]string) (string, identity.Identity, error)
}

type SessionStarter interface {
	Start(ctx context.Context, token string, user identity.Identity) (session.Session, error)
}

type Service struct {
	backend  Backend
	sessions SessionStarter
}

func NewService(backend Backend, sessions SessionStarter) *Service {
	return &Service{backend: backend, sessions: sessions}
}

// Submit validates locally, creates the account and opens a session for it.
func (s *Service) Submit(ctx context.Context, w *Wizard) (session.Session, error) {
	if err := w.Validate(); err != nil {
		return session.Session{}, err
	}
	token, user, err := s.backend.Signup(ctx, w.Role, w.Payload())
	if err != nil {
		return session.Session{}, workflow.WriteFailure(err, MsgSignupFailed)
	}
	return s.sessions.Start(ctx, token, user)
}
