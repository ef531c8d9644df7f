package onboarding

import (
	"context"
	"math"
	"strings"

	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

const (
	ScreenName   = "onboarding"
	EmptyMessage = "No onboarding information available yet. Please contact HR for more details."

	StatusUnderReview = "Under Review"
	StatusSelected    = "Selected"
	StatusRejected    = "Rejected"

	VerificationPending    = "Pending"
	VerificationInProgress = "In Progress"
	VerificationCompleted  = "Completed"
	VerificationFailed     = "Failed"
)

var (
	ApplicationStatuses  = []string{StatusUnderReview, StatusSelected, StatusRejected}
	VerificationStatuses = []string{VerificationPending, VerificationInProgress, VerificationCompleted, VerificationFailed}
)

type ChecklistItem struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
}

type Document struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type Record struct {
	ID                     string                           `json:"id"`
	UserID                 string                           `json:"user_id"`
	ApplicationStatus      string                           `json:"application_status"`
	OfferLetter            *string                          `json:"offer_letter"`
	Checklist              workflow.Optional[ChecklistItem] `json:"onboarding_checklist"`
	DocumentsSubmitted     workflow.Optional[Document]      `json:"documents_submitted"`
	BackgroundVerification string                           `json:"background_verification"`
	WelcomeMessage         string                           `json:"welcome_message"`
	HRContact              string                           `json:"hr_contact"`
	CreatedAt              string                           `json:"created_at,omitempty"`
}

func (r Record) Present() bool {
	return strings.TrimSpace(r.ID) != ""
}

// Update is the HR-editable part of a record.
type Update struct {
	ApplicationStatus      string `json:"application_status"`
	BackgroundVerification string `json:"background_verification"`
	WelcomeMessage         string `json:"welcome_message"`
	HRContact              string `json:"hr_contact"`
}

func DefaultUpdate() Update {
	return Update{
		ApplicationStatus:      StatusUnderReview,
		BackgroundVerification: VerificationPending,
		WelcomeMessage:         "Welcome to our company! We're excited to have you join our team.",
		HRContact:              "hr@company.com",
	}
}

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// ChecklistProgress counts completed checklist items. An absent checklist has no progress.
func ChecklistProgress(items workflow.Optional[ChecklistItem]) Progress {
	p := Progress{Total: items.Len()}
	for _, item := range items.Items() {
		if item.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) * 100 / float64(p.Total)))
	}
	return p
}

type View struct {
	Record   Record   `json:"record"`
	Progress Progress `json:"progress"`
}

type Backend interface {
	Onboarding(ctx context.Context, token, userID string) (Record, error)
}

type Service struct {
	backend Backend
	events  workflow.LoadRecorder
}

func NewService(backend Backend, events workflow.LoadRecorder) *Service {
	return &Service{backend: backend, events: events}
}

func (s *Service) Open(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], error) {
	screen := workflow.Enter(ws, ScreenName, func() *workflow.Screen[View] {
		return workflow.NewScreen(ScreenName, EmptyMessage, func(ctx context.Context) (View, bool, error) {
			record, err := s.backend.Onboarding(ctx, sess.Token, sess.Identity.ID)
			if err != nil {
				return View{}, false, err
			}
			if !record.Present() {
				return View{}, false, nil
			}
			return View{Record: record, Progress: ChecklistProgress(record.Checklist)}, true, nil
		}, s.events)
	})
	return screen.Load(ctx)
}

// ValidateUpdate checks the enumerated fields of an HR update.
func ValidateUpdate(u Update) error {
	v := workflow.NewValidator()
	v.Required("application_status", u.ApplicationStatus)
	v.Required("background_verification", u.BackgroundVerification)
	v.Enum("application_status", u.ApplicationStatus, ApplicationStatuses)
	v.Enum("background_verification", u.BackgroundVerification, VerificationStatuses)
	return v.Err("Please correct the highlighted fields")
}
