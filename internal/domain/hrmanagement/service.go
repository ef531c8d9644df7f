package hrmanagement

import (
	"context"
	"errors"
	"strings"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/onboarding"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/platform/sanitize"
)

const (
	RosterEmptyMessage = "No users found."
	UserEmptyMessage   = "User not found."

	ControlCreateOnboarding = "onboarding-create"
	ControlUpdateOnboarding = "onboarding-update"
	ControlCreatePayroll    = "payroll-create"
	ControlAddPayment       = "payment-add"
	ControlCreateGoal       = "goal-create"
	ControlDecideLeave      = "leave-decide"

	GoalAssignedBy = "HR"
)

var ErrForbidden = errors.New("hr role required")

var LeaveDecisions = []string{attendance.LeaveStatusApproved, attendance.LeaveStatusRejected}

type Backend interface {
	ListUsers(ctx context.Context, token string) ([]identity.Identity, error)
	Onboarding(ctx context.Context, token, userID string) (onboarding.Record, error)
	Payroll(ctx context.Context, token, userID string) (payroll.Record, error)
	Goals(ctx context.Context, token, userID string) ([]performance.Goal, error)
	Leaves(ctx context.Context, token, userID string) ([]attendance.Leave, error)
	CreateOnboarding(ctx context.Context, token, userID string) error
	UpdateOnboarding(ctx context.Context, token, userID string, update onboarding.Update) error
	CreatePayroll(ctx context.Context, token string, req payroll.CreateRequest) error
	AddPayment(ctx context.Context, token, userID string, req payroll.PaymentRequest) error
	CreateGoal(ctx context.Context, token string, req performance.GoalRequest) error
	DecideLeave(ctx context.Context, token, leaveID, status string) error
}

type RosterView struct {
	Users []identity.Identity `json:"users"`
}

// UserView is everything HR sees about one selected user. Records the user does not have
// yet are nil.
type UserView struct {
	User       identity.Identity  `json:"user"`
	Onboarding *onboarding.Record `json:"onboarding"`
	Payroll    *payroll.View      `json:"payroll"`
	Goals      []performance.Goal `json:"goals"`
	Leaves     []attendance.Leave `json:"leaves"`
}

type Service struct {
	backend Backend
	rate    payroll.DisplayRate
	events  workflow.LoadRecorder
}

func NewService(backend Backend, rate payroll.DisplayRate, events workflow.LoadRecorder) *Service {
	return &Service{backend: backend, rate: rate, events: events}
}

func authorize(sess session.Session) error {
	if sess.Identity.Role != identity.RoleHR {
		return ErrForbidden
	}
	return nil
}

func (s *Service) Roster(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[RosterView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[RosterView]{}, err
	}
	screen := workflow.Enter(ws, string(guard.ScreenHRManagement), func() *workflow.Screen[RosterView] {
		return workflow.NewScreen(string(guard.ScreenHRManagement), RosterEmptyMessage, func(ctx context.Context) (RosterView, bool, error) {
			users, err := s.backend.ListUsers(ctx, sess.Token)
			if err != nil {
				return RosterView{}, false, err
			}
			return RosterView{Users: users}, len(users) > 0, nil
		}, s.events)
	})
	return screen.Load(ctx)
}

func userScreenName(userID string) string {
	return "hr-user/" + userID
}

func (s *Service) userScreen(ws *workflow.Workspace, sess session.Session, userID string) *workflow.Screen[UserView] {
	name := userScreenName(userID)
	return workflow.Enter(ws, name, func() *workflow.Screen[UserView] {
		return workflow.NewScreen(name, UserEmptyMessage, func(ctx context.Context) (UserView, bool, error) {
			var (
				view  UserView
				users []identity.Identity
			)
			err := workflow.FetchAll(ctx,
				func(ctx context.Context) error {
					var err error
					users, err = s.backend.ListUsers(ctx, sess.Token)
					return err
				},
				func(ctx context.Context) error {
					record, err := s.backend.Onboarding(ctx, sess.Token, userID)
					if err == nil && record.Present() {
						view.Onboarding = &record
					}
					return err
				},
				func(ctx context.Context) error {
					record, err := s.backend.Payroll(ctx, sess.Token, userID)
					if err == nil && record.Present() {
						pv := payroll.BuildView(record, s.rate)
						view.Payroll = &pv
					}
					return err
				},
				func(ctx context.Context) error {
					var err error
					view.Goals, err = s.backend.Goals(ctx, sess.Token, userID)
					return err
				},
				func(ctx context.Context) error {
					var err error
					view.Leaves, err = s.backend.Leaves(ctx, sess.Token, userID)
					return err
				},
			)
			if view.Goals == nil {
				view.Goals = []performance.Goal{}
			}
			if view.Leaves == nil {
				view.Leaves = []attendance.Leave{}
			}
			found := false
			for _, user := range users {
				if user.ID == userID {
					view.User = user
					found = true
					break
				}
			}
			return view, found, err
		}, s.events)
	})
}

func (s *Service) User(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID string) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	return s.userScreen(ws, sess, userID).Load(ctx)
}

func (s *Service) CreateOnboarding(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID string) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	return s.userScreen(ws, sess, userID).Submit(ctx, workflow.Mutation{
		Control: ControlCreateOnboarding,
		Write: func(ctx context.Context) error {
			return s.backend.CreateOnboarding(ctx, sess.Token, userID)
		},
		FailureMessage: "Failed to create onboarding record",
	})
}

func (s *Service) UpdateOnboarding(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID string, draft onboarding.Update) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	return s.userScreen(ws, sess, userID).Submit(ctx, workflow.Mutation{
		Control:  ControlUpdateOnboarding,
		Draft:    draft,
		Validate: func() error { return onboarding.ValidateUpdate(draft) },
		Write: func(ctx context.Context) error {
			update := draft
			update.WelcomeMessage = sanitize.Text(update.WelcomeMessage)
			update.HRContact = strings.TrimSpace(update.HRContact)
			return s.backend.UpdateOnboarding(ctx, sess.Token, userID, update)
		},
		FailureMessage: "Failed to update onboarding",
	})
}

func (s *Service) CreatePayroll(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID string, draft payroll.CreateDraft) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	var req payroll.CreateRequest
	return s.userScreen(ws, sess, userID).Submit(ctx, workflow.Mutation{
		Control: ControlCreatePayroll,
		Draft:   draft,
		Validate: func() error {
			var err error
			req, err = draft.Request(userID)
			return err
		},
		Write: func(ctx context.Context) error {
			return s.backend.CreatePayroll(ctx, sess.Token, req)
		},
		FailureMessage: "Failed to create payroll record",
	})
}

func (s *Service) AddPayment(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID string, draft payroll.PaymentDraft) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	var req payroll.PaymentRequest
	return s.userScreen(ws, sess, userID).Submit(ctx, workflow.Mutation{
		Control: ControlAddPayment,
		Draft:   draft,
		Validate: func() error {
			var err error
			req, err = draft.Request()
			return err
		},
		Write: func(ctx context.Context) error {
			return s.backend.AddPayment(ctx, sess.Token, userID, req)
		},
		FailureMessage: "Failed to add payment",
	})
}

type GoalDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
}

func ValidateGoal(d GoalDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return workflow.Invalid("Please enter goal title")
	}
	v := workflow.NewValidator()
	v.Date("target_date", d.TargetDate)
	return v.Err("Please correct the highlighted fields")
}

func (s *Service) CreateGoal(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID string, draft GoalDraft) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	return s.userScreen(ws, sess, userID).Submit(ctx, workflow.Mutation{
		Control:  ControlCreateGoal,
		Draft:    draft,
		Validate: func() error { return ValidateGoal(draft) },
		Write: func(ctx context.Context) error {
			return s.backend.CreateGoal(ctx, sess.Token, performance.GoalRequest{
				UserID:      userID,
				Title:       strings.TrimSpace(draft.Title),
				Description: sanitize.Text(draft.Description),
				TargetDate:  strings.TrimSpace(draft.TargetDate),
				AssignedBy:  GoalAssignedBy,
			})
		},
		FailureMessage: "Failed to create goal",
	})
}

func (s *Service) DecideLeave(ctx context.Context, ws *workflow.Workspace, sess session.Session, userID, leaveID, status string) (workflow.State[UserView], error) {
	if err := authorize(sess); err != nil {
		return workflow.State[UserView]{}, err
	}
	return s.userScreen(ws, sess, userID).Submit(ctx, workflow.Mutation{
		Control: ControlDecideLeave + ":" + leaveID,
		Validate: func() error {
			v := workflow.NewValidator()
			v.Required("status", status)
			v.Enum("status", status, LeaveDecisions)
			return v.Err("Please choose Approved or Rejected")
		},
		Write: func(ctx context.Context) error {
			return s.backend.DecideLeave(ctx, sess.Token, leaveID, status)
		},
		FailureMessage: "Failed to update leave",
	})
}
