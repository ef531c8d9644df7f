package attendance

import (
	"context"
	"strings"
	"time"

	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/platform/sanitize"
)

const (
	ScreenName = "attendance"

	ControlCheckIn  = "checkin"
	ControlCheckOut = "checkout"
	ControlLeave    = "leave"

	MsgFillAllFields = "Please fill in all fields"
	MsgUnavailable   = "Attendance is unavailable right now. Please try again."
)

type Backend interface {
	AttendanceOverview(ctx context.Context, token, userID string) (Overview, error)
	Leaves(ctx context.Context, token, userID string) ([]Leave, error)
	CheckIn(ctx context.Context, token string) error
	CheckOut(ctx context.Context, token string) (CheckOutResult, error)
	ApplyLeave(ctx context.Context, token string, req LeaveRequest) error
}

type Service struct {
	backend Backend
	events  workflow.LoadRecorder
	now     func() time.Time
}

func NewService(backend Backend, events workflow.LoadRecorder) *Service {
	return &Service{backend: backend, events: events, now: time.Now}
}

func (s *Service) screen(ws *workflow.Workspace, sess session.Session) *workflow.Screen[View] {
	return workflow.Enter(ws, ScreenName, func() *workflow.Screen[View] {
		return workflow.NewScreen(ScreenName, "", s.loader(sess), s.events)
	})
}

func (s *Service) loader(sess session.Session) workflow.Loader[View] {
	return func(ctx context.Context) (View, bool, error) {
		var (
			overview    Overview
			overviewErr error
			leaves      []Leave
		)
		err := workflow.FetchAll(ctx,
			func(ctx context.Context) error {
				overview, overviewErr = s.backend.AttendanceOverview(ctx, sess.Token, sess.Identity.ID)
				return overviewErr
			},
			func(ctx context.Context) error {
				var err error
				leaves, err = s.backend.Leaves(ctx, sess.Token, sess.Identity.ID)
				return err
			},
		)
		if leaves == nil {
			leaves = []Leave{}
		}
		records := overview.AttendanceRecords.Items()
		state := DeriveCheckState(records, s.now())
		view := View{
			Overview:   overview,
			Leaves:     leaves,
			CheckState: state,
			Controls:   ControlsFor(state),
			Recent:     RecentHours(records),
		}
		if overviewErr != nil {
			// No check control is offered without today's record.
			view.Controls = Controls{}
		}
		return view, true, err
	}
}

func (s *Service) Open(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], error) {
	return s.screen(ws, sess).Load(ctx)
}

func (s *Service) CheckIn(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], error) {
	screen := s.screen(ws, sess)
	return screen.Submit(ctx, workflow.Mutation{
		Control: ControlCheckIn,
		Validate: func() error {
			return checkControl(screen.State(), func(c Controls) bool { return c.CheckInEnabled }, "Already checked in today")
		},
		Write: func(ctx context.Context) error {
			return s.backend.CheckIn(ctx, sess.Token)
		},
		FailureMessage: "Failed to check in",
	})
}

func (s *Service) CheckOut(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], CheckOutResult, error) {
	screen := s.screen(ws, sess)
	var result CheckOutResult
	state, err := screen.Submit(ctx, workflow.Mutation{
		Control: ControlCheckOut,
		Validate: func() error {
			return checkControl(screen.State(), func(c Controls) bool { return c.CheckOutEnabled }, "Not checked in today")
		},
		Write: func(ctx context.Context) error {
			var err error
			result, err = s.backend.CheckOut(ctx, sess.Token)
			return err
		},
		FailureMessage: "Failed to check out",
	})
	return state, result, err
}

// checkControl refuses a check control the last load disabled. Before any load there is
// nothing to refuse against and the backend decides.
func checkControl(state workflow.State[View], enabled func(Controls) bool, refused string) error {
	if state.View == nil || enabled(state.View.Controls) {
		return nil
	}
	if state.Phase == workflow.PhaseUnavailable {
		return workflow.Invalid(MsgUnavailable)
	}
	return workflow.Invalid(refused)
}

func (s *Service) ApplyLeave(ctx context.Context, ws *workflow.Workspace, sess session.Session, draft LeaveRequest) (workflow.State[View], error) {
	if strings.TrimSpace(draft.LeaveType) == "" {
		draft.LeaveType = LeaveTypeCasual
	}
	return s.screen(ws, sess).Submit(ctx, workflow.Mutation{
		Control:  ControlLeave,
		Draft:    draft,
		Validate: func() error { return ValidateLeave(draft) },
		Write: func(ctx context.Context) error {
			req := draft
			req.Reason = sanitize.Text(req.Reason)
			return s.backend.ApplyLeave(ctx, sess.Token, req)
		},
		FailureMessage: "Failed to apply for leave",
	})
}

// ValidateLeave rejects incomplete or inverted date ranges before any network call.
func ValidateLeave(draft LeaveRequest) error {
	if strings.TrimSpace(draft.StartDate) == "" || strings.TrimSpace(draft.EndDate) == "" ||
		strings.TrimSpace(draft.Reason) == "" || strings.TrimSpace(draft.LeaveType) == "" {
		return workflow.Invalid(MsgFillAllFields)
	}
	v := workflow.NewValidator()
	v.Enum("leave_type", draft.LeaveType, LeaveTypes)
	start, _ := v.Date("start_date", draft.StartDate)
	end, _ := v.Date("end_date", draft.EndDate)
	v.DateOrder("start_date", start, "end_date", end)
	return v.Err("Please correct the highlighted fields")
}
