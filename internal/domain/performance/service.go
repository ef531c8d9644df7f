package performance

import (
	"context"
	"strings"

	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
	"hrportal/internal/platform/sanitize"
)

const (
	ControlTask       = "task"
	ControlFeedback   = "feedback"
	ControlTaskStatus = "task-status"

	DefaultRating = 5
)

type Backend interface {
	Goals(ctx context.Context, token, userID string) ([]Goal, error)
	Tasks(ctx context.Context, token, userID string) ([]Task, error)
	Feedback(ctx context.Context, token, userID string) ([]Feedback, error)
	CreateTask(ctx context.Context, token string, req TaskRequest) error
	CreateFeedback(ctx context.Context, token string, req FeedbackRequest) error
	UpdateTask(ctx context.Context, token, taskID string, update TaskUpdate) error
}

type Service struct {
	backend Backend
	events  workflow.LoadRecorder
}

func NewService(backend Backend, events workflow.LoadRecorder) *Service {
	return &Service{backend: backend, events: events}
}

func (s *Service) screen(ws *workflow.Workspace, sess session.Session) *workflow.Screen[View] {
	return workflow.Enter(ws, ScreenName, func() *workflow.Screen[View] {
		return workflow.NewScreen(ScreenName, "", func(ctx context.Context) (View, bool, error) {
			view := View{}
			err := workflow.FetchAll(ctx,
				func(ctx context.Context) error {
					var err error
					view.Goals, err = s.backend.Goals(ctx, sess.Token, sess.Identity.ID)
					return err
				},
				func(ctx context.Context) error {
					var err error
					view.Tasks, err = s.backend.Tasks(ctx, sess.Token, sess.Identity.ID)
					return err
				},
				func(ctx context.Context) error {
					var err error
					view.Feedback, err = s.backend.Feedback(ctx, sess.Token, sess.Identity.ID)
					return err
				},
			)
			if view.Goals == nil {
				view.Goals = []Goal{}
			}
			if view.Tasks == nil {
				view.Tasks = []Task{}
			}
			if view.Feedback == nil {
				view.Feedback = []Feedback{}
			}
			view.TaskStats = CountTasks(view.Tasks)
			return view, true, err
		}, s.events)
	})
}

func (s *Service) Open(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], error) {
	return s.screen(ws, sess).Load(ctx)
}

type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

func ValidateTask(d TaskDraft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.DueDate) == "" {
		return workflow.Invalid("Please fill in all required fields")
	}
	v := workflow.NewValidator()
	v.Date("due_date", d.DueDate)
	v.Enum("priority", d.Priority, Priorities)
	return v.Err("Please correct the highlighted fields")
}

func (s *Service) AddTask(ctx context.Context, ws *workflow.Workspace, sess session.Session, draft TaskDraft) (workflow.State[View], error) {
	if strings.TrimSpace(draft.Priority) == "" {
		draft.Priority = PriorityMedium
	}
	return s.screen(ws, sess).Submit(ctx, workflow.Mutation{
		Control:  ControlTask,
		Draft:    draft,
		Validate: func() error { return ValidateTask(draft) },
		Write: func(ctx context.Context) error {
			return s.backend.CreateTask(ctx, sess.Token, TaskRequest{
				UserID:      sess.Identity.ID,
				Title:       strings.TrimSpace(draft.Title),
				Description: sanitize.Text(draft.Description),
				DueDate:     strings.TrimSpace(draft.DueDate),
				Priority:    draft.Priority,
			})
		},
		FailureMessage: "Failed to create task",
	})
}

type FeedbackDraft struct {
	Content string `json:"content"`
	Rating  *int   `json:"rating"`
}

func ValidateFeedback(d FeedbackDraft) error {
	if strings.TrimSpace(d.Content) == "" {
		return workflow.Invalid("Please enter feedback content")
	}
	if d.Rating != nil && (*d.Rating < 1 || *d.Rating > 5) {
		return &workflow.ValidationError{
			Message: "Please correct the highlighted fields",
			Fields:  []workflow.FieldIssue{{Field: "rating", Reason: "must be between 1 and 5"}},
		}
	}
	return nil
}

func (s *Service) SubmitFeedback(ctx context.Context, ws *workflow.Workspace, sess session.Session, draft FeedbackDraft) (workflow.State[View], error) {
	if draft.Rating == nil {
		rating := DefaultRating
		draft.Rating = &rating
	}
	return s.screen(ws, sess).Submit(ctx, workflow.Mutation{
		Control:  ControlFeedback,
		Draft:    draft,
		Validate: func() error { return ValidateFeedback(draft) },
		Write: func(ctx context.Context) error {
			return s.backend.CreateFeedback(ctx, sess.Token, FeedbackRequest{
				UserID:       sess.Identity.ID,
				FeedbackType: FeedbackSelfReview,
				Content:      sanitize.Text(draft.Content),
				Rating:       draft.Rating,
			})
		},
		FailureMessage: "Failed to submit feedback",
	})
}

func (s *Service) UpdateTaskStatus(ctx context.Context, ws *workflow.Workspace, sess session.Session, taskID, status string) (workflow.State[View], error) {
	return s.screen(ws, sess).Submit(ctx, workflow.Mutation{
		Control: ControlTaskStatus + ":" + taskID,
		Validate: func() error {
			v := workflow.NewValidator()
			v.Required("task_id", taskID)
			v.Required("status", status)
			v.Enum("status", status, TaskStatuses)
			return v.Err("Please correct the highlighted fields")
		},
		Write: func(ctx context.Context) error {
			return s.backend.UpdateTask(ctx, sess.Token, taskID, TaskUpdate{Status: status})
		},
		FailureMessage: "Failed to update task",
	})
}
