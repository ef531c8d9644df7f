package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/hrmanagement"
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/onboarding"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/signup"
	"hrportal/internal/domain/uploads"
	"hrportal/internal/domain/workflow"
)

var (
	_ auth.Backend         = (*Client)(nil)
	_ signup.Backend       = (*Client)(nil)
	_ dashboard.Backend    = (*Client)(nil)
	_ attendance.Backend   = (*Client)(nil)
	_ onboarding.Backend   = (*Client)(nil)
	_ payroll.Backend      = (*Client)(nil)
	_ performance.Backend  = (*Client)(nil)
	_ hrmanagement.Backend = (*Client)(nil)
	_ uploads.Backend      = (*Client)(nil)
)

type authResponse struct {
	Token string            `json:"token"`
	User  identity.Identity `json:"user"`
}

func (r authResponse) check(op string) (string, identity.Identity, error) {
	if r.Token == "" || !r.User.Valid() {
		return "", identity.Identity{}, fmt.Errorf("%s: response missing token or user", op)
	}
	return r.Token, r.User, nil
}

func (c *Client) Login(ctx context.Context, creds auth.Credentials) (string, identity.Identity, error) {
	var out authResponse
	if err := c.send(ctx, "auth.login", http.MethodPost, "/auth/login", "", creds, &out); err != nil {
		return "", identity.Identity{}, err
	}
	return out.check("auth.login")
}

func (c *Client) Signup(ctx context.Context, role identity.Role, payload map[string]string) (string, identity.Identity, error) {
	var out authResponse
	path := "/auth/signup/" + escape(string(role))
	if err := c.send(ctx, "auth.signup", http.MethodPost, path, "", payload, &out); err != nil {
		return "", identity.Identity{}, err
	}
	return out.check("auth.signup")
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]identity.Identity, error) {
	var out []identity.Identity
	if err := c.getJSON(ctx, "users.list", "/users", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DashboardStats(ctx context.Context, token string) (dashboard.Stats, error) {
	var out dashboard.Stats
	err := c.getJSON(ctx, "dashboard.stats", "/dashboard/stats", token, &out)
	return out, err
}

func (c *Client) AttendanceOverview(ctx context.Context, token, userID string) (attendance.Overview, error) {
	var out attendance.Overview
	err := c.getJSON(ctx, "attendance.overview", "/attendance/overview/"+escape(userID), token, &out)
	return out, err
}

func (c *Client) Leaves(ctx context.Context, token, userID string) ([]attendance.Leave, error) {
	var out []attendance.Leave
	if err := c.getJSON(ctx, "attendance.leaves", "/attendance/leaves/"+escape(userID), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckIn(ctx context.Context, token string) error {
	return c.send(ctx, "attendance.checkin", http.MethodPost, "/attendance/checkin", token, nil, nil)
}

func (c *Client) CheckOut(ctx context.Context, token string) (attendance.CheckOutResult, error) {
	var out attendance.CheckOutResult
	err := c.send(ctx, "attendance.checkout", http.MethodPost, "/attendance/checkout", token, nil, &out)
	return out, err
}

func (c *Client) ApplyLeave(ctx context.Context, token string, req attendance.LeaveRequest) error {
	return c.send(ctx, "attendance.leave_apply", http.MethodPost, "/attendance/leave/apply", token, req, nil)
}

// DecideLeave approves or rejects a leave. The backend takes the status as a query parameter.
func (c *Client) DecideLeave(ctx context.Context, token, leaveID, status string) error {
	_, err := c.do(ctx, call{
		op:     "attendance.leave_decide",
		method: http.MethodPut,
		path:   "/attendance/leave/approve/" + escape(leaveID),
		query:  url.Values{"status": {status}},
		token:  token,
	})
	return err
}

func (c *Client) Onboarding(ctx context.Context, token, userID string) (onboarding.Record, error) {
	var out onboarding.Record
	body, err := c.do(ctx, call{op: "onboarding.get", method: http.MethodGet, path: "/onboarding/" + escape(userID), token: token})
	if err != nil {
		return out, err
	}
	if err := workflow.DecodeRecord(body, &out); err != nil {
		return onboarding.Record{}, fmt.Errorf("onboarding.get: decode response: %w", err)
	}
	return out, nil
}

func (c *Client) CreateOnboarding(ctx context.Context, token, userID string) error {
	_, err := c.do(ctx, call{
		op:     "onboarding.create",
		method: http.MethodPost,
		path:   "/onboarding/create",
		query:  url.Values{"user_id": {userID}},
		token:  token,
	})
	return err
}

func (c *Client) UpdateOnboarding(ctx context.Context, token, userID string, update onboarding.Update) error {
	return c.send(ctx, "onboarding.update", http.MethodPut, "/onboarding/update/"+escape(userID), token, update, nil)
}

func (c *Client) Payroll(ctx context.Context, token, userID string) (payroll.Record, error) {
	var out payroll.Record
	body, err := c.do(ctx, call{op: "payroll.get", method: http.MethodGet, path: "/payroll/" + escape(userID), token: token})
	if err != nil {
		return out, err
	}
	if err := workflow.DecodeRecord(body, &out); err != nil {
		return payroll.Record{}, fmt.Errorf("payroll.get: decode response: %w", err)
	}
	return out, nil
}

func (c *Client) CreatePayroll(ctx context.Context, token string, req payroll.CreateRequest) error {
	return c.send(ctx, "payroll.create", http.MethodPost, "/payroll/create", token, req, nil)
}

func (c *Client) AddPayment(ctx context.Context, token, userID string, req payroll.PaymentRequest) error {
	return c.send(ctx, "payroll.add_payment", http.MethodPost, "/payroll/add-payment/"+escape(userID), token, req, nil)
}

func (c *Client) Goals(ctx context.Context, token, userID string) ([]performance.Goal, error) {
	var out []performance.Goal
	if err := c.getJSON(ctx, "performance.goals", "/performance/goals/"+escape(userID), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Tasks(ctx context.Context, token, userID string) ([]performance.Task, error) {
	var out []performance.Task
	if err := c.getJSON(ctx, "performance.tasks", "/performance/tasks/"+escape(userID), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Feedback(ctx context.Context, token, userID string) ([]performance.Feedback, error) {
	var out []performance.Feedback
	if err := c.getJSON(ctx, "performance.feedback", "/performance/feedback/"+escape(userID), token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateGoal(ctx context.Context, token string, req performance.GoalRequest) error {
	return c.send(ctx, "performance.goal_create", http.MethodPost, "/performance/goal/create", token, req, nil)
}

func (c *Client) CreateTask(ctx context.Context, token string, req performance.TaskRequest) error {
	return c.send(ctx, "performance.task_create", http.MethodPost, "/performance/task/create", token, req, nil)
}

func (c *Client) CreateFeedback(ctx context.Context, token string, req performance.FeedbackRequest) error {
	return c.send(ctx, "performance.feedback_create", http.MethodPost, "/performance/feedback/create", token, req, nil)
}

func (c *Client) UpdateTask(ctx context.Context, token, taskID string, update performance.TaskUpdate) error {
	return c.send(ctx, "performance.task_update", http.MethodPut, "/performance/task/update/"+escape(taskID), token, update, nil)
}
