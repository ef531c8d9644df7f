package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrportal/internal/app/server"
	"hrportal/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type portal struct {
	backend *fakeBackend
	url     string
	app     *server.App
}

func newPortal(t *testing.T) portal {
	t.Helper()
	backend, backendSrv := newFakeBackend(t)

	cfg := config.Config{
		Addr:                   ":0",
		Environment:            "test",
		BackendURL:             backendSrv.URL,
		BackendTimeout:         5 * time.Second,
		PortalSecret:           "journey-test-secret-0123",
		SessionStore:           config.SessionStoreMemory,
		SessionTTL:             time.Hour,
		MaxBodyBytes:           1048576,
		MaxUploadBytes:         1048576,
		AuthRateLimitPerMinute: 1000,
		MetricsEnabled:         true,
		WorkspaceIdleTimeout:   30 * time.Minute,
		PayrollDisplayRate:     1,
		PayrollDisplayCurrency: "USD",
	}
	app, err := server.New(context.Background(), cfg, server.Options{})
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return portal{backend: backend, url: ts.URL, app: app}
}

// browser keeps cookies and never follows redirects, so guard redirects are observable.
func (p portal) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func call(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func expect(t *testing.T, client *http.Client, method, url string, body any, want int) envelope {
	t.Helper()
	resp, raw := call(t, client, method, url, body)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, url, want, resp.StatusCode, raw)
	}
	var env envelope
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (p portal) login(t *testing.T, client *http.Client, email string) {
	t.Helper()
	env := expect(t, client, http.MethodPost, p.url+"/login", map[string]string{"email": email, "password": fakePassword}, http.StatusOK)
	data := decodeData[struct {
		Redirect string `json:"redirect"`
	}](t, env)
	require.Equal(t, "/app/dashboard", data.Redirect)
}

type screenState[V any] struct {
	Screen  string `json:"screen"`
	Phase   string `json:"phase"`
	View    *V     `json:"view"`
	Message string `json:"message"`
}

type attendanceView struct {
	CheckState string `json:"checkState"`
	Controls   struct {
		CheckInEnabled  bool `json:"checkInEnabled"`
		CheckOutEnabled bool `json:"checkOutEnabled"`
	} `json:"controls"`
	Leaves []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"leaves"`
}

func TestVisitorsWithoutSessionAreSentToLogin(t *testing.T) {
	p := newPortal(t)
	client := p.browser(t)

	for _, path := range []string{"/", "/app/dashboard", "/app/payroll", "/app/hr"} {
		resp, _ := call(t, client, http.MethodGet, p.url+path, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	unrouted := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/app/hr/users/u-2"},
		{http.MethodGet, "/app/does-not-exist"},
		{http.MethodGet, "/app"},
		{http.MethodDelete, "/app/dashboard"},
		{http.MethodPatch, "/app/payroll/"},
	}
	for _, tc := range unrouted {
		resp, raw := call(t, client, tc.method, p.url+tc.path, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, "%s %s: %s", tc.method, tc.path, raw)
		require.Equal(t, "/login", resp.Header.Get("Location"), "%s %s", tc.method, tc.path)
	}

	expect(t, client, http.MethodGet, p.url+"/healthz", nil, http.StatusOK)
	expect(t, client, http.MethodGet, p.url+"/readyz", nil, http.StatusOK)
	resp, raw := call(t, client, http.MethodGet, p.url+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "hrportal_http_requests_total")
}

func TestInternJourney(t *testing.T) {
	p := newPortal(t)
	client := p.browser(t)

	env := expect(t, client, http.MethodPost, p.url+"/login", map[string]string{"email": "ian@example.com", "password": "nope"}, http.StatusUnauthorized)
	require.Equal(t, "Invalid email or password", env.Error.Message)

	p.login(t, client, "ian@example.com")

	dash := decodeData[screenState[struct {
		Layout struct {
			Variant        string `json:"variant"`
			UploadsAllowed bool   `json:"uploadsAllowed"`
		} `json:"layout"`
	}]](t, expect(t, client, http.MethodGet, p.url+"/app/dashboard", nil, http.StatusOK))
	require.Equal(t, "ready", dash.Phase)
	require.Equal(t, "intern", dash.View.Layout.Variant)
	require.True(t, dash.View.Layout.UploadsAllowed)

	att := decodeData[screenState[attendanceView]](t, expect(t, client, http.MethodGet, p.url+"/app/attendance", nil, http.StatusOK))
	require.Equal(t, "NOT_CHECKED_IN", att.View.CheckState)
	require.True(t, att.View.Controls.CheckInEnabled)

	att = decodeData[screenState[attendanceView]](t, expect(t, client, http.MethodPost, p.url+"/app/attendance/checkin", nil, http.StatusOK))
	require.Equal(t, "CHECKED_IN", att.View.CheckState)
	require.True(t, att.View.Controls.CheckOutEnabled)

	env = expect(t, client, http.MethodPost, p.url+"/app/attendance/checkin", nil, http.StatusUnprocessableEntity)
	require.Equal(t, "Already checked in today", env.Error.Message)

	out := decodeData[struct {
		State  screenState[attendanceView] `json:"state"`
		Result struct {
			HoursWorked float64 `json:"hours_worked"`
		} `json:"result"`
	}](t, expect(t, client, http.MethodPost, p.url+"/app/attendance/checkout", nil, http.StatusOK))
	require.Equal(t, 8.5, out.Result.HoursWorked)
	require.Equal(t, "NOT_CHECKED_IN", out.State.View.CheckState)

	expect(t, client, http.MethodPost, p.url+"/app/attendance/leave", map[string]string{
		"start_date": "2026-10-20", "end_date": "2026-10-18", "reason": "Trip", "leave_type": "Casual",
	}, http.StatusUnprocessableEntity)
	require.Zero(t, p.backend.count("POST /api/attendance/leave/apply"))

	att = decodeData[screenState[attendanceView]](t, expect(t, client, http.MethodPost, p.url+"/app/attendance/leave", map[string]string{
		"start_date": "2026-10-20", "end_date": "2026-10-22", "reason": "Trip", "leave_type": "Casual",
	}, http.StatusOK))
	require.Len(t, att.View.Leaves, 1)
	require.Equal(t, "Pending", att.View.Leaves[0].Status)

	onb := decodeData[screenState[json.RawMessage]](t, expect(t, client, http.MethodGet, p.url+"/app/onboarding", nil, http.StatusOK))
	require.Equal(t, "empty", onb.Phase)

	pay := decodeData[screenState[json.RawMessage]](t, expect(t, client, http.MethodGet, p.url+"/app/payroll", nil, http.StatusOK))
	require.Equal(t, "empty", pay.Phase)
	expect(t, client, http.MethodGet, p.url+"/app/payroll/payments/payment-1/slip", nil, http.StatusNotFound)

	perf := decodeData[screenState[struct {
		TaskStats struct {
			Pending int `json:"pending"`
		} `json:"taskStats"`
	}]](t, expect(t, client, http.MethodPost, p.url+"/app/performance/tasks", map[string]string{
		"title": "Write onboarding notes", "due_date": "2026-10-30",
	}, http.StatusOK))
	require.Equal(t, 1, perf.View.TaskStats.Pending)

	expect(t, client, http.MethodGet, p.url+"/app/hr", nil, http.StatusForbidden)
	expect(t, client, http.MethodGet, p.url+"/app/analytics", nil, http.StatusForbidden)

	expect(t, client, http.MethodPost, p.url+"/logout", nil, http.StatusOK)
	resp, _ := call(t, client, http.MethodGet, p.url+"/app/dashboard", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestHRManagesIntern(t *testing.T) {
	p := newPortal(t)
	intern := p.browser(t)
	hr := p.browser(t)
	p.login(t, intern, "ian@example.com")
	p.login(t, hr, "hana@example.com")

	att := decodeData[screenState[attendanceView]](t, expect(t, intern, http.MethodPost, p.url+"/app/attendance/leave", map[string]string{
		"start_date": "2026-11-02", "end_date": "2026-11-03", "reason": "Exams", "leave_type": "Sick",
	}, http.StatusOK))
	leaveID := att.View.Leaves[0].ID

	roster := decodeData[struct {
		View struct {
			Users []struct {
				ID string `json:"id"`
			} `json:"users"`
		} `json:"view"`
		Total int `json:"total"`
	}](t, expect(t, hr, http.MethodGet, p.url+"/app/hr?limit=2", nil, http.StatusOK))
	require.Equal(t, 3, roster.Total)
	require.Len(t, roster.View.Users, 2)

	type userView struct {
		Onboarding *struct {
			ID string `json:"id"`
		} `json:"onboarding"`
		Payroll *struct {
			Payments []struct {
				ID string `json:"id"`
			} `json:"payments"`
		} `json:"payroll"`
		Leaves []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"leaves"`
	}
	base := p.url + "/app/hr/users/int-1"

	user := decodeData[screenState[userView]](t, expect(t, hr, http.MethodGet, base, nil, http.StatusOK))
	require.Nil(t, user.View.Onboarding)
	require.Nil(t, user.View.Payroll)

	user = decodeData[screenState[userView]](t, expect(t, hr, http.MethodPost, base+"/onboarding", nil, http.StatusOK))
	require.NotNil(t, user.View.Onboarding)

	env := expect(t, hr, http.MethodPost, base+"/payroll", map[string]string{"amount": "", "bank_account": ""}, http.StatusUnprocessableEntity)
	require.Equal(t, "Please fill all required fields", env.Error.Message)
	require.Zero(t, p.backend.count("POST /api/payroll/create"))

	user = decodeData[screenState[userView]](t, expect(t, hr, http.MethodPost, base+"/payroll", map[string]string{
		"amount": "50000", "bank_account": "123456789012",
	}, http.StatusOK))
	require.NotNil(t, user.View.Payroll)

	user = decodeData[screenState[userView]](t, expect(t, hr, http.MethodPost, base+"/payments", map[string]string{
		"amount": "50000", "payment_date": "2026-09-30",
	}, http.StatusOK))
	require.Len(t, user.View.Payroll.Payments, 1)
	paymentID := user.View.Payroll.Payments[0].ID

	expect(t, hr, http.MethodPut, base+"/leaves/"+leaveID, map[string]string{"status": "Maybe"}, http.StatusUnprocessableEntity)
	user = decodeData[screenState[userView]](t, expect(t, hr, http.MethodPut, base+"/leaves/"+leaveID, map[string]string{"status": "Approved"}, http.StatusOK))
	require.Equal(t, "Approved", user.View.Leaves[0].Status)

	onb := decodeData[screenState[json.RawMessage]](t, expect(t, intern, http.MethodGet, p.url+"/app/onboarding", nil, http.StatusOK))
	require.Equal(t, "ready", onb.Phase)

	resp, raw := call(t, intern, http.MethodGet, p.url+"/app/payroll/payments/"+paymentID+"/slip", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "payslip-"+paymentID+".pdf")
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRevokedTokenEndsSession(t *testing.T) {
	p := newPortal(t)
	client := p.browser(t)
	p.login(t, client, "eli@example.com")
	expect(t, client, http.MethodGet, p.url+"/app/dashboard", nil, http.StatusOK)
	require.Equal(t, 1, p.app.Workspaces.Len())

	p.backend.revoke("emp-1")

	env := expect(t, client, http.MethodGet, p.url+"/app/performance", nil, http.StatusUnauthorized)
	require.Equal(t, "session_invalid", env.Error.Code)
	require.Zero(t, p.app.Workspaces.Len())

	resp, _ := call(t, client, http.MethodGet, p.url+"/app/dashboard", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSignedInVisitorsSeeNotFoundForUnknownScreens(t *testing.T) {
	p := newPortal(t)
	client := p.browser(t)
	p.login(t, client, "eli@example.com")

	resp, _ := call(t, client, http.MethodGet, p.url+"/app/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = call(t, client, http.MethodDelete, p.url+"/app/dashboard", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
