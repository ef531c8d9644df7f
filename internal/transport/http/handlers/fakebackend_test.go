package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/identity"
)

const fakePassword = "secret1"

// fakeBackend plays the HR backend: bearer tokens are "tok-<userID>" and every record
// lives in memory.
type fakeBackend struct {
	mu         sync.Mutex
	users      []identity.Identity
	revoked    map[string]bool
	records    map[string][]map[string]any
	leaves     []map[string]any
	onboarding map[string]map[string]any
	payroll    map[string]map[string]any
	tasks      []map[string]any
	goals      []map[string]any
	calls      map[string]int
	seq        int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{
		users: []identity.Identity{
			{ID: "hr-1", FullName: "Hana HR", Email: "hana@example.com", Role: identity.RoleHR},
			{ID: "emp-1", FullName: "Eli Emp", Email: "eli@example.com", Role: identity.RoleEmployee},
			{ID: "int-1", FullName: "Ian Intern", Email: "ian@example.com", Role: identity.RoleIntern},
		},
		revoked:    map[string]bool{},
		records:    map[string][]map[string]any{},
		onboarding: map[string]map[string]any{},
		payroll:    map[string]map[string]any{},
		calls:      map[string]int{},
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", f.login)
		r.Group(func(r chi.Router) {
			r.Use(f.authenticate)
			r.Get("/users", f.listUsers)
			r.Get("/dashboard/stats", f.stats)
			r.Get("/attendance/overview/{userID}", f.overview)
			r.Get("/attendance/leaves/{userID}", f.userLeaves)
			r.Post("/attendance/checkin", f.checkIn)
			r.Post("/attendance/checkout", f.checkOut)
			r.Post("/attendance/leave/apply", f.applyLeave)
			r.Put("/attendance/leave/approve/{leaveID}", f.decideLeave)
			r.Get("/onboarding/{userID}", f.getOnboarding)
			r.Post("/onboarding/create", f.createOnboarding)
			r.Get("/payroll/{userID}", f.getPayroll)
			r.Post("/payroll/create", f.createPayroll)
			r.Post("/payroll/add-payment/{userID}", f.addPayment)
			r.Get("/performance/goals/{userID}", f.listFor(&f.goals))
			r.Get("/performance/tasks/{userID}", f.listFor(&f.tasks))
			r.Get("/performance/feedback/{userID}", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, []any{}) })
			r.Post("/performance/task/create", f.createTask)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) revoke(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked["tok-"+userID] = true
}

func (f *fakeBackend) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

type userKey struct{}

func withUser(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), userKey{}, userID)
}

func userOf(r *http.Request) string {
	id, _ := r.Context().Value(userKey{}).(string)
	return id
}

func (f *fakeBackend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		f.calls[r.Method+" "+r.URL.Path]++
		revoked := f.revoked[token]
		f.mu.Unlock()
		if !strings.HasPrefix(token, "tok-") || revoked {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, strings.TrimPrefix(token, "tok-"))))
	})
}

func (f *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&creds)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["login"]++
	for _, u := range f.users {
		if u.Email == creds.Email && creds.Password == fakePassword {
			writeJSON(w, map[string]any{"token": "tok-" + u.ID, "user": u})
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
}

func (f *fakeBackend) listUsers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.users)
}

func (f *fakeBackend) stats(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, map[string]any{"total_users": len(f.users), "total_interns": 1, "total_employees": 1, "internship_progress": 40})
}

func (f *fakeBackend) overview(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := f.records[chi.URLParam(r, "userID")]
	if records == nil {
		records = []map[string]any{}
	}
	writeJSON(w, map[string]any{"total_days": len(records), "present_days": len(records), "attendance_records": records})
}

func (f *fakeBackend) userLeaves(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []map[string]any{}
	for _, l := range f.leaves {
		if l["user_id"] == chi.URLParam(r, "userID") {
			out = append(out, l)
		}
	}
	writeJSON(w, out)
}

func (f *fakeBackend) checkIn(w http.ResponseWriter, r *http.Request) {
	user := userOf(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[user] = append(f.records[user], map[string]any{
		"id":       f.nextID("att"),
		"user_id":  user,
		"date":     time.Now().UTC().Format("2006-01-02"),
		"check_in": "09:00:00",
		"status":   "Present",
	})
	writeJSON(w, map[string]string{"message": "Checked in"})
}

func (f *fakeBackend) checkOut(w http.ResponseWriter, r *http.Request) {
	user := userOf(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	records := f.records[user]
	if len(records) == 0 {
		writeDetail(w, http.StatusBadRequest, "Not checked in")
		return
	}
	records[len(records)-1]["check_out"] = "17:30:00"
	records[len(records)-1]["hours_worked"] = 8.5
	writeJSON(w, map[string]any{"message": "Checked out successfully", "hours_worked": 8.5})
}

func (f *fakeBackend) applyLeave(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	body["id"] = f.nextID("leave")
	body["user_id"] = userOf(r)
	body["status"] = "Pending"
	f.leaves = append(f.leaves, body)
	writeJSON(w, body)
}

func (f *fakeBackend) decideLeave(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leaves {
		if l["id"] == chi.URLParam(r, "leaveID") {
			l["status"] = r.URL.Query().Get("status")
			writeJSON(w, l)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Leave not found")
}

func (f *fakeBackend) getOnboarding(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.onboarding[chi.URLParam(r, "userID")]
	if !ok {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, record)
}

func (f *fakeBackend) createOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onboarding[userID] = map[string]any{
		"id":                      f.nextID("onb"),
		"user_id":                 userID,
		"application_status":      "Under Review",
		"background_verification": "Pending",
		"onboarding_checklist": []map[string]any{
			{"item": "Sign offer letter", "completed": true},
			{"item": "Submit documents", "completed": false},
		},
	}
	writeJSON(w, f.onboarding[userID])
}

func (f *fakeBackend) getPayroll(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.payroll[chi.URLParam(r, "userID")]
	if !ok {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, record)
}

func (f *fakeBackend) createPayroll(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	userID, _ := body["user_id"].(string)
	f.mu.Lock()
	defer f.mu.Unlock()
	body["id"] = f.nextID("pay")
	body["payment_history"] = []map[string]any{}
	f.payroll[userID] = body
	writeJSON(w, body)
}

func (f *fakeBackend) addPayment(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.payroll[chi.URLParam(r, "userID")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Payroll not found")
		return
	}
	body["id"] = f.nextID("payment")
	record["payment_history"] = append(record["payment_history"].([]map[string]any), body)
	writeJSON(w, body)
}

func (f *fakeBackend) listFor(items *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []map[string]any{}
		for _, item := range *items {
			if item["user_id"] == chi.URLParam(r, "userID") {
				out = append(out, item)
			}
		}
		writeJSON(w, out)
	}
}

func (f *fakeBackend) createTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	body["id"] = f.nextID("task")
	body["status"] = "Pending"
	f.tasks = append(f.tasks, body)
	writeJSON(w, body)
}
