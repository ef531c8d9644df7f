package dashboard

import (
	"context"
	"math"
	"sort"
	"strings"

	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

const ContactsEmptyMessage = "No HR contacts available yet."

type Backend interface {
	DashboardStats(ctx context.Context, token string) (Stats, error)
	ListUsers(ctx context.Context, token string) ([]identity.Identity, error)
}

type Service struct {
	backend Backend
	events  workflow.LoadRecorder
}

func NewService(backend Backend, events workflow.LoadRecorder) *Service {
	return &Service{backend: backend, events: events}
}

// Open selects the layout for the session's role and loads stats and roster in parallel.
// An unknown role fails before anything is fetched.
func (s *Service) Open(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], error) {
	screen, err := s.Screen(ws, sess)
	if err != nil {
		return workflow.State[View]{}, err
	}
	return screen.Load(ctx)
}

// Screen enters the dashboard without loading it. Writes issued from the dashboard, such
// as uploads, submit against it.
func (s *Service) Screen(ws *workflow.Workspace, sess session.Session) (*workflow.Screen[View], error) {
	layout, err := Select(sess.Identity.Role)
	if err != nil {
		return nil, err
	}
	return workflow.Enter(ws, string(guard.ScreenDashboard), func() *workflow.Screen[View] {
		return workflow.NewScreen(string(guard.ScreenDashboard), "", func(ctx context.Context) (View, bool, error) {
			var (
				stats Stats
				users []identity.Identity
			)
			err := workflow.FetchAll(ctx,
				func(ctx context.Context) error {
					var err error
					stats, err = s.backend.DashboardStats(ctx, sess.Token)
					return err
				},
				func(ctx context.Context) error {
					var err error
					users, err = s.backend.ListUsers(ctx, sess.Token)
					return err
				},
			)
			view := View{
				Layout:  layout,
				Profile: profileOf(stats, sess.Identity),
				Metrics: MetricsFor(layout.Variant, stats),
				Rows:    RowsFor(layout.Table, users, sess.Identity),
			}
			return view, true, err
		}, s.events)
	}), nil
}

func (s *Service) Profile(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[identity.Identity], error) {
	screen := workflow.Enter(ws, string(guard.ScreenProfile), func() *workflow.Screen[identity.Identity] {
		return workflow.NewScreen(string(guard.ScreenProfile), "", func(ctx context.Context) (identity.Identity, bool, error) {
			stats, err := s.backend.DashboardStats(ctx, sess.Token)
			return profileOf(stats, sess.Identity), true, err
		}, s.events)
	})
	return screen.Load(ctx)
}

func (s *Service) Contacts(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[ContactsView], error) {
	screen := workflow.Enter(ws, string(guard.ScreenHRDirectory), func() *workflow.Screen[ContactsView] {
		return workflow.NewScreen(string(guard.ScreenHRDirectory), ContactsEmptyMessage, func(ctx context.Context) (ContactsView, bool, error) {
			users, err := s.backend.ListUsers(ctx, sess.Token)
			if err != nil {
				return ContactsView{}, false, err
			}
			contacts := HRContacts(users)
			return ContactsView{Contacts: contacts}, len(contacts) > 0, nil
		}, s.events)
	})
	return screen.Load(ctx)
}

func (s *Service) Analytics(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[AnalyticsView], error) {
	screen := workflow.Enter(ws, string(guard.ScreenAnalytics), func() *workflow.Screen[AnalyticsView] {
		return workflow.NewScreen(string(guard.ScreenAnalytics), "", func(ctx context.Context) (AnalyticsView, bool, error) {
			var (
				stats Stats
				users []identity.Identity
			)
			err := workflow.FetchAll(ctx,
				func(ctx context.Context) error {
					var err error
					stats, err = s.backend.DashboardStats(ctx, sess.Token)
					return err
				},
				func(ctx context.Context) error {
					var err error
					users, err = s.backend.ListUsers(ctx, sess.Token)
					return err
				},
			)
			return BuildAnalytics(stats, users), true, err
		}, s.events)
	})
	return screen.Load(ctx)
}

func profileOf(stats Stats, fallback identity.Identity) identity.Identity {
	if stats.MyProfile != nil && stats.MyProfile.Valid() {
		return *stats.MyProfile
	}
	return fallback
}

func MetricsFor(role identity.Role, stats Stats) []Metric {
	switch role {
	case identity.RoleHR:
		return []Metric{
			{Label: "Total Users", Value: deref(stats.TotalUsers)},
			{Label: "Total Interns", Value: deref(stats.TotalInterns)},
			{Label: "Total Employees", Value: deref(stats.TotalEmployees)},
		}
	case identity.RoleEmployee:
		return []Metric{{Label: "Interns Under Me", Value: deref(stats.TotalInternsUnderMe)}}
	case identity.RoleIntern:
		return []Metric{{Label: "Internship Progress", Value: deref(stats.InternshipProgress), Unit: "%"}}
	default:
		return []Metric{}
	}
}

func RowsFor(kind TableKind, users []identity.Identity, self identity.Identity) []Row {
	if kind == TableOwnProfile {
		return []Row{rowOf(self)}
	}
	rows := make([]Row, 0, len(users))
	for _, user := range users {
		if kind == TableSupervisedInterns && user.Role != identity.RoleIntern {
			continue
		}
		rows = append(rows, rowOf(user))
	}
	return rows
}

func rowOf(user identity.Identity) Row {
	joined := user.CreatedAt
	if date, _, ok := strings.Cut(joined, "T"); ok {
		joined = date
	}
	return Row{
		ID:     user.ID,
		Name:   user.FullName,
		Email:  user.Email,
		Role:   user.Role,
		Phone:  user.PhoneNumber,
		Joined: joined,
	}
}

func HRContacts(users []identity.Identity) []Contact {
	contacts := make([]Contact, 0)
	for _, user := range users {
		if user.Role != identity.RoleHR {
			continue
		}
		contacts = append(contacts, Contact{
			Name:           user.FullName,
			Email:          user.Email,
			Phone:          user.PhoneNumber,
			OfficeLocation: user.OfficeLocation,
			Departments:    user.DepartmentsOverseen,
		})
	}
	return contacts
}

func BuildAnalytics(stats Stats, users []identity.Identity) AnalyticsView {
	counts := map[identity.Role]int{}
	departments := map[string]int{}
	for _, user := range users {
		counts[user.Role]++
		if dept := strings.TrimSpace(user.Department); dept != "" {
			departments[dept]++
		}
	}
	total := len(users)
	view := AnalyticsView{
		TotalUsers:     total,
		TotalInterns:   counts[identity.RoleIntern],
		TotalEmployees: counts[identity.RoleEmployee],
		RoleDistribution: []Share{
			share("Interns", counts[identity.RoleIntern], total),
			share("Employees", counts[identity.RoleEmployee], total),
			share("HR Managers", counts[identity.RoleHR], total),
		},
		Departments:    make([]Share, 0, len(departments)),
		RecentActivity: make([]Row, 0, stats.RecentActivity.Len()),
	}
	deptTotal := 0
	for _, n := range departments {
		deptTotal += n
	}
	for name, n := range departments {
		view.Departments = append(view.Departments, share(name, n, deptTotal))
	}
	sort.Slice(view.Departments, func(i, j int) bool {
		if view.Departments[i].Value == view.Departments[j].Value {
			return view.Departments[i].Name < view.Departments[j].Name
		}
		return view.Departments[i].Value > view.Departments[j].Value
	})
	for _, user := range stats.RecentActivity.Items() {
		view.RecentActivity = append(view.RecentActivity, rowOf(user))
	}
	return view
}

func share(name string, value, total int) Share {
	s := Share{Name: name, Value: value}
	if total > 0 {
		s.Percent = math.Round(float64(value)*1000/float64(total)) / 10
	}
	return s
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
