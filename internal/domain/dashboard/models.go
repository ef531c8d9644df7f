package dashboard

import (
	"hrportal/internal/domain/identity"
	"hrportal/internal/domain/workflow"
)

// Stats is the union of the per-role shapes of /api/dashboard/stats.
type Stats struct {
	TotalUsers          *int                                 `json:"total_users,omitempty"`
	TotalInterns        *int                                 `json:"total_interns,omitempty"`
	TotalEmployees      *int                                 `json:"total_employees,omitempty"`
	RecentActivity      workflow.Optional[identity.Identity] `json:"recent_activity"`
	TotalInternsUnderMe *int                                 `json:"total_interns_under_me,omitempty"`
	Interns             workflow.Optional[identity.Identity] `json:"interns"`
	MyProfile           *identity.Identity                   `json:"my_profile,omitempty"`
	InternshipProgress  *int                                 `json:"internship_progress,omitempty"`
}

type Metric struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type Row struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Role   identity.Role `json:"role"`
	Phone  string        `json:"phone"`
	Joined string        `json:"joined"`
}

type View struct {
	Layout  Layout            `json:"layout"`
	Profile identity.Identity `json:"profile"`
	Metrics []Metric          `json:"metrics"`
	Rows    []Row             `json:"rows"`
}

type Contact struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	OfficeLocation string `json:"officeLocation,omitempty"`
	Departments    string `json:"departmentsOverseen,omitempty"`
}

type ContactsView struct {
	Contacts []Contact `json:"contacts"`
}

type Share struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Percent float64 `json:"percentage"`
}

type AnalyticsView struct {
	TotalUsers       int     `json:"totalUsers"`
	TotalInterns     int     `json:"totalInterns"`
	TotalEmployees   int     `json:"totalEmployees"`
	RoleDistribution []Share `json:"roleDistribution"`
	Departments      []Share `json:"departmentDistribution"`
	RecentActivity   []Row   `json:"recentActivity"`
}
