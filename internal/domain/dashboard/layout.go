package dashboard

import (
	"fmt"

	"hrportal/internal/domain/guard"
	"hrportal/internal/domain/identity"
)

type TableKind string

const (
	TableFullRoster        TableKind = "full_roster"
	TableSupervisedInterns TableKind = "supervised_interns"
	TableOwnProfile        TableKind = "own_profile"
)

type NavItem struct {
	Label  string       `json:"label"`
	Screen guard.Screen `json:"screen"`
	Path   string       `json:"path"`
}

type Layout struct {
	Variant        identity.Role `json:"variant"`
	NavItems       []NavItem     `json:"navItems"`
	UploadsAllowed bool          `json:"uploadsAllowed"`
	Table          TableKind     `json:"table"`
}

const (
	NavOverview     = "Overview"
	NavProfile      = "My Profile"
	NavAllUsers     = "All Users"
	NavAnalytics    = "Analytics"
	NavHRManagement = "HR Management"
	NavMyInterns    = "My Interns"
	NavAttendance   = "Attendance"
	NavOnboarding   = "Onboarding"
	NavPayroll      = "Payroll"
	NavPerformance  = "Performance"
	NavHRContacts   = "HR Contacts"
)

func commonHead() []NavItem {
	return []NavItem{
		{Label: NavOverview, Screen: guard.ScreenDashboard, Path: "/app/dashboard"},
		{Label: NavProfile, Screen: guard.ScreenProfile, Path: "/app/profile"},
	}
}

func commonTail() []NavItem {
	return []NavItem{
		{Label: NavAttendance, Screen: guard.ScreenAttendance, Path: "/app/attendance"},
		{Label: NavOnboarding, Screen: guard.ScreenOnboarding, Path: "/app/onboarding"},
		{Label: NavPayroll, Screen: guard.ScreenPayroll, Path: "/app/payroll"},
		{Label: NavPerformance, Screen: guard.ScreenPerformance, Path: "/app/performance"},
		{Label: NavHRContacts, Screen: guard.ScreenHRDirectory, Path: "/app/hr-contacts"},
	}
}

// Select maps a role to its dashboard. Every role has a layout; anything else is a
// configuration error and never falls back to a default.
func Select(role identity.Role) (Layout, error) {
	nav := commonHead()
	switch role {
	case identity.RoleHR:
		nav = append(nav,
			NavItem{Label: NavAllUsers, Screen: guard.ScreenDashboard, Path: "/app/dashboard#users"},
			NavItem{Label: NavAnalytics, Screen: guard.ScreenAnalytics, Path: "/app/analytics"},
			NavItem{Label: NavHRManagement, Screen: guard.ScreenHRManagement, Path: "/app/hr"},
		)
		return Layout{Variant: role, NavItems: append(nav, commonTail()...), Table: TableFullRoster}, nil
	case identity.RoleEmployee:
		nav = append(nav, NavItem{Label: NavMyInterns, Screen: guard.ScreenDashboard, Path: "/app/dashboard#interns"})
		return Layout{Variant: role, NavItems: append(nav, commonTail()...), Table: TableSupervisedInterns}, nil
	case identity.RoleIntern:
		return Layout{Variant: role, NavItems: append(nav, commonTail()...), UploadsAllowed: true, Table: TableOwnProfile}, nil
	default:
		return Layout{}, fmt.Errorf("%w: %q", identity.ErrUnknownRole, role)
	}
}

func (l Layout) HasNav(label string) bool {
	for _, item := range l.NavItems {
		if item.Label == label {
			return true
		}
	}
	return false
}
