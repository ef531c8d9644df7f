package dashboard

import (
	"errors"
	"testing"

	"hrportal/internal/domain/identity"
)

func TestSelectCoversEveryRole(t *testing.T) {
	for _, role := range identity.Roles() {
		layout, err := Select(role)
		if err != nil {
			t.Fatalf("role %s: unexpected error %v", role, err)
		}
		if layout.Variant != role {
			t.Fatalf("role %s: got variant %s", role, layout.Variant)
		}
		if len(layout.NavItems) == 0 {
			t.Fatalf("role %s: empty nav", role)
		}
		for _, label := range []string{NavOverview, NavProfile, NavAttendance, NavOnboarding, NavPayroll, NavPerformance, NavHRContacts} {
			if !layout.HasNav(label) {
				t.Fatalf("role %s: missing nav %q", role, label)
			}
		}
	}
}

func TestSelectRejectsUnknownRole(t *testing.T) {
	_, err := Select(identity.Role("admin"))
	if !errors.Is(err, identity.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	_, err = Select("")
	if !errors.Is(err, identity.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole for empty role, got %v", err)
	}
}

func TestSelectRoleSpecificEntries(t *testing.T) {
	hr, _ := Select(identity.RoleHR)
	if !hr.HasNav(NavAllUsers) || !hr.HasNav(NavAnalytics) || !hr.HasNav(NavHRManagement) {
		t.Fatalf("hr layout missing privileged entries: %+v", hr.NavItems)
	}
	if hr.UploadsAllowed || hr.Table != TableFullRoster {
		t.Fatalf("unexpected hr layout: %+v", hr)
	}

	employee, _ := Select(identity.RoleEmployee)
	if !employee.HasNav(NavMyInterns) || employee.HasNav(NavAllUsers) || employee.Table != TableSupervisedInterns {
		t.Fatalf("unexpected employee layout: %+v", employee)
	}

	intern, _ := Select(identity.RoleIntern)
	if !intern.UploadsAllowed {
		t.Fatal("intern layout must expose upload controls")
	}
	if intern.HasNav(NavAllUsers) || intern.HasNav(NavAnalytics) {
		t.Fatalf("intern layout exposes privileged entries: %+v", intern.NavItems)
	}
	if intern.Table != TableOwnProfile {
		t.Fatalf("unexpected intern table: %s", intern.Table)
	}
}
