package identity

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
	RoleIntern   Role = "intern"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every role in signup order.
func Roles() []Role {
	return []Role{RoleIntern, RoleEmployee, RoleHR}
}

func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleHR, RoleEmployee, RoleIntern:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// Identity is the user record returned by the backend at login. Role attributes are
// present only for the matching role.
type Identity struct {
	ID                string  `json:"id"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	PhoneNumber       string  `json:"phone_number"`
	Role              Role    `json:"role"`
	ProfilePicture    *string `json:"profile_picture,omitempty"`
	Gender            *string `json:"gender,omitempty"`
	DateOfBirth       string  `json:"date_of_birth,omitempty"`
	Address           string  `json:"address,omitempty"`
	PreferredLanguage string  `json:"preferred_language,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`

	EducationalInstitution string `json:"educational_institution,omitempty"`
	CurrentYearSemester    string `json:"current_year_semester,omitempty"`
	MajorFieldOfStudy      string `json:"major_field_of_study,omitempty"`
	InternshipStartDate    string `json:"internship_start_date,omitempty"`
	InternshipEndDate      string `json:"internship_end_date,omitempty"`
	AreaOfInterest         string `json:"area_of_interest,omitempty"`
	MentorAssigned         string `json:"mentor_assigned,omitempty"`

	EmployeeID       string `json:"employee_id,omitempty"`
	Department       string `json:"department,omitempty"`
	Designation      string `json:"designation,omitempty"`
	JoiningDate      string `json:"joining_date,omitempty"`
	ReportingManager string `json:"reporting_manager,omitempty"`
	SkillsExpertise  string `json:"skills_expertise,omitempty"`

	HRAccessLevel       string `json:"hr_access_level,omitempty"`
	DepartmentsOverseen string `json:"departments_overseen,omitempty"`
	WorkExperience      string `json:"work_experience,omitempty"`
	Certifications      string `json:"certifications,omitempty"`
	OfficeLocation      string `json:"office_location,omitempty"`
}

func (i Identity) Valid() bool {
	return strings.TrimSpace(i.ID) != ""
}
