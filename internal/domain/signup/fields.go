package signup

import "hrportal/internal/domain/identity"

type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

const DefaultLanguage = "English"

var commonFields = []Field{
	{Name: "full_name", Label: "Full Name", Type: "text", Required: true},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "phone_number", Label: "Phone Number", Type: "tel", Required: true},
	{Name: "date_of_birth", Label: "Date of Birth", Type: "date", Required: true},
	{Name: "password", Label: "Password", Type: "password", Required: true},
	{Name: "confirm_password", Label: "Confirm Password", Type: "password", Required: true},
	{Name: "gender", Label: "Gender", Type: "select"},
	{Name: "address", Label: "Address", Type: "textarea", Required: true},
	{Name: "preferred_language", Label: "Preferred Language", Type: "select"},
}

var roleFields = map[identity.Role][]Field{
	identity.RoleIntern: {
		{Name: "educational_institution", Label: "Educational Institution", Type: "text", Required: true},
		{Name: "current_year_semester", Label: "Current Year/Semester", Type: "text", Required: true},
		{Name: "major_field_of_study", Label: "Major/Field of Study", Type: "text", Required: true},
		{Name: "area_of_interest", Label: "Area of Interest", Type: "text", Required: true},
		{Name: "internship_start_date", Label: "Internship Start Date", Type: "date", Required: true},
		{Name: "internship_end_date", Label: "Internship End Date", Type: "date", Required: true},
		{Name: "mentor_assigned", Label: "Mentor Assigned", Type: "text"},
	},
	identity.RoleEmployee: {
		{Name: "employee_id", Label: "Employee ID", Type: "text"},
		{Name: "department", Label: "Department", Type: "text", Required: true},
		{Name: "designation", Label: "Designation", Type: "text", Required: true},
		{Name: "joining_date", Label: "Joining Date", Type: "date", Required: true},
		{Name: "reporting_manager", Label: "Reporting Manager", Type: "text"},
		{Name: "skills_expertise", Label: "Skills/Expertise", Type: "text", Required: true},
		{Name: "bank_account_details", Label: "Bank Account Details", Type: "text"},
	},
	identity.RoleHR: {
		{Name: "hr_access_level", Label: "HR Access Level", Type: "select", Required: true},
		{Name: "departments_overseen", Label: "Departments Overseen", Type: "text", Required: true},
		{Name: "work_experience", Label: "Work Experience", Type: "text", Required: true},
		{Name: "certifications", Label: "Certifications", Type: "text"},
		{Name: "office_location", Label: "Office Location", Type: "text", Required: true},
	},
}

func CommonFields() []Field {
	out := make([]Field, len(commonFields))
	copy(out, commonFields)
	return out
}

func RoleFields(role identity.Role) []Field {
	fields := roleFields[role]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func isRoleField(role identity.Role, name string) bool {
	for _, f := range roleFields[role] {
		if f.Name == name {
			return true
		}
	}
	return false
}

func isCommonField(name string) bool {
	for _, f := range commonFields {
		if f.Name == name {
			return true
		}
	}
	return false
}
