package attendance

import "hrportal/internal/domain/workflow"

const (
	LeaveTypeCasual   = "Casual"
	LeaveTypeSick     = "Sick"
	LeaveTypeVacation = "Vacation"

	LeaveStatusPending  = "Pending"
	LeaveStatusApproved = "Approved"
	LeaveStatusRejected = "Rejected"
)

var LeaveTypes = []string{LeaveTypeCasual, LeaveTypeSick, LeaveTypeVacation}

type CheckState string

const (
	NotCheckedIn CheckState = "NOT_CHECKED_IN"
	CheckedIn    CheckState = "CHECKED_IN"
)

type Record struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Date        string   `json:"date"`
	CheckIn     *string  `json:"check_in"`
	CheckOut    *string  `json:"check_out"`
	Status      string   `json:"status"`
	HoursWorked *float64 `json:"hours_worked"`
}

type Overview struct {
	TotalDays            int                      `json:"total_days"`
	PresentDays          int                      `json:"present_days"`
	LeaveTaken           int                      `json:"leave_taken"`
	TotalHours           float64                  `json:"total_hours"`
	AttendanceRecords    workflow.Optional[Record] `json:"attendance_records"`
	AttendancePercentage float64                  `json:"attendance_percentage"`
}

type Leave struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	LeaveType string `json:"leave_type"`
	Status    string `json:"status"`
	AppliedAt string `json:"applied_at,omitempty"`
}

type LeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	LeaveType string `json:"leave_type"`
}

type CheckOutResult struct {
	Message     string  `json:"message"`
	HoursWorked float64 `json:"hours_worked"`
}

type Controls struct {
	CheckInEnabled  bool `json:"checkInEnabled"`
	CheckOutEnabled bool `json:"checkOutEnabled"`
}

type HoursPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type View struct {
	Overview   Overview     `json:"overview"`
	Leaves     []Leave      `json:"leaves"`
	CheckState CheckState   `json:"checkState"`
	Controls   Controls     `json:"controls"`
	Recent     []HoursPoint `json:"recentHours"`
}
