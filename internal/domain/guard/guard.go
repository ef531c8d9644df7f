package guard

import "hrportal/internal/domain/session"

type Screen string

const (
	ScreenRoot         Screen = "root"
	ScreenLogin        Screen = "login"
	ScreenSignup       Screen = "signup"
	ScreenDashboard    Screen = "dashboard"
	ScreenAttendance   Screen = "attendance"
	ScreenOnboarding   Screen = "onboarding"
	ScreenPayroll      Screen = "payroll"
	ScreenPerformance  Screen = "performance"
	ScreenHRManagement Screen = "hr-management"
	ScreenHRDirectory  Screen = "hr-directory"
	ScreenAnalytics    Screen = "analytics"
	ScreenProfile      Screen = "profile"
)

const LoginPath = "/login"

// CanEnter reports whether sess may open screen. Root never opens; it always sends the
// visitor to login.
func CanEnter(screen Screen, sess *session.Session) bool {
	switch screen {
	case ScreenLogin, ScreenSignup:
		return true
	case ScreenRoot:
		return false
	default:
		return sess != nil
	}
}
