package payroll

import (
	"strings"

	"hrportal/internal/domain/workflow"
)

const (
	ScreenName   = "payroll"
	EmptyMessage = "No payroll information available yet."

	SalaryTypeMonthly = "Monthly"
	SalaryTypeOneTime = "One-time"

	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"
)

type Payment struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Status      string  `json:"status"`
	SlipURL     string  `json:"slip_url"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

type Record struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	SalaryType      string                     `json:"salary_type"`
	Amount          float64                    `json:"amount"`
	PaymentSchedule string                     `json:"payment_schedule"`
	BankAccount     *string                    `json:"bank_account"`
	PaymentHistory  workflow.Optional[Payment] `json:"payment_history"`
	CreatedAt       string                     `json:"created_at,omitempty"`
}

func (r Record) Present() bool {
	return strings.TrimSpace(r.ID) != ""
}

// CreateRequest is the body of a new payroll record.
type CreateRequest struct {
	UserID          string  `json:"user_id"`
	SalaryType      string  `json:"salary_type"`
	Amount          float64 `json:"amount"`
	PaymentSchedule string  `json:"payment_schedule"`
	BankAccount     string  `json:"bank_account"`
}

type PaymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Status      string  `json:"status"`
}

type Money struct {
	Raw      float64 `json:"raw"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Text     string  `json:"text"`
}

type PaymentView struct {
	ID          string `json:"id"`
	Amount      Money  `json:"amount"`
	PaymentDate string `json:"paymentDate"`
	Status      string `json:"status"`
}

type View struct {
	SalaryType      string                         `json:"salaryType"`
	Amount          Money                          `json:"amount"`
	PaymentSchedule string                         `json:"paymentSchedule"`
	BankAccount     string                         `json:"bankAccount"`
	Payments        workflow.Optional[PaymentView] `json:"payments"`
}
