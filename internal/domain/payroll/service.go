package payroll

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"hrportal/internal/domain/session"
	"hrportal/internal/domain/workflow"
)

var (
	ErrNoPayroll       = errors.New("no payroll record")
	ErrPaymentNotFound = errors.New("payment not found")
)

type Backend interface {
	Payroll(ctx context.Context, token, userID string) (Record, error)
}

type Service struct {
	backend Backend
	rate    DisplayRate
	events  workflow.LoadRecorder
}

func NewService(backend Backend, rate DisplayRate, events workflow.LoadRecorder) *Service {
	return &Service{backend: backend, rate: rate, events: events}
}

func (s *Service) Rate() DisplayRate {
	return s.rate
}

func (s *Service) Open(ctx context.Context, ws *workflow.Workspace, sess session.Session) (workflow.State[View], error) {
	screen := workflow.Enter(ws, ScreenName, func() *workflow.Screen[View] {
		return workflow.NewScreen(ScreenName, EmptyMessage, func(ctx context.Context) (View, bool, error) {
			record, err := s.backend.Payroll(ctx, sess.Token, sess.Identity.ID)
			if err != nil {
				return View{}, false, err
			}
			if !record.Present() {
				return View{}, false, nil
			}
			return BuildView(record, s.rate), true, nil
		}, s.events)
	})
	return screen.Load(ctx)
}

// Slip renders the PDF slip of one of the session user's payments.
func (s *Service) Slip(ctx context.Context, sess session.Session, paymentID string) ([]byte, error) {
	record, err := s.backend.Payroll(ctx, sess.Token, sess.Identity.ID)
	if err != nil {
		if workflow.IsUnauthorized(err) {
			return nil, workflow.ErrSessionInvalid
		}
		return nil, err
	}
	if !record.Present() {
		return nil, ErrNoPayroll
	}
	for _, payment := range record.PaymentHistory.Items() {
		if payment.ID == paymentID {
			return RenderSlip(sess.Identity, record, payment, s.rate)
		}
	}
	return nil, ErrPaymentNotFound
}

// CreateDraft is the HR form for a new payroll record. Amount arrives as typed.
type CreateDraft struct {
	SalaryType      string `json:"salary_type"`
	Amount          string `json:"amount"`
	PaymentSchedule string `json:"payment_schedule"`
	BankAccount     string `json:"bank_account"`
}

func DefaultCreateDraft() CreateDraft {
	return CreateDraft{SalaryType: SalaryTypeMonthly, PaymentSchedule: SalaryTypeMonthly}
}

// Request validates the draft and builds the create body for userID.
func (d CreateDraft) Request(userID string) (CreateRequest, error) {
	if strings.TrimSpace(d.Amount) == "" || strings.TrimSpace(d.BankAccount) == "" {
		return CreateRequest{}, workflow.Invalid("Please fill all required fields")
	}
	amount, err := parsePositive(d.Amount)
	if err != nil {
		return CreateRequest{}, &workflow.ValidationError{
			Message: "Please fill all required fields",
			Fields:  []workflow.FieldIssue{{Field: "amount", Reason: "must be a number greater than zero"}},
		}
	}
	salaryType := strings.TrimSpace(d.SalaryType)
	if salaryType == "" {
		salaryType = SalaryTypeMonthly
	}
	schedule := strings.TrimSpace(d.PaymentSchedule)
	if schedule == "" {
		schedule = SalaryTypeMonthly
	}
	return CreateRequest{
		UserID:          userID,
		SalaryType:      salaryType,
		Amount:          amount,
		PaymentSchedule: schedule,
		BankAccount:     strings.TrimSpace(d.BankAccount),
	}, nil
}

type PaymentDraft struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
	Status      string `json:"status"`
}

func (d PaymentDraft) Request() (PaymentRequest, error) {
	if strings.TrimSpace(d.Amount) == "" {
		return PaymentRequest{}, workflow.Invalid("Please enter payment amount")
	}
	amount, err := parsePositive(d.Amount)
	if err != nil {
		return PaymentRequest{}, &workflow.ValidationError{
			Message: "Please enter payment amount",
			Fields:  []workflow.FieldIssue{{Field: "amount", Reason: "must be a number greater than zero"}},
		}
	}
	v := workflow.NewValidator()
	v.Date("payment_date", d.PaymentDate)
	if err := v.Err("Please correct the highlighted fields"); err != nil {
		return PaymentRequest{}, err
	}
	status := strings.TrimSpace(d.Status)
	if status == "" {
		status = PaymentStatusPaid
	}
	return PaymentRequest{Amount: amount, PaymentDate: strings.TrimSpace(d.PaymentDate), Status: status}, nil
}

func parsePositive(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, errors.New("must be positive")
	}
	return value, nil
}
