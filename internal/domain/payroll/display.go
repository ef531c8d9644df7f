package payroll

import (
	"fmt"
	"math"
	"strings"

	"hrportal/internal/domain/workflow"
)

// DisplayRate converts raw backend amounts into the currency shown to users. The rate
// is configured per deployment; 1 shows amounts unchanged.
type DisplayRate struct {
	Rate     float64
	Currency string
}

func (d DisplayRate) Convert(raw float64) Money {
	rate := d.Rate
	if rate <= 0 {
		rate = 1
	}
	amount := math.Round(raw*rate*100) / 100
	return Money{
		Raw:      raw,
		Amount:   amount,
		Currency: d.Currency,
		Text:     strings.TrimSpace(fmt.Sprintf("%s %s", d.Currency, formatAmount(amount))),
	}
}

func formatAmount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.2f", v)
	intPart, frac, _ := strings.Cut(whole, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// MaskAccount keeps at most the last four characters of an account number.
func MaskAccount(account *string) string {
	if account == nil {
		return ""
	}
	runes := []rune(strings.TrimSpace(*account))
	if len(runes) == 0 {
		return ""
	}
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	return "****" + string(runes)
}

func BuildView(record Record, rate DisplayRate) View {
	view := View{
		SalaryType:      record.SalaryType,
		Amount:          rate.Convert(record.Amount),
		PaymentSchedule: record.PaymentSchedule,
		BankAccount:     MaskAccount(record.BankAccount),
	}
	if record.PaymentHistory.Present() {
		payments := make([]PaymentView, 0, record.PaymentHistory.Len())
		for _, p := range record.PaymentHistory.Items() {
			payments = append(payments, PaymentView{
				ID:          p.ID,
				Amount:      rate.Convert(p.Amount),
				PaymentDate: p.PaymentDate,
				Status:      p.Status,
			})
		}
		view.Payments = workflow.Some(payments...)
	}
	return view
}
