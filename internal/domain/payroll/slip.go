package payroll

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"hrportal/internal/domain/identity"
)

// RenderSlip draws a one-page payment slip. Amounts use the display rate so the slip
// matches what the payroll screen shows.
func RenderSlip(user identity.Identity, record Record, payment Payment, rate DisplayRate) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payment Slip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Name: %s", user.FullName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", user.Email))
	pdf.Ln(7)
	if user.EmployeeID != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Employee ID: %s", user.EmployeeID))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Salary type: %s (%s)", record.SalaryType, record.PaymentSchedule))
	pdf.Ln(7)
	if masked := MaskAccount(record.BankAccount); masked != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Bank account: %s", masked))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.Cell(0, 8, fmt.Sprintf("Payment reference: %s", payment.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Payment date: %s", payment.PaymentDate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", payment.Status))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Amount: %s", rate.Convert(payment.Amount).Text))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
