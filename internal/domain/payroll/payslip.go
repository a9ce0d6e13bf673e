package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslip produces a PDF pay statement for a record. The record must
// carry its employee projection.
func RenderPayslip(rec *Record) ([]byte, error) {
	if rec.Employee == nil {
		return nil, fmt.Errorf("payslip requires the employee projection")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", rec.Employee.FirstName, rec.Employee.LastName, rec.Employee.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", time.Month(rec.Month), rec.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s, paid by %s", rec.Status, rec.PaymentMethod))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.2f", rec.BaseSalary))
	pdf.Ln(7)
	overtime := OvertimePay(rec.BaseSalary, rec.OvertimeHours, rec.OvertimeRate)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime: %.2f (%.1f h at rate %.2f)", overtime, rec.OvertimeHours, rec.OvertimeRate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus: %.2f", rec.Bonus))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	if len(rec.Deductions) == 0 {
		pdf.Cell(0, 8, "none")
		pdf.Ln(7)
	}
	for _, d := range rec.Deductions {
		label := d.Kind
		if d.Description != "" {
			label += " - " + d.Description
		}
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.2f", label, d.Amount))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Total deductions: %.2f", rec.TotalDeductions))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Net salary: %.2f", rec.NetSalary))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
