package payroll

// TotalDeductions sums the deduction amounts of a record.
func TotalDeductions(deductions []Deduction) float64 {
	var total float64
	for _, d := range deductions {
		total += d.Amount
	}
	return total
}

// OvertimePay values overtime hours at the hourly rate implied by the
// base salary over a 160-hour month, scaled by the overtime multiplier.
func OvertimePay(baseSalary, overtimeHours, overtimeRate float64) float64 {
	return overtimeHours * (baseSalary / StandardMonthlyHours) * overtimeRate
}

// Compute refreshes the derived fields of a record from its inputs. It is
// called on every write that touches base salary, overtime, bonus or
// deductions, never just at creation.
func Compute(rec *Record) {
	rec.TotalDeductions = TotalDeductions(rec.Deductions)
	overtime := OvertimePay(rec.BaseSalary, rec.OvertimeHours, rec.OvertimeRate)
	rec.NetSalary = rec.BaseSalary + overtime + rec.Bonus - rec.TotalDeductions
}
