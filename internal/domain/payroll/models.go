package payroll

import "time"

type Deduction struct {
	Kind        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// EmployeeRef is the denormalized employee projection attached to payroll
// reads. Listings carry only the name and EMP number.
type EmployeeRef struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

type Record struct {
	ID              string      `json:"id"`
	EmployeeID      string      `json:"employeeId"`
	Month           int         `json:"month"`
	Year            int         `json:"year"`
	BaseSalary      float64     `json:"baseSalary"`
	OvertimeHours   float64     `json:"overtimeHours"`
	OvertimeRate    float64     `json:"overtimeRate"`
	Bonus           float64     `json:"bonus"`
	Deductions      []Deduction `json:"deductions"`
	TotalDeductions float64     `json:"totalDeductions"`
	NetSalary       float64     `json:"netSalary"`
	PaymentDate     time.Time   `json:"paymentDate"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"paymentMethod"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`

	Employee *EmployeeRef `json:"employee,omitempty"`
}

// CreateInput carries the caller-supplied fields for a new payroll record.
// Pointer fields distinguish "absent, use the default" from an explicit
// zero.
type CreateInput struct {
	EmployeeID    string      `json:"employee"`
	Month         int         `json:"month"`
	Year          int         `json:"year"`
	BaseSalary    *float64    `json:"baseSalary"`
	OvertimeHours float64     `json:"overtimeHours"`
	OvertimeRate  *float64    `json:"overtimeRate"`
	Bonus         float64     `json:"bonus"`
	Deductions    []Deduction `json:"deductions"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentDate   string      `json:"paymentDate"`
}
