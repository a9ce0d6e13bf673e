package payroll

import "errors"

var (
	ErrNotFound          = errors.New("payroll record not found")
	ErrEmployeeNotFound  = errors.New("payroll employee not found")
	ErrDuplicatePeriod   = errors.New("payroll already exists for this employee and period")
	ErrInvalidStatus     = errors.New("invalid payroll status")
	ErrInvalidTransition = errors.New("invalid payroll status transition")
)
