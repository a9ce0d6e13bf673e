package payroll

const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusPaid      = "paid"

	MethodBankTransfer = "bank_transfer"
	MethodCheck        = "check"
	MethodCash         = "cash"

	DeductionTax       = "tax"
	DeductionInsurance = "insurance"
	DeductionLoan      = "loan"
	DeductionOther     = "other"

	// StandardMonthlyHours is the fixed hour baseline used for the
	// overtime hourly rate. Not configurable.
	StandardMonthlyHours = 160.0

	DefaultOvertimeRate = 1.5
)

var Statuses = []string{StatusPending, StatusProcessed, StatusPaid}

var PaymentMethods = []string{MethodBankTransfer, MethodCheck, MethodCash}

var DeductionKinds = []string{DeductionTax, DeductionInsurance, DeductionLoan, DeductionOther}

func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

func ValidDeductionKind(kind string) bool {
	for _, k := range DeductionKinds {
		if k == kind {
			return true
		}
	}
	return false
}
