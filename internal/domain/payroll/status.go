package payroll

// Records move strictly forward: pending -> processed -> paid. No skips,
// no reverts.
var statusNext = map[string]string{
	StatusPending:   StatusProcessed,
	StatusProcessed: StatusPaid,
}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func CanTransition(from, to string) bool {
	return statusNext[from] == to
}
