package employee

import (
	"fmt"
	"strconv"
	"strings"
)

const employeeIDPrefix = "EMP"

// NextEmployeeID derives the next sequential employee id from the highest
// one assigned so far. The suffix is zero-padded to three digits and grows
// naturally past 999. Concurrent creations are not coordinated here; the
// unique index on employees.employee_id turns a race into a conflict.
func NextEmployeeID(latest string) string {
	if latest == "" {
		return employeeIDPrefix + "001"
	}
	suffix := strings.TrimPrefix(latest, employeeIDPrefix)
	number, err := strconv.Atoi(suffix)
	if err != nil {
		return employeeIDPrefix + "001"
	}
	return fmt.Sprintf("%s%03d", employeeIDPrefix, number+1)
}
