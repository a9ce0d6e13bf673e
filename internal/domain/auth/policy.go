package auth

// Access rules for employee records: admins see and change everything,
// employees only their own record. Field-level restrictions for
// self-updates live in the employee package.

func IsAdmin(user UserContext) bool {
	return user.Role == RoleAdmin
}

func CanReadEmployee(user UserContext, employeeRecordID string) bool {
	if user.Role == RoleAdmin {
		return true
	}
	return user.EmployeeID != "" && user.EmployeeID == employeeRecordID
}

func CanUpdateEmployee(user UserContext, employeeRecordID string) bool {
	return CanReadEmployee(user, employeeRecordID)
}

func CanReadPayroll(user UserContext, employeeRecordID string) bool {
	return CanReadEmployee(user, employeeRecordID)
}
