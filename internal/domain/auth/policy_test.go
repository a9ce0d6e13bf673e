package auth

import "testing"

func TestCanReadEmployee(t *testing.T) {
	admin := UserContext{UserID: "u1", Role: RoleAdmin}
	self := UserContext{UserID: "u2", Role: RoleEmployee, EmployeeID: "e1"}
	other := UserContext{UserID: "u3", Role: RoleEmployee, EmployeeID: "e2"}
	unlinked := UserContext{UserID: "u4", Role: RoleEmployee}

	if !CanReadEmployee(admin, "e1") {
		t.Fatal("expected admin to read any employee")
	}
	if !CanReadEmployee(self, "e1") {
		t.Fatal("expected employee to read own record")
	}
	if CanReadEmployee(other, "e1") {
		t.Fatal("expected cross-employee read to be denied")
	}
	if CanReadEmployee(unlinked, "") {
		t.Fatal("expected account without employee link to be denied")
	}
}

func TestCanUpdateEmployeeMirrorsRead(t *testing.T) {
	self := UserContext{UserID: "u2", Role: RoleEmployee, EmployeeID: "e1"}
	if !CanUpdateEmployee(self, "e1") {
		t.Fatal("expected employee to update own record")
	}
	if CanUpdateEmployee(self, "e2") {
		t.Fatal("expected update of another record to be denied")
	}
}

func TestCanReadPayroll(t *testing.T) {
	admin := UserContext{UserID: "u1", Role: RoleAdmin}
	self := UserContext{UserID: "u2", Role: RoleEmployee, EmployeeID: "e1"}

	if !CanReadPayroll(admin, "e9") {
		t.Fatal("expected admin to read any payroll")
	}
	if !CanReadPayroll(self, "e1") {
		t.Fatal("expected employee to read own payroll")
	}
	if CanReadPayroll(self, "e9") {
		t.Fatal("expected payroll of another employee to be denied")
	}
}
