package employee

import (
	"encoding/json"
	"errors"
	"testing"
)

func patchOf(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	patch := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(body), &patch); err != nil {
		t.Fatalf("bad patch fixture: %v", err)
	}
	return patch
}

func TestApplyUpdateSelfAllowList(t *testing.T) {
	emp := Employee{Phone: "111", Salary: 4000, Department: "IT"}
	patch := patchOf(t, `{"phone":"555","salary":99999,"department":"Finance","role":"admin"}`)

	if err := ApplyUpdate(&emp, patch, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.Phone != "555" {
		t.Fatalf("expected phone updated to 555, got %s", emp.Phone)
	}
	if emp.Salary != 4000 {
		t.Fatalf("expected salary untouched, got %v", emp.Salary)
	}
	if emp.Department != "IT" {
		t.Fatalf("expected department untouched, got %s", emp.Department)
	}
}

func TestApplyUpdateSelfStructuredFields(t *testing.T) {
	emp := Employee{}
	patch := patchOf(t, `{"address":{"city":"Oslo"},"emergencyContact":{"name":"Kim","phone":"7"},"skills":["go","sql"]}`)

	if err := ApplyUpdate(&emp, patch, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.Address.City != "Oslo" {
		t.Fatalf("expected address applied, got %+v", emp.Address)
	}
	if emp.EmergencyContact.Name != "Kim" {
		t.Fatalf("expected emergency contact applied, got %+v", emp.EmergencyContact)
	}
	if len(emp.Skills) != 2 || emp.Skills[0] != "go" {
		t.Fatalf("expected skills applied, got %v", emp.Skills)
	}
}

func TestApplyUpdateAdminSetsAnything(t *testing.T) {
	emp := Employee{Department: "IT", IsActive: true}
	patch := patchOf(t, `{"department":"Sales","salary":5500,"isActive":false,"dateOfJoining":"2023-02-01"}`)

	if err := ApplyUpdate(&emp, patch, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.Department != "Sales" || emp.Salary != 5500 || emp.IsActive {
		t.Fatalf("expected admin fields applied, got %+v", emp)
	}
	if emp.DateOfJoining.Format("2006-01-02") != "2023-02-01" {
		t.Fatalf("expected joining date applied, got %v", emp.DateOfJoining)
	}
}

func TestApplyUpdateRejectsUnknownDepartment(t *testing.T) {
	emp := Employee{Department: "IT"}
	patch := patchOf(t, `{"department":"Astrology"}`)

	err := ApplyUpdate(&emp, patch, true)
	if err == nil {
		t.Fatal("expected invalid department to be rejected")
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "department" {
		t.Fatalf("expected department field error, got %v", err)
	}
}

func TestApplyUpdateRejectsBadDate(t *testing.T) {
	emp := Employee{}
	patch := patchOf(t, `{"dateOfBirth":"not-a-date"}`)

	if err := ApplyUpdate(&emp, patch, true); err == nil {
		t.Fatal("expected invalid date to be rejected")
	}
}
