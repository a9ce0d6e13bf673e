package employee

import (
	"encoding/json"
	"fmt"
	"time"
)

// SelfUpdatableFields is the subset an employee may change on their own
// record. Anything else in a self-update request is dropped silently.
var SelfUpdatableFields = []string{"phone", "address", "emergencyContact", "skills"}

type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ApplyUpdate merges a JSON patch into an employee record. Admins may set
// any known field; non-admins only the self-updatable subset. Unknown keys
// and disallowed fields are ignored rather than rejected, matching the
// update contract of the HTTP API.
func ApplyUpdate(emp *Employee, patch map[string]json.RawMessage, isAdmin bool) error {
	for key, raw := range patch {
		if !isAdmin && !selfUpdatable(key) {
			continue
		}
		if err := applyField(emp, key, raw); err != nil {
			return err
		}
	}
	return nil
}

func selfUpdatable(key string) bool {
	for _, allowed := range SelfUpdatableFields {
		if key == allowed {
			return true
		}
	}
	return false
}

func applyField(emp *Employee, key string, raw json.RawMessage) error {
	switch key {
	case "firstName":
		return decodeField(key, raw, &emp.FirstName)
	case "lastName":
		return decodeField(key, raw, &emp.LastName)
	case "email":
		return decodeField(key, raw, &emp.Email)
	case "phone":
		return decodeField(key, raw, &emp.Phone)
	case "department":
		if err := decodeField(key, raw, &emp.Department); err != nil {
			return err
		}
		if !ValidDepartment(emp.Department) {
			return &FieldError{Field: key, Reason: "must be one of the known departments"}
		}
		return nil
	case "position":
		return decodeField(key, raw, &emp.Position)
	case "salary":
		if err := decodeField(key, raw, &emp.Salary); err != nil {
			return err
		}
		if emp.Salary <= 0 {
			return &FieldError{Field: key, Reason: "must be a positive amount"}
		}
		return nil
	case "dateOfBirth":
		return decodeDateField(key, raw, &emp.DateOfBirth)
	case "dateOfJoining":
		return decodeDateField(key, raw, &emp.DateOfJoining)
	case "address":
		return decodeField(key, raw, &emp.Address)
	case "emergencyContact":
		return decodeField(key, raw, &emp.EmergencyContact)
	case "skills":
		return decodeField(key, raw, &emp.Skills)
	case "education":
		return decodeField(key, raw, &emp.Education)
	case "isActive":
		return decodeField(key, raw, &emp.IsActive)
	}
	return nil
}

func decodeField(field string, raw json.RawMessage, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return &FieldError{Field: field, Reason: "invalid value"}
	}
	return nil
}

func decodeDateField(field string, raw json.RawMessage, target *time.Time) error {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return &FieldError{Field: field, Reason: "must be a date string"}
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return &FieldError{Field: field, Reason: "must be a valid date in YYYY-MM-DD format"}
	}
	*target = parsed
	return nil
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
