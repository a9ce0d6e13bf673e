package employee

var Departments = []string{"IT", "HR", "Finance", "Marketing", "Sales", "Operations"}

func ValidDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}
