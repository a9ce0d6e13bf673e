package employee

import "time"

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        int    `json:"year,omitempty"`
}

type Employee struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employeeId"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Department       string           `json:"department"`
	Position         string           `json:"position"`
	Salary           float64          `json:"salary"`
	DateOfBirth      time.Time        `json:"dateOfBirth"`
	DateOfJoining    time.Time        `json:"dateOfJoining"`
	Address          Address          `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Skills           []string         `json:"skills"`
	Education        []Education      `json:"education"`
	IsActive         bool             `json:"isActive"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ListFilter narrows the admin employee listing.
type ListFilter struct {
	Department string
	IsActive   *bool
	Limit      int
	Offset     int
}

// ListPage is one page of the employee listing plus the total match count.
type ListPage struct {
	Employees []Employee `json:"employees"`
	Total     int        `json:"totalEmployees"`
}
