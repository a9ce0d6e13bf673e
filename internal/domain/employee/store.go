package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/auth"
)

const employeeColumns = `
    id, employee_id, first_name, last_name, email, phone, department, position,
    salary, date_of_birth, date_of_joining,
    COALESCE(address, '{}'::jsonb),
    COALESCE(emergency_contact, '{}'::jsonb),
    COALESCE(skills, '[]'::jsonb),
    COALESCE(education, '[]'::jsonb),
    is_active, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+" FROM employees WHERE id = $1", id)
	return scanEmployee(row)
}

func (s *Store) GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+" FROM employees WHERE employee_id = $1", employeeID)
	return scanEmployee(row)
}

func (s *Store) List(ctx context.Context, filter ListFilter) (ListPage, error) {
	where := ""
	args := []any{}
	if filter.Department != "" {
		args = append(args, filter.Department)
		where += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	page := ListPage{Employees: []Employee{}}
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE true"+where, args...).Scan(&page.Total); err != nil {
		return ListPage{}, err
	}

	query := "SELECT" + employeeColumns + " FROM employees WHERE true" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return ListPage{}, err
		}
		page.Employees = append(page.Employees, *emp)
	}
	return page, rows.Err()
}

// CreateWithAccount inserts the employee together with its login account in
// one transaction, so a failed account insert never leaves an orphaned
// employee. The next EMP id is read inside the same transaction; the unique
// index on employee_id is the backstop if two creations race.
func (s *Store) CreateWithAccount(ctx context.Context, emp Employee, passwordHash string) (*Employee, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var latest string
	err = tx.QueryRow(ctx, `
    SELECT employee_id
    FROM employees
    ORDER BY length(employee_id) DESC, employee_id DESC
    LIMIT 1
  `).Scan(&latest)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	emp.EmployeeID = NextEmployeeID(latest)

	addressJSON, contactJSON, skillsJSON, educationJSON, err := marshalEmployeeDocs(emp)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
    INSERT INTO employees (employee_id, first_name, last_name, email, phone, department,
      position, salary, date_of_birth, date_of_joining, address, emergency_contact,
      skills, education, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id, created_at, updated_at
  `,
		emp.EmployeeID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Department,
		emp.Position, emp.Salary, emp.DateOfBirth, emp.DateOfJoining, addressJSON, contactJSON,
		skillsJSON, educationJSON, emp.IsActive,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id)
    VALUES ($1,$2,$3,$4)
  `, emp.Email, passwordHash, auth.RoleEmployee, emp.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) Update(ctx context.Context, id string, emp Employee) error {
	addressJSON, contactJSON, skillsJSON, educationJSON, err := marshalEmployeeDocs(emp)
	if err != nil {
		return err
	}

	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1,
        last_name = $2,
        email = $3,
        phone = $4,
        department = $5,
        position = $6,
        salary = $7,
        date_of_birth = $8,
        date_of_joining = $9,
        address = $10,
        emergency_contact = $11,
        skills = $12,
        education = $13,
        is_active = $14,
        updated_at = now()
    WHERE id = $15
  `,
		emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Department, emp.Position,
		emp.Salary, emp.DateOfBirth, emp.DateOfJoining, addressJSON, contactJSON,
		skillsJSON, educationJSON, emp.IsActive, id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the employee and its linked account in one transaction.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM users WHERE employee_id = $1", id); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	var addressJSON, contactJSON, skillsJSON, educationJSON []byte
	err := row.Scan(
		&emp.ID, &emp.EmployeeID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.Department, &emp.Position, &emp.Salary, &emp.DateOfBirth, &emp.DateOfJoining,
		&addressJSON, &contactJSON, &skillsJSON, &educationJSON,
		&emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &emp.Address); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(contactJSON, &emp.EmergencyContact); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skillsJSON, &emp.Skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(educationJSON, &emp.Education); err != nil {
		return nil, err
	}
	return &emp, nil
}

func marshalEmployeeDocs(emp Employee) (address, contact, skills, education []byte, err error) {
	if address, err = json.Marshal(emp.Address); err != nil {
		return nil, nil, nil, nil, err
	}
	if contact, err = json.Marshal(emp.EmergencyContact); err != nil {
		return nil, nil, nil, nil, err
	}
	if emp.Skills == nil {
		emp.Skills = []string{}
	}
	if skills, err = json.Marshal(emp.Skills); err != nil {
		return nil, nil, nil, nil, err
	}
	if emp.Education == nil {
		emp.Education = []Education{}
	}
	if education, err = json.Marshal(emp.Education); err != nil {
		return nil, nil, nil, nil, err
	}
	return address, contact, skills, education, nil
}
