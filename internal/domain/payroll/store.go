package payroll

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `
    p.id, p.employee_id, p.month, p.year, p.base_salary, p.overtime_hours,
    p.overtime_rate, p.bonus, COALESCE(p.deductions, '[]'::jsonb),
    p.total_deductions, p.net_salary, p.payment_date, p.status, p.payment_method,
    p.created_at, p.updated_at,
    e.employee_id, e.first_name, e.last_name`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) EmployeeExists(ctx context.Context, employeeRecordID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", employeeRecordID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ExistsForPeriod(ctx context.Context, employeeRecordID string, month, year int) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payrolls
    WHERE employee_id = $1 AND month = $2 AND year = $3
  `, employeeRecordID, month, year).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Create(ctx context.Context, rec *Record) error {
	deductionsJSON, err := json.Marshal(rec.Deductions)
	if err != nil {
		return err
	}

	err = s.DB.QueryRow(ctx, `
    INSERT INTO payrolls (employee_id, month, year, base_salary, overtime_hours,
      overtime_rate, bonus, deductions, total_deductions, net_salary, payment_date,
      status, payment_method)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id, created_at, updated_at
  `,
		rec.EmployeeID, rec.Month, rec.Year, rec.BaseSalary, rec.OvertimeHours,
		rec.OvertimeRate, rec.Bonus, deductionsJSON, rec.TotalDeductions, rec.NetSalary,
		rec.PaymentDate, rec.Status, rec.PaymentMethod,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicatePeriod
			case "23503":
				return ErrEmployeeNotFound
			}
		}
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM payrolls p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.id = $1
  `, id)
	return scanRecord(row)
}

func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM payrolls p
    JOIN employees e ON p.employee_id = e.id
    ORDER BY p.year DESC, p.month DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Store) ListForEmployee(ctx context.Context, employeeRecordID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+recordColumns+`
    FROM payrolls p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.employee_id = $1
    ORDER BY p.year DESC, p.month DESC
  `, employeeRecordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE payrolls SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM payrolls WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var ref EmployeeRef
	var deductionsJSON []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Month, &rec.Year, &rec.BaseSalary, &rec.OvertimeHours,
		&rec.OvertimeRate, &rec.Bonus, &deductionsJSON, &rec.TotalDeductions, &rec.NetSalary,
		&rec.PaymentDate, &rec.Status, &rec.PaymentMethod, &rec.CreatedAt, &rec.UpdatedAt,
		&ref.EmployeeID, &ref.FirstName, &ref.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(deductionsJSON, &rec.Deductions); err != nil {
		return nil, err
	}
	ref.ID = rec.EmployeeID
	rec.Employee = &ref
	return &rec, nil
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
