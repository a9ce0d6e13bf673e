package payroll

import (
	"context"
	"time"
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create builds, derives and persists one payroll record for an
// (employee, month, year) period. The compound unique index is the
// authoritative duplicate guard; the pre-insert existence check only
// produces the friendlier error on the common path.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Record, error) {
	exists, err := s.store.EmployeeExists(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	taken, err := s.store.ExistsForPeriod(ctx, in.EmployeeID, in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicatePeriod
	}

	rec := Record{
		EmployeeID:    in.EmployeeID,
		Month:         in.Month,
		Year:          in.Year,
		BaseSalary:    *in.BaseSalary,
		OvertimeHours: in.OvertimeHours,
		OvertimeRate:  DefaultOvertimeRate,
		Bonus:         in.Bonus,
		Deductions:    in.Deductions,
		Status:        StatusPending,
		PaymentMethod: MethodBankTransfer,
		PaymentDate:   s.now(),
	}
	if in.OvertimeRate != nil {
		rec.OvertimeRate = *in.OvertimeRate
	}
	if in.PaymentMethod != "" {
		rec.PaymentMethod = in.PaymentMethod
	}
	if in.PaymentDate != "" {
		parsed, err := parseDate(in.PaymentDate)
		if err == nil {
			rec.PaymentDate = parsed
		}
	}
	if rec.Deductions == nil {
		rec.Deductions = []Deduction{}
	}
	Compute(&rec)

	if err := s.store.Create(ctx, &rec); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, rec.ID)
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeRecordID string) ([]Record, error) {
	return s.store.ListForEmployee(ctx, employeeRecordID)
}

// UpdateStatus enforces the forward-only status machine before persisting.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Record, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(rec.Status, status) {
		return nil, ErrInvalidTransition
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	rec.Status = status
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
