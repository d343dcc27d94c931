package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/deduction"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepository{db: db}
}

// Upsert implements deduction.DeductionRepository. A re-uploaded (kind, employee_no, month) replaces the amount.
func (r *deductionRepository) Upsert(ctx context.Context, records []deduction.Record) error {
	if len(records) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	const cols = 5
	args := make([]interface{}, 0, len(records)*cols)
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = newID()
		}
		args = append(args, id, string(rec.Kind), rec.EmployeeNo, rec.Amount, rec.Month.Start())
	}

	query := `
		INSERT INTO deductions (id, kind, employee_no, amount, month)
		VALUES ` + valuesList(len(records), cols) + `
		ON CONFLICT (kind, employee_no, month) DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert %s deductions: %w", records[0].Kind, err)
	}
	return nil
}

// ListByMonth implements deduction.DeductionRepository.
func (r *deductionRepository) ListByMonth(ctx context.Context, kind deduction.Kind, month period.Month) ([]deduction.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, kind, employee_no, amount, month, created_at, updated_at
		FROM deductions
		WHERE kind = $1 AND month = $2
		ORDER BY employee_no
	`
	rows, err := q.Query(ctx, query, string(kind), month.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s deductions: %w", kind, err)
	}
	defer rows.Close()

	var records []deduction.Record
	for rows.Next() {
		var rec deduction.Record
		var m time.Time
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.EmployeeNo, &rec.Amount, &m, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Month = period.Of(m)
		records = append(records, rec)
	}
	return records, rows.Err()
}
