package deduction

import (
	"context"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type DeductionRepository interface {
	// Upsert writes records keyed by (kind, employee_no, month); an existing amount is replaced.
	Upsert(ctx context.Context, records []Record) error
	ListByMonth(ctx context.Context, kind Kind, month period.Month) ([]Record, error)
}
