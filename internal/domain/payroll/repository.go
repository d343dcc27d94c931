package payroll

import (
	"context"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

// PayrollRepository stores approved payroll lines.
type PayrollRepository interface {
	// UpsertLines writes lines keyed by (employee_id, salary_month); re-approval overwrites.
	UpsertLines(ctx context.Context, lines []PayrollLine) error
	ListApproved(ctx context.Context, month period.Month, plantID *string) ([]PayrollLine, error)
}
