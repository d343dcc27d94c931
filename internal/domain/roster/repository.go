package roster

import (
	"context"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type RosterRepository interface {
	ListByMonth(ctx context.Context, plantID string, month period.Month) ([]Assignment, error)
	// ReplaceMonth swaps every assignment of the plant month for the given set.
	ReplaceMonth(ctx context.Context, plantID string, month period.Month, assignments []Assignment) error
	// ReplaceSlot swaps the assignments of one (date, shift) cell.
	ReplaceSlot(ctx context.Context, plantID string, date time.Time, shift Shift, assignments []Assignment) error
	// FindConflicts returns assignments at other plants that take the same employee in the same (date, shift).
	FindConflicts(ctx context.Context, plantID string, assignments []Assignment) ([]Assignment, error)
}
