package deduction

import (
	"context"
	"io"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type DeductionService interface {
	Import(ctx context.Context, kind Kind, filename string, r io.Reader) (ImportResponse, error)
	List(ctx context.Context, kind Kind, month period.Month) ([]RecordResponse, error)
	// Lookup returns the month's amounts by employee number for payroll.
	Lookup(ctx context.Context, kind Kind, month period.Month) (Lookup, error)
}
