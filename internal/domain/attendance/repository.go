package attendance

import (
	"context"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type AttendanceRepository interface {
	// UpsertEntry inserts or replaces the entry keyed by (employee, date, shift).
	UpsertEntry(ctx context.Context, entry Entry) (Entry, error)
	ListEntries(ctx context.Context, plantID string, month period.Month) ([]Entry, error)

	// UpsertRecords writes approved records keyed by (employee, plant, year, salary_month).
	UpsertRecords(ctx context.Context, records []Record) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
}
