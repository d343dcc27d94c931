package holiday

import (
	"context"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

// HolidayService is the read-only holiday lookup shared by rostering and attendance.
type HolidayService interface {
	GetHolidays(ctx context.Context, year int) ([]HolidayResponse, error)
	CalendarFor(ctx context.Context, month period.Month) (Calendar, error)
	// ReloadCalendarFor reads the stored calendar, bypassing the cache, and refreshes the cached year.
	ReloadCalendarFor(ctx context.Context, month period.Month) (Calendar, error)
	Refresh(ctx context.Context) error
}
