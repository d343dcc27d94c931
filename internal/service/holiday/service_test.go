package holiday

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolidayRepo struct {
	explicit map[int][]holiday.Holiday
	rules    []holiday.Rule
	loads    atomic.Int32
	err      error
}

func (f *fakeHolidayRepo) ListByYear(_ context.Context, year int) ([]holiday.Holiday, error) {
	f.loads.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.explicit[year], nil
}

func (f *fakeHolidayRepo) ListRules(context.Context) ([]holiday.Rule, error) {
	return f.rules, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{
		explicit: map[int][]holiday.Holiday{
			2025: {
				{Date: date(2025, 7, 10), Name: "Esala Full Moon Poya Day", Type: holiday.TypePoya},
				{Date: date(2025, 2, 4), Name: "National Day", Type: holiday.TypePublic},
			},
		},
		rules: []holiday.Rule{
			{ID: "r1", Name: "Independence Day", Type: holiday.TypeCustom, Recurrence: "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=4", StartsOn: date(2000, 2, 4)},
			{ID: "r2", Name: "Broken", Type: holiday.TypeCustom, Recurrence: "FREQ=SOMETIMES", StartsOn: date(2000, 1, 1)},
		},
	}
}

// ===== HOLIDAY SERVICE TESTS =====

func TestHolidayService_GetHolidays(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newRepo())

	got, err := svc.GetHolidays(context.Background(), 2025)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-02-04", got[0].Date)
	assert.Equal(t, "National Day", got[0].Name, "explicit holidays win over rule occurrences")
	assert.Equal(t, holiday.TypePublic, got[0].Type)
	assert.Equal(t, "2025-07-10", got[1].Date)
}

func TestHolidayService_GetHolidays_RuleOnlyYear(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newRepo())

	got, err := svc.GetHolidays(context.Background(), 2026)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-02-04", got[0].Date)
	assert.Equal(t, holiday.TypeCustom, got[0].Type)
}

func TestHolidayService_GetHolidays_InvalidYear(t *testing.T) {
	t.Parallel()
	svc := NewHolidayService(newRepo())

	_, err := svc.GetHolidays(context.Background(), 99)

	assert.ErrorIs(t, err, holiday.ErrInvalidYear)
}

func TestHolidayService_CalendarFor_CachesYear(t *testing.T) {
	t.Parallel()
	repo := newRepo()
	svc := NewHolidayService(repo)
	july := period.Month{Year: 2025, Month: time.July}

	cal, err := svc.CalendarFor(context.Background(), july)
	require.NoError(t, err)
	_, err = svc.CalendarFor(context.Background(), period.Month{Year: 2025, Month: time.December})
	require.NoError(t, err)

	assert.True(t, cal.IsHoliday(july.Date(10)))
	assert.False(t, cal.IsHoliday(july.Date(11)))
	assert.Equal(t, int32(1), repo.loads.Load())
}

func TestHolidayService_ReloadCalendarFor_SeesHolidayAddedAfterCacheFill(t *testing.T) {
	t.Parallel()
	repo := newRepo()
	svc := NewHolidayService(repo)
	july := period.Month{Year: 2025, Month: time.July}

	_, err := svc.CalendarFor(context.Background(), july)
	require.NoError(t, err)
	repo.explicit[2025] = append(repo.explicit[2025], holiday.Holiday{Date: date(2025, 7, 4), Name: "Plant Shutdown", Type: holiday.TypeCustom})

	cached, err := svc.CalendarFor(context.Background(), july)
	require.NoError(t, err)
	assert.False(t, cached.IsHoliday(date(2025, 7, 4)))

	fresh, err := svc.ReloadCalendarFor(context.Background(), july)
	require.NoError(t, err)
	h, ok := fresh.Lookup(date(2025, 7, 4))
	require.True(t, ok)
	assert.Equal(t, "Plant Shutdown", h.Name)
	assert.EqualValues(t, 2, repo.loads.Load())

	after, err := svc.CalendarFor(context.Background(), july)
	require.NoError(t, err)
	assert.True(t, after.IsHoliday(date(2025, 7, 4)), "reload replaces the cached year")
	assert.EqualValues(t, 2, repo.loads.Load())
}

func TestHolidayService_Refresh(t *testing.T) {
	t.Parallel()
	repo := newRepo()
	svc := NewHolidayService(repo)
	svc.now = func() time.Time { return date(2026, 1, 15) }

	_, err := svc.CalendarFor(context.Background(), period.Month{Year: 2025, Month: time.July})
	require.NoError(t, err)

	repo.explicit[2025] = append(repo.explicit[2025], holiday.Holiday{Date: date(2025, 7, 11), Name: "Special", Type: holiday.TypeCustom})
	require.NoError(t, svc.Refresh(context.Background()))

	cal, err := svc.CalendarFor(context.Background(), period.Month{Year: 2025, Month: time.July})
	require.NoError(t, err)
	assert.True(t, cal.IsHoliday(date(2025, 7, 11)))
	assert.Equal(t, int32(3), repo.loads.Load(), "first load plus 2025 and 2026 on refresh")
}

func TestHolidayService_Refresh_KeepsCacheOnError(t *testing.T) {
	t.Parallel()
	repo := newRepo()
	svc := NewHolidayService(repo)
	svc.now = func() time.Time { return date(2025, 3, 1) }

	_, err := svc.CalendarFor(context.Background(), period.Month{Year: 2025, Month: time.July})
	require.NoError(t, err)

	repo.err = errors.New("connection refused")
	assert.Error(t, svc.Refresh(context.Background()))

	cal, err := svc.CalendarFor(context.Background(), period.Month{Year: 2025, Month: time.July})
	require.NoError(t, err)
	assert.Equal(t, 2, cal.Len())
}
