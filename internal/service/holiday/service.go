package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

// HolidayServiceImpl caches one calendar per year. Explicit holidays win over rule
// occurrences on the same date.
type HolidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
	now         func() time.Time

	mu    sync.RWMutex
	years map[int]holiday.Calendar
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) *HolidayServiceImpl {
	return &HolidayServiceImpl{
		holidayRepo: holidayRepo,
		now:         time.Now,
		years:       make(map[int]holiday.Calendar),
	}
}

func (s *HolidayServiceImpl) GetHolidays(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	if year < 1900 || year > 9999 {
		return nil, holiday.ErrInvalidYear
	}

	cal, err := s.calendar(ctx, year)
	if err != nil {
		return nil, err
	}

	holidays := cal.Between(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))
	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, h.ToResponse())
	}
	return responses, nil
}

func (s *HolidayServiceImpl) CalendarFor(ctx context.Context, month period.Month) (holiday.Calendar, error) {
	return s.calendar(ctx, month.Year)
}

func (s *HolidayServiceImpl) ReloadCalendarFor(ctx context.Context, month period.Month) (holiday.Calendar, error) {
	cal, err := s.load(ctx, month.Year)
	if err != nil {
		return holiday.Calendar{}, err
	}

	s.mu.Lock()
	s.years[month.Year] = cal
	s.mu.Unlock()
	return cal, nil
}

// Refresh reloads every cached year plus the current one.
func (s *HolidayServiceImpl) Refresh(ctx context.Context) error {
	s.mu.RLock()
	years := make([]int, 0, len(s.years)+1)
	for y := range s.years {
		years = append(years, y)
	}
	s.mu.RUnlock()

	current := s.now().Year()
	if !containsYear(years, current) {
		years = append(years, current)
	}
	sort.Ints(years)

	fresh := make(map[int]holiday.Calendar, len(years))
	for _, y := range years {
		cal, err := s.load(ctx, y)
		if err != nil {
			return err
		}
		fresh[y] = cal
	}

	s.mu.Lock()
	s.years = fresh
	s.mu.Unlock()

	slog.Info("holiday calendar refreshed", "years", years)
	return nil
}

func (s *HolidayServiceImpl) calendar(ctx context.Context, year int) (holiday.Calendar, error) {
	s.mu.RLock()
	cal, ok := s.years[year]
	s.mu.RUnlock()
	if ok {
		return cal, nil
	}

	cal, err := s.load(ctx, year)
	if err != nil {
		return holiday.Calendar{}, err
	}

	s.mu.Lock()
	s.years[year] = cal
	s.mu.Unlock()
	return cal, nil
}

func (s *HolidayServiceImpl) load(ctx context.Context, year int) (holiday.Calendar, error) {
	explicit, err := s.holidayRepo.ListByYear(ctx, year)
	if err != nil {
		return holiday.Calendar{}, fmt.Errorf("failed to load holidays for %d: %w", year, err)
	}

	rules, err := s.holidayRepo.ListRules(ctx)
	if err != nil {
		return holiday.Calendar{}, fmt.Errorf("failed to load holiday rules: %w", err)
	}

	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	var recurring []holiday.Holiday
	for _, r := range rules {
		occurrences, err := r.Occurrences(from, to)
		if err != nil {
			// A broken rule must not hide the rest of the calendar.
			slog.Error("skipping invalid holiday rule", "rule_id", r.ID, "error", err)
			continue
		}
		recurring = append(recurring, occurrences...)
	}

	return holiday.NewCalendar(explicit, recurring), nil
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
