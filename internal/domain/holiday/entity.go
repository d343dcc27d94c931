package holiday

import (
	"fmt"
	"sort"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/teambition/rrule-go"
)

type Type string

const (
	TypePoya   Type = "Poya"
	TypePublic Type = "Public"
	TypeCustom Type = "Custom"
)

// Holiday is a non-working date. No shift may be assigned on it.
type Holiday struct {
	Date time.Time
	Name string
	Type Type
}

// Rule is a recurring holiday, e.g. "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=4" for Independence Day.
type Rule struct {
	ID         string
	Name       string
	Type       Type
	Recurrence string
	StartsOn   time.Time
	EndsOn     *time.Time
}

// Occurrences expands the rule inside [from, to], both calendar days.
func (r Rule) Occurrences(from, to time.Time) ([]Holiday, error) {
	opt, err := rrule.StrToROption(r.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("holiday rule %s: %w", r.Name, err)
	}
	opt.Dtstart = period.Day(r.StartsOn)
	if r.EndsOn != nil {
		opt.Until = period.Day(*r.EndsOn)
	}
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("holiday rule %s: %w", r.Name, err)
	}

	dates := rule.Between(period.Day(from), period.Day(to), true)
	holidays := make([]Holiday, 0, len(dates))
	for _, d := range dates {
		holidays = append(holidays, Holiday{Date: period.Day(d), Name: r.Name, Type: r.Type})
	}
	return holidays, nil
}

// Calendar answers "is this date a holiday" for a set of holidays. The zero value is empty.
type Calendar struct {
	byDate map[string]Holiday
}

// NewCalendar indexes holidays by date. When two share a date the first wins.
func NewCalendar(holidays ...[]Holiday) Calendar {
	c := Calendar{byDate: make(map[string]Holiday)}
	for _, list := range holidays {
		for _, h := range list {
			key := period.FormatDate(h.Date)
			if _, exists := c.byDate[key]; exists {
				continue
			}
			h.Date = period.Day(h.Date)
			c.byDate[key] = h
		}
	}
	return c
}

func (c Calendar) Lookup(date time.Time) (Holiday, bool) {
	h, ok := c.byDate[period.FormatDate(date)]
	return h, ok
}

func (c Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.Lookup(date)
	return ok
}

func (c Calendar) Len() int {
	return len(c.byDate)
}

// Between returns the holidays inside [from, to] in date order.
func (c Calendar) Between(from, to time.Time) []Holiday {
	from, to = period.Day(from), period.Day(to)
	var out []Holiday
	for _, h := range c.byDate {
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

func (h Holiday) ToResponse() HolidayResponse {
	return HolidayResponse{Date: period.FormatDate(h.Date), Name: h.Name, Type: h.Type}
}
