package spreadsheet

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidDate  = errors.New("must be a date (YYYY-MM-DD)")
	ErrInvalidClock = errors.New("must be a time (HH:MM)")
	ErrInvalidMonth = errors.New("must be a month (YYYY-MM)")
)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "02/01/2006", "2-Jan-2006", "02-Jan-06"}

// ParseDate accepts ISO dates, a few common written forms and Excel serial numbers.
func ParseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || serial < 1 {
		return time.Time{}, ErrInvalidDate
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseClock accepts "HH:MM", "HH:MM:SS" or an Excel day fraction and returns "HH:MM".
func ParseClock(cell string) (string, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format("15:04"), nil
		}
	}
	fraction, err := strconv.ParseFloat(cell, 64)
	if err != nil || fraction < 0 || fraction >= 1 {
		return "", ErrInvalidClock
	}
	minutes := int(math.Round(fraction * 24 * 60))
	if minutes == 24*60 {
		minutes = 0
	}
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04"), nil
}

// ParseMonth accepts "YYYY-MM", "YYYY/MM" or a date cell and returns "YYYY-MM".
func ParseMonth(cell string) (string, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range []string{"2006-01", "2006/01", "Jan 2006", "January 2006"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Format("2006-01"), nil
		}
	}
	if t, err := ParseDate(cell); err == nil {
		return t.Format("2006-01"), nil
	}
	return "", ErrInvalidMonth
}
