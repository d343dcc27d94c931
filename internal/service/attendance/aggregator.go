package attendance

import (
	"sort"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/money"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// SummaryInput is everything one plant month summary is computed from.
type SummaryInput struct {
	Month     period.Month
	Employees []employee.Employee
	Roster    []roster.Assignment
	Entries   []attendance.Entry
	// LeaveDays holds approved leave days inside the month by employee id.
	LeaveDays map[string]decimal.Decimal
	// Approved holds the employee ids with an approved record for the month.
	Approved map[string]bool
	Calendar holiday.Calendar
	Shifts   config.ShiftPolicy
}

type entryKey struct {
	employeeID string
	date       string
	shift      roster.Shift
}

type tally struct {
	summary      attendance.Summary
	holidayDates map[string]bool
	entries      int
	rejected     int
}

// Summarize folds roster seats and stored entries into one summary per employee. A stored
// entry replaces the roster seat of the same employee, date and shift. The result depends
// only on the input and is sorted by employee number.
func Summarize(in SummaryInput) []attendance.Summary {
	effective := make(map[entryKey]attendance.Entry)
	for _, a := range in.Roster {
		if !in.Month.Contains(a.Date) {
			continue
		}
		key := entryKey{a.EmployeeID, period.FormatDate(a.Date), a.Shift}
		effective[key] = attendance.Entry{
			EmployeeID: a.EmployeeID,
			PlantID:    a.PlantID,
			Date:       a.Date,
			Shift:      a.Shift,
			Status:     attendance.StatusPending,
			Source:     attendance.SourceRoster,
		}
	}
	for _, e := range in.Entries {
		if !in.Month.Contains(e.Date) {
			continue
		}
		effective[entryKey{e.EmployeeID, period.FormatDate(e.Date), e.Shift}] = e
	}

	directory := make(map[string]employee.Employee, len(in.Employees))
	for _, e := range in.Employees {
		directory[e.ID] = e
	}

	tallies := make(map[string]*tally)
	get := func(id string) *tally {
		t, ok := tallies[id]
		if !ok {
			emp := directory[id]
			t = &tally{
				summary: attendance.Summary{
					EmployeeID:        id,
					EmpNo:             emp.EmpNo,
					Name:              emp.Name,
					UserType:          emp.UserType,
					TotalOTHours:      decimal.Zero,
					TotalPayableHours: decimal.Zero,
					HolidayHours:      decimal.Zero,
					LeaveDays:         decimal.Zero,
				},
				holidayDates: make(map[string]bool),
			}
			tallies[id] = t
		}
		return t
	}

	for _, e := range effective {
		t := get(e.EmployeeID)
		t.entries++
		if e.Status == attendance.StatusRejected {
			t.rejected++
			continue
		}
		window, ok := in.Shifts.ByName(string(e.Shift))
		if !ok {
			continue
		}

		s := &t.summary
		s.TotalShifts++
		switch e.Shift {
		case roster.ShiftMorning:
			s.MorningShifts++
		case roster.ShiftDay:
			s.DayShifts++
		case roster.ShiftNight:
			s.NightShifts++
			s.HolidayHours = s.HolidayHours.Add(in.Shifts.NightBonusHours)
		}
		s.TotalPayableHours = s.TotalPayableHours.Add(window.Hours)
		s.TotalOTHours = s.TotalOTHours.Add(overtime(e.InTime, e.OutTime, window.Hours))

		if in.Calendar.IsHoliday(e.Date) {
			s.HolidayHours = s.HolidayHours.Add(window.Hours)
			t.holidayDates[period.FormatDate(e.Date)] = true
		}
	}

	for id, days := range in.LeaveDays {
		if days.IsPositive() {
			get(id).summary.LeaveDays = days
		}
	}
	for id := range in.Approved {
		get(id)
	}

	summaries := make([]attendance.Summary, 0, len(tallies))
	for id, t := range tallies {
		s := t.summary
		s.TotalDOT = len(t.holidayDates)
		s.TotalOTHours = money.Round2(s.TotalOTHours)
		switch {
		case in.Approved[id]:
			s.Status = attendance.StatusApproved
		case t.entries > 0 && t.rejected == t.entries:
			s.Status = attendance.StatusRejected
		default:
			s.Status = attendance.StatusPending
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].EmpNo != summaries[j].EmpNo {
			return summaries[i].EmpNo < summaries[j].EmpNo
		}
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}

// overtime is the time worked beyond the nominal shift length. An out time earlier than the
// in time means the shift crossed midnight.
func overtime(in, out string, nominal decimal.Decimal) decimal.Decimal {
	if in == "" || out == "" {
		return decimal.Zero
	}
	start, err := time.Parse("15:04", in)
	if err != nil {
		return decimal.Zero
	}
	end, err := time.Parse("15:04", out)
	if err != nil {
		return decimal.Zero
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}

	worked := decimal.NewFromInt(int64(end.Sub(start) / time.Minute)).Div(decimal.NewFromInt(60))
	extra := worked.Sub(nominal)
	if !extra.IsPositive() {
		return decimal.Zero
	}
	return extra
}
