package attendance

import (
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var Statuses = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}

// Source tells where an entry came from.
type Source string

const (
	SourceRoster Source = "roster"
	SourceManual Source = "manual"
	SourceUpload Source = "upload"
)

// Entry is one worked (or claimed) shift. Manual and uploaded entries are stored; roster
// entries are derived from the committed roster and never stored here.
type Entry struct {
	ID         string
	EmployeeID string
	PlantID    string
	Date       time.Time
	Shift      roster.Shift
	InTime     string
	OutTime    string
	Status     Status
	Source     Source
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Summary is the monthly roll-up for one employee. It is always recomputed, never edited.
type Summary struct {
	EmployeeID        string
	EmpNo             string
	Name              string
	UserType          employee.UserType
	TotalShifts       int
	MorningShifts     int
	DayShifts         int
	NightShifts       int
	TotalOTHours      decimal.Decimal
	TotalDOT          int
	TotalPayableHours decimal.Decimal
	HolidayHours      decimal.Decimal
	LeaveDays         decimal.Decimal
	Status            Status
}

// Record is an approved monthly attendance record. Executive records use TotalDaysWorked and
// HolidayClaims; non-executive records use the shift counts, OTHours and DOTDays.
type Record struct {
	ID              string
	EmployeeID      string
	PlantID         string
	UserType        employee.UserType
	Year            int
	SalaryMonth     int
	TotalDaysWorked decimal.Decimal
	HolidayClaims   decimal.Decimal
	Shift1          int
	Shift2          int
	Shift3          int
	OTHours         decimal.Decimal
	DOTDays         int
	NoPayDays       decimal.Decimal
	LeaveDays       decimal.Decimal
	Status          Status
	ApprovedBy      *string
	ApprovedAt      time.Time
}
