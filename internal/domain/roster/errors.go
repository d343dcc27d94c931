package roster

import (
	"errors"
	"fmt"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

var (
	ErrHolidayBlocked     = errors.New("shift assignment blocked by holiday")
	ErrHolidayConflict    = errors.New("roster has assignments on a holiday")
	ErrSupervisorRequired = errors.New("please assign a supervisor first")
	ErrDoubleBooked       = errors.New("employee already assigned to this shift")
	ErrSlotOutOfRange     = errors.New("date is outside the roster month")
	ErrInvalidShift       = errors.New("shift must be one of: Morning, Day, Night")
	ErrRoleMismatch       = errors.New("employee role does not match the assignment")
	ErrEmptyRoster        = errors.New("no roster data to save")
)

// HolidayError names the holiday that blocked an assignment or a commit.
type HolidayError struct {
	Holiday holiday.Holiday
	Err     error
}

func (e *HolidayError) Error() string {
	return fmt.Sprintf("cannot assign shifts on %s (%s - %s) as it is a holiday",
		period.FormatDate(e.Holiday.Date), e.Holiday.Name, e.Holiday.Type)
}

func (e *HolidayError) Unwrap() error { return e.Err }

// DoubleBookingError names the employee and slot that is already taken.
type DoubleBookingError struct {
	EmployeeID string
	Date       time.Time
	Shift      Shift
	// PlantID is set when the clash is with another plant's roster.
	PlantID string
}

func (e *DoubleBookingError) Error() string {
	where := ""
	if e.PlantID != "" {
		where = " at plant " + e.PlantID
	}
	return fmt.Sprintf("employee %s is already assigned to %s %s%s", e.EmployeeID, period.FormatDate(e.Date), e.Shift, where)
}

func (e *DoubleBookingError) Unwrap() error { return ErrDoubleBooked }

// RoleMismatchError is returned when a laborer is put in the supervisor seat or the other way round.
type RoleMismatchError struct {
	EmployeeID string
	Want       string
	Got        string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("employee %s has role %s, %s required", e.EmployeeID, e.Got, e.Want)
}

func (e *RoleMismatchError) Unwrap() error { return ErrRoleMismatch }
