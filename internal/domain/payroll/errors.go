package payroll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrPayrollLineNotFound = errors.New("payroll line not found")
	ErrIncompleteProfile   = errors.New("employee payroll profile is incomplete")
	ErrInconsistentLine    = errors.New("payroll line totals do not add up")
	ErrNegativeAmount      = errors.New("payroll amounts must not be negative")
	ErrNegativeNetPay      = errors.New("net pay is negative")
	ErrSubCentAmount       = errors.New("amounts must have at most two decimal places")
	ErrDuplicateEmployee   = errors.New("employee appears more than once for the same month")
	ErrEmptyBatch          = errors.New("no salaries to approve")
	ErrNoApprovedSalaries  = errors.New("no approved salaries for this month")
)

// IncompleteProfileError lists the profile fields an employee is missing.
type IncompleteProfileError struct {
	EmployeeID string
	EmpNo      string
	Fields     []string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("employee %s has an incomplete payroll profile: missing %s", e.EmpNo, strings.Join(e.Fields, ", "))
}

func (e *IncompleteProfileError) Unwrap() error { return ErrIncompleteProfile }

// InconsistentLineError names the total that does not match its components.
type InconsistentLineError struct {
	EmployeeID string
	Field      string
	Submitted  decimal.Decimal
	Expected   decimal.Decimal
}

func (e *InconsistentLineError) Error() string {
	return fmt.Sprintf("employee %s: %s is %s but its components add up to %s",
		e.EmployeeID, e.Field, e.Submitted.StringFixed(2), e.Expected.StringFixed(2))
}

func (e *InconsistentLineError) Unwrap() error { return ErrInconsistentLine }

// LineError ties a line-level failure to its employee.
type LineError struct {
	EmployeeID string
	Field      string
	Err        error
}

func (e *LineError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("employee %s: %v", e.EmployeeID, e.Err)
	}
	return fmt.Sprintf("employee %s: %s: %v", e.EmployeeID, e.Field, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
