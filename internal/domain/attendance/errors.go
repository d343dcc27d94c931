package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound       = errors.New("attendance entry not found")
	ErrIncompleteRecord    = errors.New("attendance record is incomplete")
	ErrInvalidRange        = errors.New("value out of range")
	ErrSalaryMonthMismatch = errors.New("salary month differs from the batch month")
	ErrEmployeeNotInPlant  = errors.New("employee does not belong to this plant")
	ErrWrongUserType       = errors.New("employee has the wrong user type for this batch")
	ErrDuplicateEmployee   = errors.New("employee appears more than once in the batch")
	ErrEmptyBatch          = errors.New("no attendance records to approve")
	ErrInvalidTimeInterval = errors.New("in time and out time must both be set or both be empty")
)

// IncompleteRecordError names the first employee and field that stopped a batch approval.
type IncompleteRecordError struct {
	EmployeeID string
	Field      string
	Reason     error
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("attendance record for employee %s: %s %v", e.EmployeeID, e.Field, e.Reason)
}

// Is lets callers match both ErrIncompleteRecord and the underlying reason.
func (e *IncompleteRecordError) Is(target error) bool {
	return target == ErrIncompleteRecord
}

func (e *IncompleteRecordError) Unwrap() error { return e.Reason }
