package deduction

import "errors"

var (
	ErrInvalidKind     = errors.New("unknown deduction kind")
	ErrUnknownEmployee = errors.New("employee_no not found")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrDuplicateInFile = errors.New("employee_no and month already appear earlier in the file")
)
