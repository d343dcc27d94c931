package employee

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidNumber    = errors.New("must be a number")
	ErrInvalidEnum      = errors.New("is not an allowed value")
	ErrInvalidText      = errors.New("invalid text value")
	ErrNoFieldApplied   = errors.New("no payroll profile field was applied")
)

// FieldRejection names one payroll profile edit that was refused.
type FieldRejection struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ProfileEditError is returned when every submitted field of a payroll profile edit was refused.
type ProfileEditError struct {
	Rejected []FieldRejection
}

func (e *ProfileEditError) Error() string {
	parts := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		parts = append(parts, fmt.Sprintf("%s %s", r.Field, r.Message))
	}
	return "payroll profile edit rejected: " + strings.Join(parts, "; ")
}

func (e *ProfileEditError) Unwrap() error { return ErrNoFieldApplied }

// ToMap returns field -> message for the error envelope.
func (e *ProfileEditError) ToMap() map[string]string {
	m := make(map[string]string, len(e.Rejected))
	for _, r := range e.Rejected {
		m[r.Field] = r.Message
	}
	return m
}
