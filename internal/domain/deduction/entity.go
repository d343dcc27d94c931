package deduction

import (
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// Kind separates the two monthly deduction tables that share one shape.
type Kind string

const (
	KindLoan          Kind = "loan"
	KindTelephoneBill Kind = "telephone_bill"
)

func (k Kind) Valid() bool {
	return k == KindLoan || k == KindTelephoneBill
}

// Record is one monthly deduction for an employee, unique per (kind, employee_no, month).
type Record struct {
	ID         string
	Kind       Kind
	EmployeeNo string
	Amount     decimal.Decimal
	Month      period.Month
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Lookup holds one month of deductions by employee number. Missing entries read as zero.
type Lookup map[string]decimal.Decimal

func NewLookup(records []Record) Lookup {
	l := make(Lookup, len(records))
	for _, r := range records {
		l[r.EmployeeNo] = l[r.EmployeeNo].Add(r.Amount)
	}
	return l
}

func (l Lookup) Amount(empNo string) decimal.Decimal {
	return l[empNo]
}
