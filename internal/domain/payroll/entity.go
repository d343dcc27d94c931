package payroll

import (
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending  PayrollStatus = "Pending"
	PayrollStatusApproved PayrollStatus = "Approved"
)

// PayrollLine is one employee's salary for a month. Every amount is rounded to 2 dp.
type PayrollLine struct {
	ID          string
	EmployeeID  string
	PlantID     string
	SalaryMonth period.Month
	UserType    employee.UserType

	// Inputs the amounts were derived from
	OTHours       decimal.Decimal
	DOTDays       decimal.Decimal
	HolidayClaims decimal.Decimal
	NoPayDays     decimal.Decimal
	LeaveDays     decimal.Decimal

	// Earnings
	BasicSalary        decimal.Decimal
	OTAmount           decimal.Decimal
	DOTAmount          decimal.Decimal
	HolidayClaimAmount decimal.Decimal
	SalaryArrears      decimal.Decimal
	GrossSalary        decimal.Decimal

	// Deductions
	EPFDeduction           decimal.Decimal
	NoPayDeduction         decimal.Decimal
	LoanDeduction          decimal.Decimal
	TelephoneBillDeduction decimal.Decimal
	StampDeduction         decimal.Decimal
	WelfareDeduction       decimal.Decimal
	InsuranceDeduction     decimal.Decimal
	TotalDeductions        decimal.Decimal

	// Employer contributions, not deducted from pay
	EmployerEPF decimal.Decimal
	ETF         decimal.Decimal

	NetPay     decimal.Decimal
	Status     PayrollStatus
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	EmpNo        *string
	EmployeeName *string
}

// Earnings lists the gross components in order.
func (l PayrollLine) Earnings() []decimal.Decimal {
	return []decimal.Decimal{l.BasicSalary, l.OTAmount, l.DOTAmount, l.HolidayClaimAmount, l.SalaryArrears}
}

// Deductions lists the components of TotalDeductions in order.
func (l PayrollLine) Deductions() []decimal.Decimal {
	return []decimal.Decimal{
		l.EPFDeduction,
		l.NoPayDeduction,
		l.LoanDeduction,
		l.TelephoneBillDeduction,
		l.StampDeduction,
		l.WelfareDeduction,
		l.InsuranceDeduction,
	}
}
