package payroll

import (
	"fmt"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== QUERY DTOs ==========

type ComputeSalariesRequest struct {
	Month   string
	PlantID *string
}

func validateMonthQuery(month string, plantID *string) (period.Month, error) {
	var errs validator.ValidationErrors
	m, err := period.Parse(month)
	if err != nil {
		errs.Add("month", err.Error())
	}
	if plantID != nil && !validator.IsValidUUID(*plantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	return m, errs.OrNil()
}

func (r ComputeSalariesRequest) Validate() (period.Month, error) {
	return validateMonthQuery(r.Month, r.PlantID)
}

type ListApprovedRequest struct {
	Month   string
	PlantID *string
}

func (r ListApprovedRequest) Validate() (period.Month, error) {
	return validateMonthQuery(r.Month, r.PlantID)
}

type ExportRequest struct {
	Month   string
	PlantID *string
}

func (r ExportRequest) Validate() (period.Month, error) {
	return validateMonthQuery(r.Month, r.PlantID)
}

// BankFileResult describes a written bank file. Skipped lists employee numbers left out for
// missing bank details; Padded lists those written with zero-padded bank details.
// Rejected lists lines left out because a value did not fit its column.
type BankFileResult struct {
	Filename string
	Lines    int
	Skipped  []string
	Padded   []string
	Rejected []RejectedLine
}

// RejectedLine names the employee and the bank file field that overflowed.
type RejectedLine struct {
	EmpNo string
	Field string
}

func (r RejectedLine) String() string {
	return r.EmpNo + ":" + r.Field
}

// ========== APPROVAL DTOs ==========

// PayrollLineInput is one submitted salary snapshot. Absent amounts read as zero.
type PayrollLineInput struct {
	EmployeeID   string       `json:"employee_id"`
	EmpNo        string       `json:"emp_no,omitempty"`
	EmployeeName string       `json:"employee_name,omitempty"`
	SalaryMonth  period.Month `json:"salary_month"`

	OTHours       decimal.Decimal `json:"ot_hours"`
	DOTDays       decimal.Decimal `json:"dot_days"`
	HolidayClaims decimal.Decimal `json:"holiday_claims"`
	NoPayDays     decimal.Decimal `json:"no_pay_days"`
	LeaveDays     decimal.Decimal `json:"leave_days"`

	BasicSalary        decimal.Decimal `json:"basic_salary"`
	OTAmount           decimal.Decimal `json:"ot_amount"`
	DOTAmount          decimal.Decimal `json:"dot_amount"`
	HolidayClaimAmount decimal.Decimal `json:"holiday_claim_amount"`
	SalaryArrears      decimal.Decimal `json:"salary_arrears"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`

	EPFDeduction           decimal.Decimal `json:"epf_deduction"`
	EmployerEPF            decimal.Decimal `json:"employer_epf"`
	ETF                    decimal.Decimal `json:"etf"`
	NoPayDeduction         decimal.Decimal `json:"no_pay_deduction"`
	LoanDeduction          decimal.Decimal `json:"loan_deduction"`
	TelephoneBillDeduction decimal.Decimal `json:"telephone_bill_deduction"`
	StampDeduction         decimal.Decimal `json:"stamp_deduction"`
	WelfareDeduction       decimal.Decimal `json:"welfare_deduction"`
	InsuranceDeduction     decimal.Decimal `json:"insurance_deduction"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`

	NetPay decimal.Decimal `json:"net_pay"`
}

func (in PayrollLineInput) ToLine() PayrollLine {
	return PayrollLine{
		EmployeeID:             in.EmployeeID,
		SalaryMonth:            in.SalaryMonth,
		OTHours:                in.OTHours,
		DOTDays:                in.DOTDays,
		HolidayClaims:          in.HolidayClaims,
		NoPayDays:              in.NoPayDays,
		LeaveDays:              in.LeaveDays,
		BasicSalary:            in.BasicSalary,
		OTAmount:               in.OTAmount,
		DOTAmount:              in.DOTAmount,
		HolidayClaimAmount:     in.HolidayClaimAmount,
		SalaryArrears:          in.SalaryArrears,
		GrossSalary:            in.GrossSalary,
		EPFDeduction:           in.EPFDeduction,
		NoPayDeduction:         in.NoPayDeduction,
		LoanDeduction:          in.LoanDeduction,
		TelephoneBillDeduction: in.TelephoneBillDeduction,
		StampDeduction:         in.StampDeduction,
		WelfareDeduction:       in.WelfareDeduction,
		InsuranceDeduction:     in.InsuranceDeduction,
		TotalDeductions:        in.TotalDeductions,
		EmployerEPF:            in.EmployerEPF,
		ETF:                    in.ETF,
		NetPay:                 in.NetPay,
		Status:                 PayrollStatusPending,
	}
}

type ApproveSalariesRequest struct {
	Salaries []PayrollLineInput `json:"salaries"`
}

func (r *ApproveSalariesRequest) Validate() error {
	if len(r.Salaries) == 0 {
		return ErrEmptyBatch
	}
	var errs validator.ValidationErrors
	for i, s := range r.Salaries {
		if !validator.IsValidUUID(s.EmployeeID) {
			errs.Add(indexed(i, "employee_id"), "must be a valid UUID")
		}
		if s.SalaryMonth.IsZero() {
			errs.Add(indexed(i, "salary_month"), "is required")
		}
	}
	return errs.OrNil()
}

func indexed(i int, field string) string {
	return fmt.Sprintf("salaries[%d].%s", i, field)
}

type ApproveSalariesResponse struct {
	Approved int      `json:"approved"`
	Months   []string `json:"months"`
}

// ========== RESPONSE DTOs ==========

type PayrollLineResponse struct {
	ID           string            `json:"id,omitempty"`
	EmployeeID   string            `json:"employee_id"`
	EmpNo        *string           `json:"emp_no,omitempty"`
	EmployeeName *string           `json:"employee_name,omitempty"`
	PlantID      string            `json:"plant_id"`
	UserType     employee.UserType `json:"user_type"`
	SalaryMonth  period.Month      `json:"salary_month"`

	OTHours       decimal.Decimal `json:"ot_hours"`
	DOTDays       decimal.Decimal `json:"dot_days"`
	HolidayClaims decimal.Decimal `json:"holiday_claims"`
	NoPayDays     decimal.Decimal `json:"no_pay_days"`
	LeaveDays     decimal.Decimal `json:"leave_days"`

	BasicSalary        decimal.Decimal `json:"basic_salary"`
	OTAmount           decimal.Decimal `json:"ot_amount"`
	DOTAmount          decimal.Decimal `json:"dot_amount"`
	HolidayClaimAmount decimal.Decimal `json:"holiday_claim_amount"`
	SalaryArrears      decimal.Decimal `json:"salary_arrears"`
	GrossSalary        decimal.Decimal `json:"gross_salary"`

	EPFDeduction           decimal.Decimal `json:"epf_deduction"`
	EmployerEPF            decimal.Decimal `json:"employer_epf"`
	ETF                    decimal.Decimal `json:"etf"`
	NoPayDeduction         decimal.Decimal `json:"no_pay_deduction"`
	LoanDeduction          decimal.Decimal `json:"loan_deduction"`
	TelephoneBillDeduction decimal.Decimal `json:"telephone_bill_deduction"`
	StampDeduction         decimal.Decimal `json:"stamp_deduction"`
	WelfareDeduction       decimal.Decimal `json:"welfare_deduction"`
	InsuranceDeduction     decimal.Decimal `json:"insurance_deduction"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`

	NetPay     decimal.Decimal `json:"net_pay"`
	Status     PayrollStatus   `json:"status"`
	ApprovedAt *time.Time      `json:"approved_at,omitempty"`

	MissingProfileFields []string `json:"missing_profile_fields,omitempty"`
}

func (l PayrollLine) ToResponse() PayrollLineResponse {
	return PayrollLineResponse{
		ID:                     l.ID,
		EmployeeID:             l.EmployeeID,
		EmpNo:                  l.EmpNo,
		EmployeeName:           l.EmployeeName,
		PlantID:                l.PlantID,
		UserType:               l.UserType,
		SalaryMonth:            l.SalaryMonth,
		OTHours:                l.OTHours,
		DOTDays:                l.DOTDays,
		HolidayClaims:          l.HolidayClaims,
		NoPayDays:              l.NoPayDays,
		LeaveDays:              l.LeaveDays,
		BasicSalary:            l.BasicSalary,
		OTAmount:               l.OTAmount,
		DOTAmount:              l.DOTAmount,
		HolidayClaimAmount:     l.HolidayClaimAmount,
		SalaryArrears:          l.SalaryArrears,
		GrossSalary:            l.GrossSalary,
		EPFDeduction:           l.EPFDeduction,
		EmployerEPF:            l.EmployerEPF,
		ETF:                    l.ETF,
		NoPayDeduction:         l.NoPayDeduction,
		LoanDeduction:          l.LoanDeduction,
		TelephoneBillDeduction: l.TelephoneBillDeduction,
		StampDeduction:         l.StampDeduction,
		WelfareDeduction:       l.WelfareDeduction,
		InsuranceDeduction:     l.InsuranceDeduction,
		TotalDeductions:        l.TotalDeductions,
		NetPay:                 l.NetPay,
		Status:                 l.Status,
		ApprovedAt:             l.ApprovedAt,
	}
}
