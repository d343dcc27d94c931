package payroll

import (
	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Inputs are the quantities one payroll line is derived from.
type Inputs struct {
	PlantID string
	Role    string

	BasicSalary   decimal.Decimal
	OTHours       decimal.Decimal
	DOTDays       decimal.Decimal
	HolidayDays   decimal.Decimal
	NoPayDays     decimal.Decimal
	LeaveDays     decimal.Decimal
	SalaryArrears decimal.Decimal
	Loan          decimal.Decimal
	TelephoneBill decimal.Decimal
}

// Calculator turns Inputs into payroll amounts under a pay policy.
type Calculator struct {
	policy config.PayPolicy
}

func NewCalculator(policy config.PayPolicy) Calculator {
	return Calculator{policy: policy}
}

type rates struct {
	hourly, daily    decimal.Decimal
	ot, dot, holiday decimal.Decimal
}

func (c Calculator) rates(in Inputs) rates {
	days := decimal.NewFromInt(int64(c.policy.StandardDaysInMonth))
	r := rates{
		daily:   in.BasicSalary.Div(days),
		ot:      c.policy.Multipliers.OT,
		dot:     c.policy.Multipliers.DOT,
		holiday: c.policy.Multipliers.Holiday,
	}

	o, ok := c.policy.OverrideFor(in.PlantID, in.Role)
	if ok && o.DailyRate != nil {
		r.daily = *o.DailyRate
	}
	r.hourly = r.daily.Div(c.policy.StandardHoursPerDay)
	if !ok {
		return r
	}
	if o.HourlyRate != nil {
		r.hourly = *o.HourlyRate
	}
	if o.OTMultiplier != nil {
		r.ot = *o.OTMultiplier
	}
	if o.DOTMultiplier != nil {
		r.dot = *o.DOTMultiplier
	}
	if o.HolidayMultiplier != nil {
		r.holiday = *o.HolidayMultiplier
	}
	return r
}

// Compute fills every amount of a line. Each component is rounded before it is summed,
// so net pay is exactly gross minus total deductions.
func (c Calculator) Compute(in Inputs) payroll.PayrollLine {
	r := c.rates(in)
	days := decimal.NewFromInt(int64(c.policy.StandardDaysInMonth))
	fixed := c.policy.FixedDeductions

	line := payroll.PayrollLine{
		OTHours:       in.OTHours,
		DOTDays:       in.DOTDays,
		HolidayClaims: in.HolidayDays,
		NoPayDays:     in.NoPayDays,
		LeaveDays:     in.LeaveDays,

		BasicSalary:        money.Round2(in.BasicSalary),
		OTAmount:           money.Round2(r.hourly.Mul(r.ot).Mul(in.OTHours)),
		DOTAmount:          money.Round2(r.daily.Mul(r.dot).Mul(in.DOTDays)),
		HolidayClaimAmount: money.Round2(r.daily.Mul(r.holiday).Mul(in.HolidayDays)),
		SalaryArrears:      money.Round2(in.SalaryArrears),

		EPFDeduction:           money.Round2(in.BasicSalary.Mul(c.policy.Statutory.EPF)),
		EmployerEPF:            money.Round2(in.BasicSalary.Mul(c.policy.Statutory.EmployerEPF)),
		ETF:                    money.Round2(in.BasicSalary.Mul(c.policy.Statutory.ETF)),
		NoPayDeduction:         money.Round2(in.BasicSalary.Div(days).Mul(in.NoPayDays)),
		LoanDeduction:          money.Round2(in.Loan),
		TelephoneBillDeduction: money.Round2(in.TelephoneBill),
		WelfareDeduction:       money.Round2(fixed.Welfare),
		InsuranceDeduction:     money.Round2(fixed.Insurance),

		Status: payroll.PayrollStatusPending,
	}

	line.GrossSalary = money.Sum(line.Earnings()...)
	if fixed.Stamp.IsPositive() && line.GrossSalary.GreaterThanOrEqual(fixed.StampThreshold) {
		line.StampDeduction = money.Round2(fixed.Stamp)
	}
	line.TotalDeductions = money.Sum(line.Deductions()...)
	line.NetPay = line.GrossSalary.Sub(line.TotalDeductions)
	return line
}

// CheckConsistency recomputes the totals of a submitted line from its own components.
// Amounts are already whole cents (see CheckAmounts), so every total must match exactly.
func CheckConsistency(l payroll.PayrollLine) error {
	gross := money.Sum(l.Earnings()...)
	if !l.GrossSalary.Equal(gross) {
		return &payroll.InconsistentLineError{EmployeeID: l.EmployeeID, Field: "gross_salary", Submitted: l.GrossSalary, Expected: gross}
	}
	total := money.Sum(l.Deductions()...)
	if !l.TotalDeductions.Equal(total) {
		return &payroll.InconsistentLineError{EmployeeID: l.EmployeeID, Field: "total_deductions", Submitted: l.TotalDeductions, Expected: total}
	}
	net := l.GrossSalary.Sub(l.TotalDeductions)
	if !l.NetPay.Equal(net) {
		return &payroll.InconsistentLineError{EmployeeID: l.EmployeeID, Field: "net_pay", Submitted: l.NetPay, Expected: net}
	}
	return nil
}

// CheckAmounts rejects negative components and any amount finer than a cent.
func CheckAmounts(l payroll.PayrollLine) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"basic_salary", l.BasicSalary},
		{"ot_amount", l.OTAmount},
		{"dot_amount", l.DOTAmount},
		{"holiday_claim_amount", l.HolidayClaimAmount},
		{"salary_arrears", l.SalaryArrears},
		{"epf_deduction", l.EPFDeduction},
		{"employer_epf", l.EmployerEPF},
		{"etf", l.ETF},
		{"no_pay_deduction", l.NoPayDeduction},
		{"loan_deduction", l.LoanDeduction},
		{"telephone_bill_deduction", l.TelephoneBillDeduction},
		{"stamp_deduction", l.StampDeduction},
		{"welfare_deduction", l.WelfareDeduction},
		{"insurance_deduction", l.InsuranceDeduction},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &payroll.LineError{EmployeeID: l.EmployeeID, Field: f.name, Err: payroll.ErrNegativeAmount}
		}
	}
	fields = append(fields, []struct {
		name  string
		value decimal.Decimal
	}{
		{"gross_salary", l.GrossSalary},
		{"total_deductions", l.TotalDeductions},
		{"net_pay", l.NetPay},
	}...)
	for _, f := range fields {
		if !f.value.Equal(money.Round2(f.value)) {
			return &payroll.LineError{EmployeeID: l.EmployeeID, Field: f.name, Err: payroll.ErrSubCentAmount}
		}
	}
	if l.NetPay.IsNegative() {
		return &payroll.LineError{EmployeeID: l.EmployeeID, Field: "net_pay", Err: payroll.ErrNegativeNetPay}
	}
	return nil
}
