package deduction

import (
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/shopspring/decimal"
)

// LoanRow is one row of a loan upload.
type LoanRow struct {
	EmployeeNo string        `csv:"employee_no" validate:"required,emp_no"`
	Amount     numeric.Field `csv:"monthly_loan_amount"`
	Month      string        `csv:"loan_month" validate:"required"`
}

// BillRow is one row of a telephone bill upload.
type BillRow struct {
	EmployeeNo string        `csv:"employee_no" validate:"required,emp_no"`
	Amount     numeric.Field `csv:"bill_amount"`
	Month      string        `csv:"bill_month" validate:"required"`
}

// Row is the kind-independent view of an upload row.
type Row struct {
	EmployeeNo  string
	Amount      numeric.Field
	Month       string
	AmountField string
	MonthField  string
}

func (r LoanRow) Row() Row {
	return Row{EmployeeNo: r.EmployeeNo, Amount: r.Amount, Month: r.Month, AmountField: "monthly_loan_amount", MonthField: "loan_month"}
}

func (r BillRow) Row() Row {
	return Row{EmployeeNo: r.EmployeeNo, Amount: r.Amount, Month: r.Month, AmountField: "bill_amount", MonthField: "bill_month"}
}

type RecordResponse struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	EmployeeNo string          `json:"employee_no"`
	Amount     decimal.Decimal `json:"amount"`
	Month      period.Month    `json:"month"`
}

func (r Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:         r.ID,
		Kind:       r.Kind,
		EmployeeNo: r.EmployeeNo,
		Amount:     r.Amount,
		Month:      r.Month,
	}
}

type ImportResponse = spreadsheet.ImportResult[RecordResponse]
