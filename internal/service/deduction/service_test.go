package deduction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/deduction"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployees struct {
	employee.EmployeeRepository
}

func (fakeEmployees) GetByEmpNos(_ context.Context, empNos []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, no := range empNos {
		if no == "E001" || no == "E002" {
			out = append(out, employee.Employee{ID: "id-" + no, EmpNo: no})
		}
	}
	return out, nil
}

type fakeDeductionRepo struct {
	saved  []deduction.Record
	stored []deduction.Record
}

func (f *fakeDeductionRepo) Upsert(_ context.Context, records []deduction.Record) error {
	f.saved = append(f.saved, records...)
	return nil
}

func (f *fakeDeductionRepo) ListByMonth(_ context.Context, kind deduction.Kind, month period.Month) ([]deduction.Record, error) {
	var out []deduction.Record
	for _, r := range f.stored {
		if r.Kind == kind && r.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

var july = period.Month{Year: 2025, Month: time.July}

const loanCSV = `Employee No,Monthly Loan Amount,Loan Month
E001,2500,2025-07
E002,"1,200.50",July 2025
E404,100,2025-07
E001,abc,2025-07
E001,300,2025/07
E002,-5,2025-07
`

// ===== IMPORT TESTS =====

func TestDeductionService_ImportLoans(t *testing.T) {
	t.Parallel()
	repo := &fakeDeductionRepo{}
	svc := NewDeductionService(repo, fakeEmployees{}, numeric.Strict)

	result, err := svc.Import(context.Background(), deduction.KindLoan, "loans.csv", strings.NewReader(loanCSV))

	require.NoError(t, err)
	require.Len(t, result.Successes, 2)
	assert.Equal(t, "E001", result.Successes[0].EmployeeNo)
	assert.True(t, result.Successes[1].Amount.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, july, result.Successes[1].Month)
	assert.Len(t, repo.saved, 2)

	require.Len(t, result.Errors, 4)
	byRow := make(map[int]map[string]string)
	for _, e := range result.Errors {
		byRow[e.Row] = e.Errors
	}
	assert.Equal(t, deduction.ErrUnknownEmployee.Error(), byRow[3]["employee_no"])
	assert.Contains(t, byRow[4], "monthly_loan_amount")
	assert.Equal(t, deduction.ErrDuplicateInFile.Error(), byRow[5]["loan_month"])
	assert.Equal(t, deduction.ErrNegativeAmount.Error(), byRow[6]["monthly_loan_amount"])
}

func TestDeductionService_ImportLoans_LenientCoercesMalformed(t *testing.T) {
	t.Parallel()
	repo := &fakeDeductionRepo{}
	svc := NewDeductionService(repo, fakeEmployees{}, numeric.Lenient)
	csv := "employee_no,monthly_loan_amount,loan_month\nE001,n/a,2025-07\n"

	result, err := svc.Import(context.Background(), deduction.KindLoan, "loans.csv", strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, result.Successes, 1)
	assert.True(t, result.Successes[0].Amount.IsZero())
}

func TestDeductionService_ImportBills(t *testing.T) {
	t.Parallel()
	repo := &fakeDeductionRepo{}
	svc := NewDeductionService(repo, fakeEmployees{}, numeric.Strict)
	csv := "employee_no,bill_amount,bill_month\nE002,845.75,2025-07\n,,\nE001,,2025-07\n"

	result, err := svc.Import(context.Background(), deduction.KindTelephoneBill, "bills.csv", strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, result.Successes, 1)
	assert.Equal(t, deduction.KindTelephoneBill, result.Successes[0].Kind)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row, "blank rows keep their position")
	assert.Equal(t, numeric.ErrAbsent.Error(), result.Errors[0].Errors["bill_amount"])
}

func TestDeductionService_Import_InvalidKind(t *testing.T) {
	t.Parallel()
	svc := NewDeductionService(&fakeDeductionRepo{}, fakeEmployees{}, numeric.Strict)

	_, err := svc.Import(context.Background(), deduction.Kind("salary_advance"), "x.csv", strings.NewReader(loanCSV))

	assert.ErrorIs(t, err, deduction.ErrInvalidKind)
}

// ===== LOOKUP TESTS =====

func TestDeductionService_Lookup(t *testing.T) {
	t.Parallel()
	repo := &fakeDeductionRepo{stored: []deduction.Record{
		{Kind: deduction.KindLoan, EmployeeNo: "E001", Amount: decimal.NewFromInt(2500), Month: july},
		{Kind: deduction.KindTelephoneBill, EmployeeNo: "E001", Amount: decimal.NewFromInt(900), Month: july},
		{Kind: deduction.KindLoan, EmployeeNo: "E001", Amount: decimal.NewFromInt(1000), Month: period.Month{Year: 2025, Month: time.June}},
	}}
	svc := NewDeductionService(repo, fakeEmployees{}, numeric.Strict)

	loans, err := svc.Lookup(context.Background(), deduction.KindLoan, july)

	require.NoError(t, err)
	assert.True(t, loans.Amount("E001").Equal(decimal.NewFromInt(2500)))
	assert.True(t, loans.Amount("E002").IsZero())
}
