package payroll

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bankEmployee() employee.Employee {
	return employee.Employee{
		ID:     "emp-1",
		EmpNo:  "123",
		Name:   "Nimal Perera",
		NIC:    "901234567V",
		Mobile: "0771234567",
		Payroll: employee.PayrollProfile{
			AccountNumber:   "1234567",
			BankCode:        "7010",
			BranchCode:      "1",
			TransactionType: employee.TransactionTypeSBA,
		},
	}
}

// column returns the 1-based inclusive range [from, to] of line.
func column(line string, from, to int) string {
	return line[from-1 : to]
}

// ===== BANK FILE TESTS =====

func TestBankFileLayout_Width(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 117, BankFileLayout.Width())

	for name, want := range map[string]int{
		"emp_no":           16,
		"name":             22,
		"account_number":   47,
		"bank_code":        60,
		"branch_code":      65,
		"net_pay":          69,
		"transaction_type": 92,
		"nic":              96,
		"mobile":           108,
	} {
		got, ok := BankFileLayout.Offset(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestWriteBankFile_Columns(t *testing.T) {
	t.Parallel()
	emp := bankEmployee()
	lines := []payroll.PayrollLine{{EmployeeID: emp.ID, NetPay: dec("51614.58")}}

	var buf bytes.Buffer
	result, err := WriteBankFile(&buf, lines, map[string]employee.Employee{emp.ID: emp}, BankFileOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Lines)
	assert.Empty(t, result.Padded)

	out := buf.String()
	require.True(t, strings.HasSuffix(out, "\n"))
	line := strings.TrimSuffix(out, "\n")
	require.Len(t, line, 117)

	assert.Equal(t, strings.Repeat(" ", 15), column(line, 1, 15))
	assert.Equal(t, "00123", column(line, 16, 20))
	assert.Equal(t, "Nimal Perera            ", column(line, 22, 45))
	assert.Equal(t, "000001234567", column(line, 47, 58))
	assert.Equal(t, "7010", column(line, 60, 63))
	assert.Equal(t, "001", column(line, 65, 67))
	assert.Equal(t, "0051614.58", column(line, 69, 78))
	assert.Equal(t, "Employee", column(line, 80, 87))
	assert.Equal(t, "    ", column(line, 88, 91))
	assert.Equal(t, "SBA", column(line, 92, 94))
	assert.Equal(t, "00901234567V", column(line, 96, 107))
	assert.Equal(t, "0771234567", column(line, 108, 117))
}

func TestWriteBankFile_MissingBankDetails(t *testing.T) {
	t.Parallel()
	emp := bankEmployee()
	emp.Payroll = employee.PayrollProfile{}
	lines := []payroll.PayrollLine{{EmployeeID: emp.ID, NetPay: dec("1000")}}
	employees := map[string]employee.Employee{emp.ID: emp}

	t.Run("padded by default", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := WriteBankFile(&buf, lines, employees, BankFileOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"123"}, result.Padded)

		line := buf.String()
		assert.Equal(t, "000000000000", column(line, 47, 58))
		assert.Equal(t, "0000", column(line, 60, 63))
		assert.Equal(t, "000", column(line, 65, 67))
		assert.Equal(t, "SLI", column(line, 92, 94))
	})

	t.Run("skipped when configured", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := WriteBankFile(&buf, lines, employees, BankFileOptions{SkipIncomplete: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"123"}, result.Skipped)
		assert.Equal(t, 0, result.Lines)
		assert.Zero(t, buf.Len())
	})
}

func TestWriteBankFile_NameTruncated(t *testing.T) {
	t.Parallel()
	emp := bankEmployee()
	emp.Name = "Wickramasinghe Arachchige Don Nimal"
	var buf bytes.Buffer

	_, err := WriteBankFile(&buf, []payroll.PayrollLine{{EmployeeID: emp.ID, NetPay: dec("1")}}, map[string]employee.Employee{emp.ID: emp}, BankFileOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Wickramasinghe Arachchig", column(buf.String(), 22, 45))
}

func TestWriteBankFile_OverflowRejectsOnlyThatLine(t *testing.T) {
	t.Parallel()
	ok := bankEmployee()
	longNo := bankEmployee()
	longNo.ID, longNo.EmpNo = "emp-2", "EMP-1001"
	rich := bankEmployee()
	rich.ID, rich.EmpNo = "emp-3", "456"
	lines := []payroll.PayrollLine{
		{EmployeeID: ok.ID, NetPay: dec("1000")},
		{EmployeeID: longNo.ID, NetPay: dec("1000")},
		{EmployeeID: rich.ID, NetPay: dec("10000000.00")},
	}
	employees := map[string]employee.Employee{ok.ID: ok, longNo.ID: longNo, rich.ID: rich}

	var buf bytes.Buffer
	result, err := WriteBankFile(&buf, lines, employees, BankFileOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Lines)
	assert.Equal(t, []payroll.RejectedLine{
		{EmpNo: "EMP-1001", Field: "emp_no"},
		{EmpNo: "456", Field: "net_pay"},
	}, result.Rejected)
	assert.Equal(t, "00123", column(buf.String(), 16, 20))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteBankFile_UnknownEmployee(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	_, err := WriteBankFile(&buf, []payroll.PayrollLine{{EmployeeID: "ghost"}}, nil, BankFileOptions{})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestBankFileName(t *testing.T) {
	t.Parallel()
	name := BankFileName("Salary_Transfer_File_SLE_HQ_MEMP", period.Month{Year: 2025, Month: time.July})
	assert.Equal(t, "Salary_Transfer_File_SLE_HQ_MEMP_Jul_2025.txt", name)
}
