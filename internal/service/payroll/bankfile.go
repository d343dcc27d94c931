package payroll

import (
	"errors"
	"fmt"
	"io"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/fixedwidth"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/money"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

// BankFileLayout is one transfer record, 117 columns plus a newline.
var BankFileLayout = fixedwidth.Layout{
	Fields: []fixedwidth.Field{
		fixedwidth.Filler(15),
		{Name: "emp_no", Width: 5, Pad: '0', Justify: fixedwidth.Right},
		fixedwidth.Const(" "),
		{Name: "name", Width: 24, Pad: ' ', Truncate: true},
		fixedwidth.Const(" "),
		{Name: "account_number", Width: 12, Pad: '0', Justify: fixedwidth.Right},
		fixedwidth.Const(" "),
		{Name: "bank_code", Width: 4, Pad: '0', Justify: fixedwidth.Right, Default: "0000"},
		fixedwidth.Const(" "),
		{Name: "branch_code", Width: 3, Pad: '0', Justify: fixedwidth.Right, Default: "000"},
		fixedwidth.Const(" "),
		{Name: "net_pay", Width: 10, Pad: '0', Justify: fixedwidth.Right},
		fixedwidth.Const(" "),
		fixedwidth.Const("Employee"),
		fixedwidth.Const("    "),
		{Name: "transaction_type", Width: 3, Pad: ' ', Default: string(employee.TransactionTypeSLI)},
		fixedwidth.Const(" "),
		{Name: "nic", Width: 12, Pad: '0', Justify: fixedwidth.Right},
		{Name: "mobile", Width: 10, Pad: '0', Justify: fixedwidth.Right},
	},
	LineEnding: "\n",
}

// BankFileName is e.g. Salary_Transfer_File_SLE_HQ_MEMP_Jul_2025.txt.
func BankFileName(prefix string, month period.Month) string {
	return fmt.Sprintf("%s_%s_%d.txt", prefix, month.Abbrev(), month.Year)
}

// BankFileOptions controls employees without bank details.
type BankFileOptions struct {
	SkipIncomplete bool
}

// WriteBankFile renders one record per line in the order given. A record with a value too wide
// for its column is left out and reported in Rejected. Lines of employees missing from the
// directory are an error; the caller decides the order.
func WriteBankFile(w io.Writer, lines []payroll.PayrollLine, employees map[string]employee.Employee, opts BankFileOptions) (payroll.BankFileResult, error) {
	var result payroll.BankFileResult
	fw := fixedwidth.NewWriter(w, BankFileLayout)

	for _, l := range lines {
		emp, ok := employees[l.EmployeeID]
		if !ok {
			return result, fmt.Errorf("employee %s: %w", l.EmployeeID, employee.ErrEmployeeNotFound)
		}
		if !emp.Payroll.HasBankDetails() {
			if opts.SkipIncomplete {
				result.Skipped = append(result.Skipped, emp.EmpNo)
				continue
			}
			result.Padded = append(result.Padded, emp.EmpNo)
		}

		err := fw.Write(map[string]string{
			"emp_no":           emp.EmpNo,
			"name":             emp.Name,
			"account_number":   emp.Payroll.AccountNumber,
			"bank_code":        emp.Payroll.BankCode,
			"branch_code":      emp.Payroll.BranchCode,
			"net_pay":          money.Format(l.NetPay),
			"transaction_type": string(emp.Payroll.TransactionType),
			"nic":              emp.NIC,
			"mobile":           emp.Mobile,
		})
		var overflow *fixedwidth.OverflowError
		if errors.As(err, &overflow) {
			result.Rejected = append(result.Rejected, payroll.RejectedLine{EmpNo: emp.EmpNo, Field: overflow.Field})
			continue
		}
		if err != nil {
			return result, fmt.Errorf("bank file, employee %s: %w", emp.EmpNo, err)
		}
	}

	result.Lines = fw.Count()
	return result, nil
}
