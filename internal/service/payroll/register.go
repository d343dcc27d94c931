package payroll

import (
	"fmt"
	"io"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/spreadsheet"
)

func RegisterFileName(month period.Month) string {
	return fmt.Sprintf("Payroll_Register_%s_%d.xlsx", month.Abbrev(), month.Year)
}

var registerColumns = []spreadsheet.Column{
	{Title: "Emp No", Width: 12},
	{Title: "Name", Width: 28},
	{Title: "Basic Salary", Width: 14, Money: true},
	{Title: "OT Amount", Width: 12, Money: true},
	{Title: "DOT Amount", Width: 12, Money: true},
	{Title: "Holiday Claims", Width: 14, Money: true},
	{Title: "Arrears", Width: 12, Money: true},
	{Title: "Gross Salary", Width: 14, Money: true},
	{Title: "EPF 10%", Width: 12, Money: true},
	{Title: "No Pay", Width: 12, Money: true},
	{Title: "Loan", Width: 12, Money: true},
	{Title: "Telephone Bill", Width: 14, Money: true},
	{Title: "Stamp", Width: 10, Money: true},
	{Title: "Welfare", Width: 10, Money: true},
	{Title: "Insurance", Width: 12, Money: true},
	{Title: "Total Deductions", Width: 16, Money: true},
	{Title: "Net Pay", Width: 14, Money: true},
	{Title: "Employer EPF 15%", Width: 16, Money: true},
	{Title: "ETF 3%", Width: 12, Money: true},
}

// WriteRegister writes the approved lines of a month as a single-sheet workbook.
func WriteRegister(w io.Writer, month period.Month, lines []payroll.PayrollLine, employees map[string]employee.Employee) error {
	rows := make([][]interface{}, 0, len(lines))
	for _, l := range lines {
		emp := employees[l.EmployeeID]
		rows = append(rows, []interface{}{
			emp.EmpNo,
			emp.Name,
			l.BasicSalary.InexactFloat64(),
			l.OTAmount.InexactFloat64(),
			l.DOTAmount.InexactFloat64(),
			l.HolidayClaimAmount.InexactFloat64(),
			l.SalaryArrears.InexactFloat64(),
			l.GrossSalary.InexactFloat64(),
			l.EPFDeduction.InexactFloat64(),
			l.NoPayDeduction.InexactFloat64(),
			l.LoanDeduction.InexactFloat64(),
			l.TelephoneBillDeduction.InexactFloat64(),
			l.StampDeduction.InexactFloat64(),
			l.WelfareDeduction.InexactFloat64(),
			l.InsuranceDeduction.InexactFloat64(),
			l.TotalDeductions.InexactFloat64(),
			l.NetPay.InexactFloat64(),
			l.EmployerEPF.InexactFloat64(),
			l.ETF.InexactFloat64(),
		})
	}

	return spreadsheet.WriteTable(w, spreadsheet.Table{
		Sheet:   "Payroll " + month.String(),
		Columns: registerColumns,
		Rows:    rows,
	})
}
