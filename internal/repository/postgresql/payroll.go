package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollLineColumns = `
	employee_id, plant_id, salary_month, user_type,
	ot_hours, dot_days, holiday_claims, no_pay_days, leave_days,
	basic_salary, ot_amount, dot_amount, holiday_claim_amount, salary_arrears, gross_salary,
	epf_deduction, no_pay_deduction, loan_deduction, telephone_bill_deduction,
	stamp_deduction, welfare_deduction, insurance_deduction, total_deductions,
	employer_epf, etf, net_pay, status, approved_by, approved_at`

// UpsertLines implements payroll.PayrollRepository.
func (r *payrollRepository) UpsertLines(ctx context.Context, lines []payroll.PayrollLine) error {
	if len(lines) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	const cols = 30
	args := make([]interface{}, 0, len(lines)*cols)
	for _, l := range lines {
		id := l.ID
		if id == "" {
			id = newID()
		}
		args = append(args,
			id, l.EmployeeID, l.PlantID, l.SalaryMonth.Start(), string(l.UserType),
			l.OTHours, l.DOTDays, l.HolidayClaims, l.NoPayDays, l.LeaveDays,
			l.BasicSalary, l.OTAmount, l.DOTAmount, l.HolidayClaimAmount, l.SalaryArrears, l.GrossSalary,
			l.EPFDeduction, l.NoPayDeduction, l.LoanDeduction, l.TelephoneBillDeduction,
			l.StampDeduction, l.WelfareDeduction, l.InsuranceDeduction, l.TotalDeductions,
			l.EmployerEPF, l.ETF, l.NetPay, string(l.Status), l.ApprovedBy, l.ApprovedAt,
		)
	}

	query := `
		INSERT INTO payroll_lines (id, ` + payrollLineColumns + `)
		VALUES ` + valuesList(len(lines), cols) + `
		ON CONFLICT (employee_id, salary_month) DO UPDATE SET
			plant_id = EXCLUDED.plant_id,
			user_type = EXCLUDED.user_type,
			ot_hours = EXCLUDED.ot_hours,
			dot_days = EXCLUDED.dot_days,
			holiday_claims = EXCLUDED.holiday_claims,
			no_pay_days = EXCLUDED.no_pay_days,
			leave_days = EXCLUDED.leave_days,
			basic_salary = EXCLUDED.basic_salary,
			ot_amount = EXCLUDED.ot_amount,
			dot_amount = EXCLUDED.dot_amount,
			holiday_claim_amount = EXCLUDED.holiday_claim_amount,
			salary_arrears = EXCLUDED.salary_arrears,
			gross_salary = EXCLUDED.gross_salary,
			epf_deduction = EXCLUDED.epf_deduction,
			no_pay_deduction = EXCLUDED.no_pay_deduction,
			loan_deduction = EXCLUDED.loan_deduction,
			telephone_bill_deduction = EXCLUDED.telephone_bill_deduction,
			stamp_deduction = EXCLUDED.stamp_deduction,
			welfare_deduction = EXCLUDED.welfare_deduction,
			insurance_deduction = EXCLUDED.insurance_deduction,
			total_deductions = EXCLUDED.total_deductions,
			employer_epf = EXCLUDED.employer_epf,
			etf = EXCLUDED.etf,
			net_pay = EXCLUDED.net_pay,
			status = EXCLUDED.status,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert payroll lines: %w", err)
	}
	return nil
}

// ListApproved implements payroll.PayrollRepository. A nil plantID lists every plant.
func (r *payrollRepository) ListApproved(ctx context.Context, month period.Month, plantID *string) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pl.id, pl.employee_id, pl.plant_id, pl.salary_month, pl.user_type,
			pl.ot_hours, pl.dot_days, pl.holiday_claims, pl.no_pay_days, pl.leave_days,
			pl.basic_salary, pl.ot_amount, pl.dot_amount, pl.holiday_claim_amount, pl.salary_arrears, pl.gross_salary,
			pl.epf_deduction, pl.no_pay_deduction, pl.loan_deduction, pl.telephone_bill_deduction,
			pl.stamp_deduction, pl.welfare_deduction, pl.insurance_deduction, pl.total_deductions,
			pl.employer_epf, pl.etf, pl.net_pay, pl.status, pl.approved_by, pl.approved_at,
			pl.created_at, pl.updated_at, e.emp_no, e.name
		FROM payroll_lines pl
		JOIN employees e ON e.id = pl.employee_id
		WHERE pl.salary_month = $1 AND pl.status = $2 AND ($3::uuid IS NULL OR pl.plant_id = $3)
		ORDER BY e.emp_no
	`
	rows, err := q.Query(ctx, query, month.Start(), string(payroll.PayrollStatusApproved), plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved payroll for %s: %w", month, err)
	}
	defer rows.Close()

	var lines []payroll.PayrollLine
	for rows.Next() {
		var l payroll.PayrollLine
		var salaryMonth time.Time
		err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.PlantID, &salaryMonth, &l.UserType,
			&l.OTHours, &l.DOTDays, &l.HolidayClaims, &l.NoPayDays, &l.LeaveDays,
			&l.BasicSalary, &l.OTAmount, &l.DOTAmount, &l.HolidayClaimAmount, &l.SalaryArrears, &l.GrossSalary,
			&l.EPFDeduction, &l.NoPayDeduction, &l.LoanDeduction, &l.TelephoneBillDeduction,
			&l.StampDeduction, &l.WelfareDeduction, &l.InsuranceDeduction, &l.TotalDeductions,
			&l.EmployerEPF, &l.ETF, &l.NetPay, &l.Status, &l.ApprovedBy, &l.ApprovedAt,
			&l.CreatedAt, &l.UpdatedAt, &l.EmpNo, &l.EmployeeName,
		)
		if err != nil {
			return nil, err
		}
		l.SalaryMonth = period.Of(salaryMonth)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
