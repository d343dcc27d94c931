package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, emp_no, name, user_type, role, plant_id, contract_type, appointed_date, is_manager, nic, mobile,
	annual_salary, basic_salary, pay_grade, job_level, bank_name, account_number, branch, tax_id,
	tax_filing_status, bank_code, branch_code, transaction_type, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var annual, basic decimal.NullDecimal
	err := row.Scan(
		&emp.ID, &emp.EmpNo, &emp.Name, &emp.UserType, &emp.Role, &emp.PlantID, &emp.ContractType,
		&emp.AppointedDate, &emp.IsManager, &emp.NIC, &emp.Mobile,
		&annual, &basic, &emp.Payroll.PayGrade, &emp.Payroll.JobLevel, &emp.Payroll.BankName,
		&emp.Payroll.AccountNumber, &emp.Payroll.Branch, &emp.Payroll.TaxID,
		&emp.Payroll.TaxFilingStatus, &emp.Payroll.BankCode, &emp.Payroll.BranchCode,
		&emp.Payroll.TransactionType, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if annual.Valid {
		emp.Payroll.AnnualSalary = &annual.Decimal
	}
	if basic.Valid {
		emp.Payroll.BasicSalary = &basic.Decimal
	}
	return emp, nil
}

func (e *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var where []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.PlantID != "" {
		add("plant_id = $%d", filter.PlantID)
	}
	if filter.Role != "" {
		add("role = $%d", string(filter.Role))
	}
	if filter.UserType != "" {
		add("user_type = $%d", string(filter.UserType))
	}

	query := "SELECT " + employeeColumns + " FROM employees"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY emp_no"

	employees, err := e.queryEmployees(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return emp, nil
}

// GetByEmpNo implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmpNo(ctx context.Context, empNo string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE emp_no = $1", empNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", empNo, err)
	}
	return emp, nil
}

// GetByIDs implements employee.EmployeeRepository. Unknown ids are left out.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	employees, err := e.queryEmployees(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ANY($1::uuid[]) ORDER BY emp_no", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by id: %w", err)
	}
	return employees, nil
}

// GetByEmpNos implements employee.EmployeeRepository. Unknown numbers are left out.
func (e *employeeRepositoryImpl) GetByEmpNos(ctx context.Context, empNos []string) ([]employee.Employee, error) {
	if len(empNos) == 0 {
		return nil, nil
	}
	employees, err := e.queryEmployees(ctx, "SELECT "+employeeColumns+" FROM employees WHERE emp_no = ANY($1) ORDER BY emp_no", empNos)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by number: %w", err)
	}
	return employees, nil
}

// UpdatePayrollProfile implements employee.EmployeeRepository. Nil fields keep their stored value.
func (e *employeeRepositoryImpl) UpdatePayrollProfile(ctx context.Context, id string, u employee.PayrollProfileUpdate) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees SET
			annual_salary = COALESCE($2, annual_salary),
			basic_salary = COALESCE($3, basic_salary),
			pay_grade = COALESCE($4, pay_grade),
			job_level = COALESCE($5, job_level),
			bank_name = COALESCE($6, bank_name),
			account_number = COALESCE($7, account_number),
			branch = COALESCE($8, branch),
			tax_id = COALESCE($9, tax_id),
			tax_filing_status = COALESCE($10, tax_filing_status),
			bank_code = COALESCE($11, bank_code),
			branch_code = COALESCE($12, branch_code),
			transaction_type = COALESCE($13, transaction_type),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id,
		u.AnnualSalary, u.BasicSalary, u.PayGrade, u.JobLevel, u.BankName, u.AccountNumber,
		u.Branch, u.TaxID, u.TaxFilingStatus, u.BankCode, u.BranchCode, u.TransactionType,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll profile of employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
