package payroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/deduction"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db               *database.DB
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	deductionService deduction.DeductionService
	policy           *config.PayPolicy
	calc             Calculator
	now              func() time.Time
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	deductionService deduction.DeductionService,
	policy *config.PayPolicy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:               db,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		deductionService: deductionService,
		policy:           policy,
		calc:             NewCalculator(*policy),
		now:              time.Now,
	}
}

func userIDFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return &id
	}
	return nil
}

func (s *PayrollServiceImpl) employeesByID(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	emps, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(emps))
	for _, e := range emps {
		byID[e.ID] = e
	}
	return byID, nil
}

// ========== COMPUTE ==========

// ComputeSalaries derives one pending line per employee with approved attendance in the month.
// Nothing is stored. Records from every plant are loaded even when a plant is requested, so an
// employee approved at two plants is merged before the plant filter applies.
func (s *PayrollServiceImpl) ComputeSalaries(ctx context.Context, req payroll.ComputeSalariesRequest) ([]payroll.PayrollLineResponse, error) {
	month, err := req.Validate()
	if err != nil {
		return nil, err
	}

	filter := attendance.RecordFilter{Year: month.Year, SalaryMonth: int(month.Month)}
	records, err := s.attendanceRepo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved attendance: %w", err)
	}
	if len(records) == 0 {
		return []payroll.PayrollLineResponse{}, nil
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.EmployeeID)
	}
	employees, err := s.employeesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	loans, err := s.deductionService.Lookup(ctx, deduction.KindLoan, month)
	if err != nil {
		return nil, err
	}
	bills, err := s.deductionService.Lookup(ctx, deduction.KindTelephoneBill, month)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayrollLineResponse, 0, len(records))
	for _, r := range mergeByEmployee(records, employees) {
		if req.PlantID != nil && r.PlantID != *req.PlantID {
			continue
		}
		emp, ok := employees[r.EmployeeID]
		if !ok {
			slog.Warn("approved attendance for unknown employee", "employee_id", r.EmployeeID, "month", month.String())
			continue
		}
		line := s.calc.Compute(inputsFor(r, emp, loans, bills))
		line.EmployeeID = emp.ID
		line.PlantID = r.PlantID
		line.UserType = emp.UserType
		line.SalaryMonth = month
		line.EmpNo = &emp.EmpNo
		line.EmployeeName = &emp.Name

		resp := line.ToResponse()
		resp.MissingProfileFields = emp.Payroll.MissingFields()
		responses = append(responses, resp)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return *responses[i].EmpNo < *responses[j].EmpNo
	})
	return responses, nil
}

// mergeByEmployee folds the records of an employee approved at more than one plant into one,
// so the basic salary is paid once. The merged record belongs to the employee's home plant when
// one of the records is from it, otherwise to the lowest plant ID.
func mergeByEmployee(records []attendance.Record, employees map[string]employee.Employee) []attendance.Record {
	merged := make([]attendance.Record, 0, len(records))
	index := make(map[string]int, len(records))
	for _, r := range records {
		i, seen := index[r.EmployeeID]
		if !seen {
			index[r.EmployeeID] = len(merged)
			merged = append(merged, r)
			continue
		}

		m := &merged[i]
		slog.Info("merging attendance approved at several plants",
			"employee_id", r.EmployeeID, "plants", []string{m.PlantID, r.PlantID})
		m.TotalDaysWorked = m.TotalDaysWorked.Add(r.TotalDaysWorked)
		m.HolidayClaims = m.HolidayClaims.Add(r.HolidayClaims)
		m.Shift1 += r.Shift1
		m.Shift2 += r.Shift2
		m.Shift3 += r.Shift3
		m.OTHours = m.OTHours.Add(r.OTHours)
		m.DOTDays += r.DOTDays
		m.NoPayDays = m.NoPayDays.Add(r.NoPayDays)
		m.LeaveDays = m.LeaveDays.Add(r.LeaveDays)

		home := employees[r.EmployeeID].PlantID
		switch {
		case m.PlantID == home:
		case r.PlantID == home || r.PlantID < m.PlantID:
			m.PlantID = r.PlantID
		}
	}
	return merged
}

// inputsFor maps an approved record onto calculator inputs. Executives claim holiday days;
// non-executives are paid for holiday work through DOT.
func inputsFor(r attendance.Record, emp employee.Employee, loans, bills deduction.Lookup) Inputs {
	in := Inputs{
		PlantID:       r.PlantID,
		Role:          string(emp.Role),
		BasicSalary:   emp.Payroll.Basic(),
		NoPayDays:     r.NoPayDays,
		LeaveDays:     r.LeaveDays,
		SalaryArrears: decimal.Zero,
		Loan:          loans.Amount(emp.EmpNo),
		TelephoneBill: bills.Amount(emp.EmpNo),
	}
	if r.UserType == employee.UserTypeExecutive {
		in.HolidayDays = r.HolidayClaims
	} else {
		in.OTHours = r.OTHours
		in.DOTDays = decimal.NewFromInt(int64(r.DOTDays))
	}
	return in
}

// ========== APPROVE ==========

// ApproveSalaries stores the submitted lines as approved. Any failing line aborts the batch.
func (s *PayrollServiceImpl) ApproveSalaries(ctx context.Context, req payroll.ApproveSalariesRequest) (payroll.ApproveSalariesResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ApproveSalariesResponse{}, err
	}

	ids := make([]string, 0, len(req.Salaries))
	for _, in := range req.Salaries {
		ids = append(ids, in.EmployeeID)
	}
	employees, err := s.employeesByID(ctx, ids)
	if err != nil {
		return payroll.ApproveSalariesResponse{}, err
	}

	approver := userIDFromContext(ctx)
	approvedAt := s.now()
	seen := make(map[string]bool, len(req.Salaries))
	months := make(map[string]bool)
	lines := make([]payroll.PayrollLine, 0, len(req.Salaries))

	for _, in := range req.Salaries {
		emp, ok := employees[in.EmployeeID]
		if !ok {
			return payroll.ApproveSalariesResponse{}, fmt.Errorf("employee %s: %w", in.EmployeeID, employee.ErrEmployeeNotFound)
		}
		key := in.EmployeeID + "|" + in.SalaryMonth.String()
		if seen[key] {
			return payroll.ApproveSalariesResponse{}, &payroll.LineError{EmployeeID: in.EmployeeID, Field: "salary_month", Err: payroll.ErrDuplicateEmployee}
		}
		seen[key] = true

		if missing := emp.Payroll.MissingFields(); len(missing) > 0 {
			return payroll.ApproveSalariesResponse{}, &payroll.IncompleteProfileError{EmployeeID: emp.ID, EmpNo: emp.EmpNo, Fields: missing}
		}

		line := in.ToLine()
		if err := CheckAmounts(line); err != nil {
			return payroll.ApproveSalariesResponse{}, err
		}
		if err := CheckConsistency(line); err != nil {
			return payroll.ApproveSalariesResponse{}, err
		}

		line.PlantID = emp.PlantID
		line.UserType = emp.UserType
		line.Status = payroll.PayrollStatusApproved
		line.ApprovedBy = approver
		line.ApprovedAt = &approvedAt
		lines = append(lines, line)
		months[in.SalaryMonth.String()] = true
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.payrollRepo.UpsertLines(txCtx, lines)
	})
	if err != nil {
		return payroll.ApproveSalariesResponse{}, fmt.Errorf("failed to approve salaries: %w", err)
	}

	resp := payroll.ApproveSalariesResponse{Approved: len(lines), Months: make([]string, 0, len(months))}
	for m := range months {
		resp.Months = append(resp.Months, m)
	}
	sort.Strings(resp.Months)

	slog.Info("salaries approved", "count", resp.Approved, "months", resp.Months)
	return resp, nil
}

func (s *PayrollServiceImpl) ListApproved(ctx context.Context, req payroll.ListApprovedRequest) ([]payroll.PayrollLineResponse, error) {
	month, err := req.Validate()
	if err != nil {
		return nil, err
	}
	lines, err := s.payrollRepo.ListApproved(ctx, month, req.PlantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved salaries: %w", err)
	}
	responses := make([]payroll.PayrollLineResponse, 0, len(lines))
	for _, l := range lines {
		responses = append(responses, l.ToResponse())
	}
	return responses, nil
}

// ========== EXPORT ==========

func (s *PayrollServiceImpl) approvedWithEmployees(ctx context.Context, month period.Month, plantID *string) ([]payroll.PayrollLine, map[string]employee.Employee, error) {
	lines, err := s.payrollRepo.ListApproved(ctx, month, plantID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list approved salaries: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, payroll.ErrNoApprovedSalaries
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.EmployeeID)
	}
	employees, err := s.employeesByID(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return employees[lines[i].EmployeeID].EmpNo < employees[lines[j].EmployeeID].EmpNo
	})
	return lines, employees, nil
}

// ExportBankFile renders the whole file before writing to w, so a failure leaves w untouched.
func (s *PayrollServiceImpl) ExportBankFile(ctx context.Context, req payroll.ExportRequest, w io.Writer) (payroll.BankFileResult, error) {
	month, err := req.Validate()
	if err != nil {
		return payroll.BankFileResult{}, err
	}
	lines, employees, err := s.approvedWithEmployees(ctx, month, req.PlantID)
	if err != nil {
		return payroll.BankFileResult{}, err
	}

	var buf bytes.Buffer
	result, err := WriteBankFile(&buf, lines, employees, BankFileOptions{SkipIncomplete: s.policy.BankFile.SkipIncomplete})
	if err != nil {
		return payroll.BankFileResult{}, err
	}
	result.Filename = BankFileName(s.policy.BankFile.FilePrefix, month)

	if len(result.Padded) > 0 {
		slog.Warn("bank file lines written with zero-padded bank details", "month", month.String(), "emp_nos", result.Padded)
	}
	if len(result.Skipped) > 0 {
		slog.Warn("bank file skipped employees without bank details", "month", month.String(), "emp_nos", result.Skipped)
	}
	for _, r := range result.Rejected {
		slog.Error("bank file line rejected, value wider than its column", "month", month.String(), "emp_no", r.EmpNo, "field", r.Field)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return payroll.BankFileResult{}, fmt.Errorf("failed to write bank file: %w", err)
	}
	return result, nil
}

func (s *PayrollServiceImpl) ExportRegister(ctx context.Context, req payroll.ExportRequest, w io.Writer) (string, error) {
	month, err := req.Validate()
	if err != nil {
		return "", err
	}
	lines, employees, err := s.approvedWithEmployees(ctx, month, req.PlantID)
	if err != nil {
		return "", err
	}
	if err := WriteRegister(w, month, lines, employees); err != nil {
		return "", fmt.Errorf("failed to write payroll register: %w", err)
	}
	return RegisterFileName(month), nil
}
