package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/leave"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/plantops-hr/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	plantRepo      plant.PlantRepository
	rosterRepo     roster.RosterRepository
	leaveRepo      leave.LeaveRequestRepository
	holidayService holiday.HolidayService
	policy         *config.PayPolicy
	now            func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	plantRepo plant.PlantRepository,
	rosterRepo roster.RosterRepository,
	leaveRepo leave.LeaveRequestRepository,
	holidayService holiday.HolidayService,
	policy *config.PayPolicy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		plantRepo:      plantRepo,
		rosterRepo:     rosterRepo,
		leaveRepo:      leaveRepo,
		holidayService: holidayService,
		policy:         policy,
		now:            time.Now,
	}
}

// approverFromContext returns the user id claim, nil when the request carries none.
func approverFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}

// ========== ENTRIES ==========

func (s *AttendanceServiceImpl) RecordAttendance(ctx context.Context, req attendance.RecordAttendanceRequest) (attendance.EntryResponse, error) {
	entry, err := req.Validate()
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, entry.EmployeeID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}
	entry.PlantID = emp.PlantID

	saved, err := s.attendanceRepo.UpsertEntry(ctx, entry)
	if err != nil {
		return attendance.EntryResponse{}, fmt.Errorf("failed to record attendance: %w", err)
	}
	return saved.ToResponse(), nil
}

// ImportAttendance validates every row on its own. Bad rows are reported next to the saved ones.
func (s *AttendanceServiceImpl) ImportAttendance(ctx context.Context, filename string, r io.Reader) (attendance.ImportResponse, error) {
	var rows []attendance.ImportRow
	if err := spreadsheet.Decode(filename, r, &rows); err != nil {
		return attendance.ImportResponse{}, err
	}

	empNos := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.EmployeeNo != "" {
			empNos = append(empNos, strings.TrimSpace(row.EmployeeNo))
		}
	}
	known, err := s.employeeRepo.GetByEmpNos(ctx, empNos)
	if err != nil {
		return attendance.ImportResponse{}, fmt.Errorf("failed to look up employees: %w", err)
	}
	byEmpNo := make(map[string]employee.Employee, len(known))
	for _, e := range known {
		byEmpNo[e.EmpNo] = e
	}

	result := attendance.ImportResponse{
		Successes: []attendance.EntryResponse{},
		Errors:    []spreadsheet.RowError{},
	}
	var entries []attendance.Entry
	for i, row := range rows {
		if row == (attendance.ImportRow{}) {
			continue
		}
		row.EmployeeNo = strings.TrimSpace(row.EmployeeNo)
		entry, fieldErrs := parseImportRow(row, byEmpNo)
		if len(fieldErrs) > 0 {
			result.Errors = append(result.Errors, spreadsheet.RowError{Row: i + 1, EmployeeNo: row.EmployeeNo, Errors: fieldErrs})
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) > 0 {
		err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
			for _, e := range entries {
				saved, err := s.attendanceRepo.UpsertEntry(txCtx, e)
				if err != nil {
					return err
				}
				result.Successes = append(result.Successes, saved.ToResponse())
			}
			return nil
		})
		if err != nil {
			return attendance.ImportResponse{}, fmt.Errorf("failed to save attendance rows: %w", err)
		}
	}

	slog.Info("attendance upload processed", "file", filename, "saved", len(result.Successes), "rejected", len(result.Errors))
	return result, nil
}

func parseImportRow(row attendance.ImportRow, byEmpNo map[string]employee.Employee) (attendance.Entry, map[string]string) {
	errs := map[string]string{}
	if err := validator.Struct(row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for k, v := range verrs.ToMap() {
				errs[k] = v
			}
		} else {
			errs["row"] = err.Error()
		}
	}

	entry := attendance.Entry{Status: attendance.StatusPending, Source: attendance.SourceUpload}
	if _, failed := errs["employee_no"]; !failed {
		emp, ok := byEmpNo[row.EmployeeNo]
		if !ok {
			errs["employee_no"] = employee.ErrEmployeeNotFound.Error()
		} else {
			entry.EmployeeID, entry.PlantID = emp.ID, emp.PlantID
		}
	}
	if _, failed := errs["date"]; !failed {
		date, err := spreadsheet.ParseDate(row.Date)
		if err != nil {
			errs["date"] = err.Error()
		}
		entry.Date = date
	}
	if _, failed := errs["shift"]; !failed {
		shift, err := roster.ParseShift(row.Shift)
		if err != nil {
			errs["shift"] = roster.ErrInvalidShift.Error()
		}
		entry.Shift = shift
	}

	clock := func(field, cell string) string {
		if strings.TrimSpace(cell) == "" {
			return ""
		}
		v, err := spreadsheet.ParseClock(cell)
		if err != nil {
			errs[field] = err.Error()
		}
		return v
	}
	entry.InTime = clock("in_time", row.InTime)
	entry.OutTime = clock("out_time", row.OutTime)
	if _, failed := errs["out_time"]; !failed && (entry.InTime == "") != (entry.OutTime == "") {
		errs["out_time"] = attendance.ErrInvalidTimeInterval.Error()
	}
	if row.Status != "" {
		entry.Status = attendance.Status(row.Status)
	}

	if len(errs) > 0 {
		return attendance.Entry{}, errs
	}
	return entry, nil
}

// ========== SUMMARY ==========

func (s *AttendanceServiceImpl) Summarize(ctx context.Context, req attendance.SummaryRequest) ([]attendance.SummaryResponse, error) {
	month, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.plantRepo.GetByID(ctx, req.PlantID); err != nil {
		return nil, err
	}

	in, err := s.summaryInput(ctx, req.PlantID, month)
	if err != nil {
		return nil, err
	}

	summaries := Summarize(in)
	responses := make([]attendance.SummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		responses = append(responses, sum.ToResponse())
	}
	return responses, nil
}

func (s *AttendanceServiceImpl) summaryInput(ctx context.Context, plantID string, month period.Month) (SummaryInput, error) {
	cal, err := s.holidayService.CalendarFor(ctx, month)
	if err != nil {
		return SummaryInput{}, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{PlantID: plantID})
	if err != nil {
		return SummaryInput{}, fmt.Errorf("failed to list employees: %w", err)
	}

	assignments, err := s.rosterRepo.ListByMonth(ctx, plantID, month)
	if err != nil {
		return SummaryInput{}, fmt.Errorf("failed to load roster: %w", err)
	}

	entries, err := s.attendanceRepo.ListEntries(ctx, plantID, month)
	if err != nil {
		return SummaryInput{}, fmt.Errorf("failed to load attendance entries: %w", err)
	}

	leaves, err := s.leaveRepo.ListApprovedInRange(ctx, plantID, month.Start(), month.End())
	if err != nil {
		return SummaryInput{}, fmt.Errorf("failed to load leave requests: %w", err)
	}
	leaveDays := make(map[string]decimal.Decimal)
	for _, l := range leaves {
		if n := l.DaysIn(month); n > 0 {
			leaveDays[l.EmployeeID] = leaveDays[l.EmployeeID].Add(decimal.NewFromInt(int64(n)))
		}
	}

	records, err := s.attendanceRepo.ListRecords(ctx, attendance.RecordFilter{PlantID: plantID, Year: month.Year, SalaryMonth: int(month.Month)})
	if err != nil {
		return SummaryInput{}, fmt.Errorf("failed to load approved records: %w", err)
	}
	approved := make(map[string]bool, len(records))
	for _, r := range records {
		approved[r.EmployeeID] = true
	}

	return SummaryInput{
		Month:     month,
		Employees: employees,
		Roster:    assignments,
		Entries:   entries,
		LeaveDays: leaveDays,
		Approved:  approved,
		Calendar:  cal,
		Shifts:    s.policy.Shifts,
	}, nil
}

// ========== APPROVAL ==========

func (s *AttendanceServiceImpl) ApproveExecutive(ctx context.Context, req attendance.ApproveExecutiveRequest) (attendance.ApproveResponse, error) {
	if err := attendance.ValidateBatch(req.PlantID, req.Year, req.Month, len(req.Records)); err != nil {
		return attendance.ApproveResponse{}, err
	}

	records := make([]attendance.Record, 0, len(req.Records))
	for _, in := range req.Records {
		rec, err := in.ToRecord(s.policy.NumericMode, req.PlantID, req.Year, req.Month)
		if err != nil {
			return attendance.ApproveResponse{}, err
		}
		records = append(records, rec)
	}
	return s.approve(ctx, req.PlantID, req.Year, req.Month, employee.UserTypeExecutive, records)
}

func (s *AttendanceServiceImpl) ApproveNonExecutive(ctx context.Context, req attendance.ApproveNonExecutiveRequest) (attendance.ApproveResponse, error) {
	if err := attendance.ValidateBatch(req.PlantID, req.Year, req.Month, len(req.Records)); err != nil {
		return attendance.ApproveResponse{}, err
	}

	records := make([]attendance.Record, 0, len(req.Records))
	for _, in := range req.Records {
		rec, err := in.ToRecord(s.policy.NumericMode, req.PlantID, req.Year, req.Month)
		if err != nil {
			return attendance.ApproveResponse{}, err
		}
		records = append(records, rec)
	}
	return s.approve(ctx, req.PlantID, req.Year, req.Month, employee.UserTypeNonExecutive, records)
}

// approve checks the whole batch before writing any of it.
func (s *AttendanceServiceImpl) approve(ctx context.Context, plantID string, year, month int, userType employee.UserType, records []attendance.Record) (attendance.ApproveResponse, error) {
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return attendance.ApproveResponse{}, err
	}

	type key struct {
		employeeID  string
		salaryMonth int
	}
	seen := make(map[key]bool, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		k := key{r.EmployeeID, r.SalaryMonth}
		if seen[k] {
			return attendance.ApproveResponse{}, fmt.Errorf("employee %s: %w", r.EmployeeID, attendance.ErrDuplicateEmployee)
		}
		seen[k] = true
		ids = append(ids, r.EmployeeID)
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return attendance.ApproveResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	for _, r := range records {
		emp, ok := byID[r.EmployeeID]
		switch {
		case !ok:
			return attendance.ApproveResponse{}, fmt.Errorf("employee %s: %w", r.EmployeeID, employee.ErrEmployeeNotFound)
		case emp.PlantID != plantID:
			return attendance.ApproveResponse{}, fmt.Errorf("employee %s: %w", emp.EmpNo, attendance.ErrEmployeeNotInPlant)
		case emp.UserType != userType:
			return attendance.ApproveResponse{}, fmt.Errorf("employee %s: %w", emp.EmpNo, attendance.ErrWrongUserType)
		}
	}

	approver := approverFromContext(ctx)
	approvedAt := s.now()
	for i := range records {
		records[i].ApprovedBy = approver
		records[i].ApprovedAt = approvedAt
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.attendanceRepo.UpsertRecords(txCtx, records)
	})
	if err != nil {
		return attendance.ApproveResponse{}, fmt.Errorf("failed to approve attendance: %w", err)
	}

	slog.Info("attendance approved", "plant_id", plantID, "year", year, "month", month, "user_type", userType, "records", len(records))
	return attendance.ApproveResponse{PlantID: plantID, Year: year, Month: month, Approved: len(records)}, nil
}

func (s *AttendanceServiceImpl) ListApproved(ctx context.Context, req attendance.ListApprovedRequest) ([]attendance.RecordResponse, error) {
	filter, err := req.Validate()
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}
