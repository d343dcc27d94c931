package attendance

import (
	"errors"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== ENTRY DTOs ==========

type RecordAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Shift      string `json:"shift"`
	InTime     string `json:"in_time"`
	OutTime    string `json:"out_time"`
	Status     string `json:"status"`
}

// Validate checks the request and returns the entry it describes, without ID or plant.
func (r RecordAttendanceRequest) Validate() (Entry, error) {
	var errs validator.ValidationErrors
	entry := Entry{EmployeeID: r.EmployeeID, InTime: r.InTime, OutTime: r.OutTime, Status: StatusPending, Source: SourceManual}

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if date, ok := validator.IsValidDate(r.Date); ok {
		entry.Date = date
	} else {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
	if shift, err := roster.ParseShift(r.Shift); err == nil {
		entry.Shift = shift
	} else {
		errs.Add("shift", roster.ErrInvalidShift.Error())
	}
	if r.InTime != "" && !validator.IsValidClock(r.InTime) {
		errs.Add("in_time", "must be in HH:MM format")
	}
	if r.OutTime != "" && !validator.IsValidClock(r.OutTime) {
		errs.Add("out_time", "must be in HH:MM format")
	}
	if (r.InTime == "") != (r.OutTime == "") {
		errs.Add("out_time", ErrInvalidTimeInterval.Error())
	}
	if r.Status != "" {
		if validator.IsInSlice(r.Status, Statuses) {
			entry.Status = Status(r.Status)
		} else {
			errs.Add("status", "must be one of: Pending, Approved, Rejected")
		}
	}

	if len(errs) > 0 {
		return Entry{}, errs
	}
	return entry, nil
}

type EntryResponse struct {
	ID         string       `json:"id"`
	EmployeeID string       `json:"employee_id"`
	PlantID    string       `json:"plant_id"`
	Date       string       `json:"date"`
	Shift      roster.Shift `json:"shift"`
	InTime     string       `json:"in_time,omitempty"`
	OutTime    string       `json:"out_time,omitempty"`
	Status     Status       `json:"status"`
	Source     Source       `json:"source"`
}

func (e Entry) ToResponse() EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		PlantID:    e.PlantID,
		Date:       period.FormatDate(e.Date),
		Shift:      e.Shift,
		InTime:     e.InTime,
		OutTime:    e.OutTime,
		Status:     e.Status,
		Source:     e.Source,
	}
}

// ImportRow is one spreadsheet row of an attendance upload.
type ImportRow struct {
	EmployeeNo string `csv:"employee_no" validate:"required,emp_no"`
	Date       string `csv:"date" validate:"required"`
	Shift      string `csv:"shift" validate:"required"`
	InTime     string `csv:"in_time"`
	OutTime    string `csv:"out_time"`
	Status     string `csv:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
}

type ImportResponse = spreadsheet.ImportResult[EntryResponse]

// ========== SUMMARY DTOs ==========

type SummaryRequest struct {
	PlantID string
	Year    int
	Month   int
}

func (r SummaryRequest) Validate() (period.Month, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.PlantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	month, err := period.New(r.Year, r.Month)
	if err != nil {
		errs.Add("month", err.Error())
	}
	return month, errs.OrNil()
}

type SummaryResponse struct {
	EmployeeID        string            `json:"employee_id"`
	EmpNo             string            `json:"emp_no"`
	Name              string            `json:"name"`
	UserType          employee.UserType `json:"user_type"`
	TotalShifts       int               `json:"total_shifts"`
	MorningShifts     int               `json:"morning_shifts"`
	DayShifts         int               `json:"day_shifts"`
	NightShifts       int               `json:"night_shifts"`
	TotalOTHours      decimal.Decimal   `json:"total_ot_hours"`
	TotalDOT          int               `json:"total_dot"`
	TotalPayableHours decimal.Decimal   `json:"total_payable_hours"`
	HolidayHours      decimal.Decimal   `json:"holiday_hours"`
	LeaveDays         decimal.Decimal   `json:"leave_days"`
	Status            Status            `json:"status"`
}

func (s Summary) ToResponse() SummaryResponse {
	return SummaryResponse{
		EmployeeID:        s.EmployeeID,
		EmpNo:             s.EmpNo,
		Name:              s.Name,
		UserType:          s.UserType,
		TotalShifts:       s.TotalShifts,
		MorningShifts:     s.MorningShifts,
		DayShifts:         s.DayShifts,
		NightShifts:       s.NightShifts,
		TotalOTHours:      s.TotalOTHours,
		TotalDOT:          s.TotalDOT,
		TotalPayableHours: s.TotalPayableHours,
		HolidayHours:      s.HolidayHours,
		LeaveDays:         s.LeaveDays,
		Status:            s.Status,
	}
}

// ========== APPROVAL DTOs ==========

type ExecutiveRecordInput struct {
	EmployeeID      string        `json:"employee_id"`
	TotalDaysWorked numeric.Field `json:"total_days_worked"`
	NoPayDays       numeric.Field `json:"no_pay_days"`
	HolidayClaims   numeric.Field `json:"holiday_claims"`
	LeaveDays       numeric.Field `json:"leave_days"`
	SalaryMonth     numeric.Field `json:"salary_month"`
}

type NonExecutiveRecordInput struct {
	EmployeeID  string        `json:"employee_id"`
	Shift1      numeric.Field `json:"shift1"`
	Shift2      numeric.Field `json:"shift2"`
	Shift3      numeric.Field `json:"shift3"`
	OT          numeric.Field `json:"ot"`
	DOT         numeric.Field `json:"dot"`
	NoPayDays   numeric.Field `json:"no_pay_days"`
	LeaveDays   numeric.Field `json:"leave_days"`
	SalaryMonth numeric.Field `json:"salary_month"`
}

type ApproveExecutiveRequest struct {
	PlantID string                 `json:"plant_id"`
	Year    int                    `json:"year"`
	Month   int                    `json:"month"`
	Records []ExecutiveRecordInput `json:"records"`
}

type ApproveNonExecutiveRequest struct {
	PlantID string                    `json:"plant_id"`
	Year    int                       `json:"year"`
	Month   int                       `json:"month"`
	Records []NonExecutiveRecordInput `json:"records"`
}

// ValidateBatch checks the batch header shared by both approval kinds.
func ValidateBatch(plantID string, year, month, records int) error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(plantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	if _, err := period.New(year, month); err != nil {
		errs.Add("month", err.Error())
	}
	if len(errs) > 0 {
		return errs
	}
	if records == 0 {
		return ErrEmptyBatch
	}
	return nil
}

// fieldResolver resolves numeric inputs in order and stops at the first failure.
type fieldResolver struct {
	employeeID string
	mode       numeric.Mode
	err        error
}

func (f *fieldResolver) decimal(name string, in numeric.Field) decimal.Decimal {
	if f.err != nil {
		return decimal.Zero
	}
	v, err := in.Resolve(f.mode)
	if err == nil && v.IsNegative() {
		err = ErrInvalidRange
	}
	if err != nil {
		f.err = &IncompleteRecordError{EmployeeID: f.employeeID, Field: name, Reason: err}
	}
	return v
}

func (f *fieldResolver) count(name string, in numeric.Field) int {
	if f.err != nil {
		return 0
	}
	v, err := in.ResolveInt(f.mode)
	if (err == nil && v < 0) || errors.Is(err, numeric.ErrOutOfRange) {
		err = ErrInvalidRange
	}
	if err != nil {
		f.err = &IncompleteRecordError{EmployeeID: f.employeeID, Field: name, Reason: err}
	}
	return v
}

// salaryMonth is never coerced and must equal the batch month.
func (f *fieldResolver) salaryMonth(in numeric.Field, batchMonth int) int {
	m := f.count("salary_month", in)
	switch {
	case f.err != nil:
	case m < 1 || m > 12 || in.IsMalformed():
		f.err = &IncompleteRecordError{EmployeeID: f.employeeID, Field: "salary_month", Reason: ErrInvalidRange}
	case m != batchMonth:
		f.err = &IncompleteRecordError{EmployeeID: f.employeeID, Field: "salary_month", Reason: ErrSalaryMonthMismatch}
	}
	return m
}

// ToRecord resolves the input into an approved record or an IncompleteRecordError.
func (in ExecutiveRecordInput) ToRecord(mode numeric.Mode, plantID string, year, month int) (Record, error) {
	if !validator.IsValidUUID(in.EmployeeID) {
		return Record{}, &IncompleteRecordError{EmployeeID: in.EmployeeID, Field: "employee_id", Reason: numeric.ErrAbsent}
	}
	f := fieldResolver{employeeID: in.EmployeeID, mode: mode}
	rec := Record{
		EmployeeID:      in.EmployeeID,
		PlantID:         plantID,
		UserType:        employee.UserTypeExecutive,
		Year:            year,
		TotalDaysWorked: f.decimal("total_days_worked", in.TotalDaysWorked),
		NoPayDays:       f.decimal("no_pay_days", in.NoPayDays),
		HolidayClaims:   f.decimal("holiday_claims", in.HolidayClaims),
		LeaveDays:       f.decimal("leave_days", in.LeaveDays),
		SalaryMonth:     f.salaryMonth(in.SalaryMonth, month),
		Status:          StatusApproved,
	}
	if f.err != nil {
		return Record{}, f.err
	}
	return rec, nil
}

// ToRecord resolves the input into an approved record or an IncompleteRecordError.
func (in NonExecutiveRecordInput) ToRecord(mode numeric.Mode, plantID string, year, month int) (Record, error) {
	if !validator.IsValidUUID(in.EmployeeID) {
		return Record{}, &IncompleteRecordError{EmployeeID: in.EmployeeID, Field: "employee_id", Reason: numeric.ErrAbsent}
	}
	f := fieldResolver{employeeID: in.EmployeeID, mode: mode}
	rec := Record{
		EmployeeID:  in.EmployeeID,
		PlantID:     plantID,
		UserType:    employee.UserTypeNonExecutive,
		Year:        year,
		Shift1:      f.count("shift1", in.Shift1),
		Shift2:      f.count("shift2", in.Shift2),
		Shift3:      f.count("shift3", in.Shift3),
		OTHours:     f.decimal("ot", in.OT),
		DOTDays:     f.count("dot", in.DOT),
		NoPayDays:   f.decimal("no_pay_days", in.NoPayDays),
		LeaveDays:   f.decimal("leave_days", in.LeaveDays),
		SalaryMonth: f.salaryMonth(in.SalaryMonth, month),
		Status:      StatusApproved,
	}
	if f.err != nil {
		return Record{}, f.err
	}
	return rec, nil
}

type ApproveResponse struct {
	PlantID  string `json:"plant_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Approved int    `json:"approved"`
}

// ========== APPROVED RECORD DTOs ==========

type RecordFilter struct {
	PlantID     string
	Year        int
	SalaryMonth int
	UserType    employee.UserType
}

type ListApprovedRequest struct {
	PlantID string
	Year    int
	Month   int
	Type    string
}

func (r ListApprovedRequest) Validate() (RecordFilter, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.PlantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	if _, err := period.New(r.Year, r.Month); err != nil {
		errs.Add("month", err.Error())
	}
	filter := RecordFilter{PlantID: r.PlantID, Year: r.Year, SalaryMonth: r.Month}
	switch r.Type {
	case "", "all":
	case "executive", string(employee.UserTypeExecutive):
		filter.UserType = employee.UserTypeExecutive
	case "non-executive", string(employee.UserTypeNonExecutive):
		filter.UserType = employee.UserTypeNonExecutive
	default:
		errs.Add("type", "must be executive or non-executive")
	}
	return filter, errs.OrNil()
}

type RecordResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	PlantID         string            `json:"plant_id"`
	UserType        employee.UserType `json:"user_type"`
	Year            int               `json:"year"`
	SalaryMonth     int               `json:"salary_month"`
	TotalDaysWorked *decimal.Decimal  `json:"total_days_worked,omitempty"`
	HolidayClaims   *decimal.Decimal  `json:"holiday_claims,omitempty"`
	Shift1          *int              `json:"shift1,omitempty"`
	Shift2          *int              `json:"shift2,omitempty"`
	Shift3          *int              `json:"shift3,omitempty"`
	OT              *decimal.Decimal  `json:"ot,omitempty"`
	DOT             *int              `json:"dot,omitempty"`
	NoPayDays       decimal.Decimal   `json:"no_pay_days"`
	LeaveDays       decimal.Decimal   `json:"leave_days"`
	Status          Status            `json:"status"`
	ApprovedAt      time.Time         `json:"approved_at"`
}

func (r Record) ToResponse() RecordResponse {
	resp := RecordResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		PlantID:     r.PlantID,
		UserType:    r.UserType,
		Year:        r.Year,
		SalaryMonth: r.SalaryMonth,
		NoPayDays:   r.NoPayDays,
		LeaveDays:   r.LeaveDays,
		Status:      r.Status,
		ApprovedAt:  r.ApprovedAt,
	}
	if r.UserType == employee.UserTypeExecutive {
		resp.TotalDaysWorked = &r.TotalDaysWorked
		resp.HolidayClaims = &r.HolidayClaims
		return resp
	}
	resp.Shift1, resp.Shift2, resp.Shift3 = &r.Shift1, &r.Shift2, &r.Shift3
	resp.OT = &r.OTHours
	resp.DOT = &r.DOTDays
	return resp
}
