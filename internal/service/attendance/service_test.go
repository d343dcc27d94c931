package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/leave"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	plantID = "aaaaaaaa-0000-0000-0000-000000000001"
	empA    = "bbbbbbbb-0000-0000-0000-000000000001"
	empB    = "bbbbbbbb-0000-0000-0000-000000000002"
	empExec = "bbbbbbbb-0000-0000-0000-000000000003"
)

// ========== FAKES ==========

type fakePlants struct{}

func (fakePlants) List(context.Context) ([]plant.Plant, error) { return nil, nil }

func (fakePlants) GetByID(_ context.Context, id string) (plant.Plant, error) {
	if id != plantID {
		return plant.Plant{}, plant.ErrPlantNotFound
	}
	return plant.Plant{ID: id, Name: "Kelaniya"}, nil
}

type fakeEmployees struct {
	employee.EmployeeRepository
	all []employee.Employee
}

func (f *fakeEmployees) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.all {
		if filter.PlantID == "" || e.PlantID == filter.PlantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.all {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, err := f.GetByID(context.Background(), id); err == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployees) GetByEmpNos(_ context.Context, empNos []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.all {
		for _, no := range empNos {
			if e.EmpNo == no {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

type fakeAttendance struct {
	entries []attendance.Entry
	records []attendance.Record
	filter  attendance.RecordFilter
	upserts int
}

func (f *fakeAttendance) UpsertEntry(_ context.Context, e attendance.Entry) (attendance.Entry, error) {
	f.upserts++
	e.ID = "entry-" + e.EmployeeID + "-" + period.FormatDate(e.Date)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeAttendance) ListEntries(_ context.Context, _ string, _ period.Month) ([]attendance.Entry, error) {
	return f.entries, nil
}

func (f *fakeAttendance) UpsertRecords(_ context.Context, records []attendance.Record) error {
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeAttendance) ListRecords(_ context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	f.filter = filter
	return f.records, nil
}

type fakeRoster struct {
	roster.RosterRepository
	assignments []roster.Assignment
}

func (f *fakeRoster) ListByMonth(context.Context, string, period.Month) ([]roster.Assignment, error) {
	return f.assignments, nil
}

type fakeLeave struct {
	leave.LeaveRequestRepository
	approved []leave.LeaveRequest
}

func (f *fakeLeave) ListApprovedInRange(context.Context, string, time.Time, time.Time) ([]leave.LeaveRequest, error) {
	return f.approved, nil
}

type fakeHolidays struct {
	holiday.HolidayService
	cal holiday.Calendar
}

func (f fakeHolidays) CalendarFor(context.Context, period.Month) (holiday.Calendar, error) {
	return f.cal, nil
}

type harness struct {
	svc        *AttendanceServiceImpl
	mock       pgxmock.PgxPoolIface
	attendance *fakeAttendance
	roster     *fakeRoster
	leave      *fakeLeave
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	employees := &fakeEmployees{all: []employee.Employee{
		{ID: empA, EmpNo: "E001", Name: "Amal", UserType: employee.UserTypeNonExecutive, Role: employee.RoleLaborer, PlantID: plantID},
		{ID: empB, EmpNo: "E002", Name: "Bimal", UserType: employee.UserTypeNonExecutive, Role: employee.RoleLaborer, PlantID: plantID},
		{ID: empExec, EmpNo: "E003", Name: "Chamari", UserType: employee.UserTypeExecutive, PlantID: plantID},
	}}
	policy := config.DefaultPolicy()
	h := &harness{
		mock:       mock,
		attendance: &fakeAttendance{},
		roster:     &fakeRoster{},
		leave:      &fakeLeave{},
	}
	cal := holiday.NewCalendar([]holiday.Holiday{{Date: july.Date(10), Name: "Esala Poya", Type: holiday.TypePoya}})
	svc := NewAttendanceService(database.New(mock), h.attendance, employees, fakePlants{}, h.roster, h.leave, fakeHolidays{cal: cal}, &policy)
	h.svc = svc.(*AttendanceServiceImpl)
	h.svc.now = func() time.Time { return time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC) }
	return h
}

// ===== RECORD ATTENDANCE TESTS =====

func TestAttendanceService_RecordAttendance(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	resp, err := h.svc.RecordAttendance(context.Background(), attendance.RecordAttendanceRequest{
		EmployeeID: empA, Date: "2025-07-03", Shift: "night", InTime: "22:00", OutTime: "07:00",
	})

	require.NoError(t, err)
	assert.Equal(t, plantID, resp.PlantID)
	assert.Equal(t, roster.ShiftNight, resp.Shift)
	assert.Equal(t, attendance.StatusPending, resp.Status)
	assert.Equal(t, attendance.SourceManual, resp.Source)
}

func TestAttendanceService_RecordAttendance_HalfInterval(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.RecordAttendance(context.Background(), attendance.RecordAttendanceRequest{
		EmployeeID: empA, Date: "2025-07-03", Shift: "Day", InTime: "14:00",
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, attendance.ErrInvalidTimeInterval.Error(), verrs.ToMap()["out_time"])
	assert.Zero(t, h.attendance.upserts)
}

// ===== IMPORT TESTS =====

func TestAttendanceService_ImportAttendance_CollectsRowErrors(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	csv := strings.Join([]string{
		"Employee No,Date,Shift,In Time,Out Time,Status",
		"E001,2025-07-01,Morning,06:00,14:00,Approved",
		"E002,2025-07-01,Morning,,,",
		"E999,2025-07-02,Day,14:00,22:00,",
		"E001,2025-07-02,day,14:00,23:00,Pending",
		"E002,2025-07-03,Night,22:00,06:30,",
	}, "\n")

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	result, err := h.svc.ImportAttendance(context.Background(), "july.csv", strings.NewReader(csv))

	require.NoError(t, err)
	assert.Len(t, result.Successes, 4)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "E999", result.Errors[0].EmployeeNo)
	assert.Contains(t, result.Errors[0].Errors, "employee_no")
	assert.Equal(t, 4, h.attendance.upserts)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceService_ImportAttendance_FieldErrors(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	csv := "employee_no,date,shift,in_time,out_time,status\n" +
		"E001,31/31/2025,Evening,25:00,,Done\n"

	result, err := h.svc.ImportAttendance(context.Background(), "bad.csv", strings.NewReader(csv))

	require.NoError(t, err)
	assert.Empty(t, result.Successes)
	require.Len(t, result.Errors, 1)
	for _, field := range []string{"date", "shift", "in_time", "status"} {
		assert.Contains(t, result.Errors[0].Errors, field)
	}
	assert.Zero(t, h.attendance.upserts)
	assert.NoError(t, h.mock.ExpectationsWereMet(), "no transaction without valid rows")
}

// ===== SUMMARY TESTS =====

func TestAttendanceService_Summarize(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.roster.assignments = []roster.Assignment{
		seat(empA, 1, roster.ShiftMorning),
		seat(empA, 10, roster.ShiftDay),
	}
	h.leave.approved = []leave.LeaveRequest{{
		EmployeeID: empExec,
		StartDate:  time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
		Status:     leave.LeaveRequestStatusApproved,
	}}

	got, err := h.svc.Summarize(context.Background(), attendance.SummaryRequest{PlantID: plantID, Year: 2025, Month: 7})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "E001", got[0].EmpNo)
	assert.Equal(t, 2, got[0].TotalShifts)
	assert.Equal(t, 1, got[0].TotalDOT)
	assert.Equal(t, "E003", got[1].EmpNo)
	assert.Equal(t, "2", got[1].LeaveDays.String(), "only July 1 and 2 fall inside the month")

	again, err := h.svc.Summarize(context.Background(), attendance.SummaryRequest{PlantID: plantID, Year: 2025, Month: 7})
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestAttendanceService_Summarize_UnknownPlant(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.Summarize(context.Background(), attendance.SummaryRequest{PlantID: "aaaaaaaa-0000-0000-0000-00000000ffff", Year: 2025, Month: 7})

	assert.ErrorIs(t, err, plant.ErrPlantNotFound)
}

// ===== APPROVAL TESTS =====

func nonExecRecord(employeeID string, salaryMonth string) attendance.NonExecutiveRecordInput {
	return attendance.NonExecutiveRecordInput{
		EmployeeID:  employeeID,
		Shift1:      numeric.Parse("10"),
		Shift2:      numeric.Parse("8"),
		Shift3:      numeric.Parse("4"),
		OT:          numeric.Parse("12.5"),
		DOT:         numeric.Parse("1"),
		NoPayDays:   numeric.Parse("0"),
		LeaveDays:   numeric.Parse("1"),
		SalaryMonth: numeric.Parse(salaryMonth),
	}
}

func withApprover(ctx context.Context, t *testing.T, userID string) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("user_id", userID))
	return jwtauth.NewContext(ctx, token, nil)
}

func TestAttendanceService_ApproveNonExecutive(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := withApprover(context.Background(), t, "approver-1")

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	resp, err := h.svc.ApproveNonExecutive(ctx, attendance.ApproveNonExecutiveRequest{
		PlantID: plantID, Year: 2025, Month: 7,
		Records: []attendance.NonExecutiveRecordInput{nonExecRecord(empA, "7"), nonExecRecord(empB, "7")},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Approved)
	require.Len(t, h.attendance.records, 2)
	rec := h.attendance.records[0]
	assert.Equal(t, 7, rec.SalaryMonth)
	assert.Equal(t, 10, rec.Shift1)
	assert.Equal(t, "12.5", rec.OTHours.String())
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, "approver-1", *rec.ApprovedBy)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceService_ApproveNonExecutive_SalaryMonthOutOfRange(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.ApproveNonExecutive(context.Background(), attendance.ApproveNonExecutiveRequest{
		PlantID: plantID, Year: 2025, Month: 7,
		Records: []attendance.NonExecutiveRecordInput{nonExecRecord(empA, "7"), nonExecRecord(empB, "13")},
	})

	var incomplete *attendance.IncompleteRecordError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, empB, incomplete.EmployeeID)
	assert.Equal(t, "salary_month", incomplete.Field)
	assert.ErrorIs(t, err, attendance.ErrIncompleteRecord)
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
	assert.Empty(t, h.attendance.records, "the whole batch is rejected")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceService_ApproveNonExecutive_SalaryMonthMustMatchBatch(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	// A December batch must not land on January of the same year.
	_, err := h.svc.ApproveNonExecutive(context.Background(), attendance.ApproveNonExecutiveRequest{
		PlantID: plantID, Year: 2025, Month: 12,
		Records: []attendance.NonExecutiveRecordInput{nonExecRecord(empA, "12"), nonExecRecord(empB, "1")},
	})

	var incomplete *attendance.IncompleteRecordError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, empB, incomplete.EmployeeID)
	assert.Equal(t, "salary_month", incomplete.Field)
	assert.ErrorIs(t, err, attendance.ErrSalaryMonthMismatch)
	assert.Empty(t, h.attendance.records)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceService_ApproveNonExecutive_HugeCountRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.svc.policy.NumericMode = numeric.Lenient

	huge := nonExecRecord(empB, "7")
	huge.Shift1 = numeric.Parse("1e30")
	_, err := h.svc.ApproveNonExecutive(context.Background(), attendance.ApproveNonExecutiveRequest{
		PlantID: plantID, Year: 2025, Month: 7,
		Records: []attendance.NonExecutiveRecordInput{nonExecRecord(empA, "7"), huge},
	})

	var incomplete *attendance.IncompleteRecordError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, empB, incomplete.EmployeeID)
	assert.Equal(t, "shift1", incomplete.Field)
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
	assert.Empty(t, h.attendance.records)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceService_ApproveBatchChecks(t *testing.T) {
	t.Parallel()

	var malformed attendance.ExecutiveRecordInput
	require.NoError(t, json.Unmarshal([]byte(`{"employee_id":"`+empExec+`","total_days_worked":"twenty","no_pay_days":0,"holiday_claims":1,"leave_days":0,"salary_month":7}`), &malformed))

	tests := []struct {
		name    string
		run     func(h *harness) error
		wantErr error
	}{
		{
			name: "malformed number in strict mode",
			run: func(h *harness) error {
				_, err := h.svc.ApproveExecutive(context.Background(), attendance.ApproveExecutiveRequest{
					PlantID: plantID, Year: 2025, Month: 7, Records: []attendance.ExecutiveRecordInput{malformed},
				})
				return err
			},
			wantErr: numeric.ErrMalformed,
		},
		{
			name: "wrong user type",
			run: func(h *harness) error {
				_, err := h.svc.ApproveNonExecutive(context.Background(), attendance.ApproveNonExecutiveRequest{
					PlantID: plantID, Year: 2025, Month: 7, Records: []attendance.NonExecutiveRecordInput{nonExecRecord(empExec, "7")},
				})
				return err
			},
			wantErr: attendance.ErrWrongUserType,
		},
		{
			name: "duplicate employee",
			run: func(h *harness) error {
				_, err := h.svc.ApproveNonExecutive(context.Background(), attendance.ApproveNonExecutiveRequest{
					PlantID: plantID, Year: 2025, Month: 7, Records: []attendance.NonExecutiveRecordInput{nonExecRecord(empA, "7"), nonExecRecord(empA, "7")},
				})
				return err
			},
			wantErr: attendance.ErrDuplicateEmployee,
		},
		{
			name: "empty batch",
			run: func(h *harness) error {
				_, err := h.svc.ApproveNonExecutive(context.Background(), attendance.ApproveNonExecutiveRequest{PlantID: plantID, Year: 2025, Month: 7})
				return err
			},
			wantErr: attendance.ErrEmptyBatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)

			err := tt.run(h)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, h.attendance.records)
			assert.NoError(t, h.mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceService_ApproveExecutive_LenientCoercesMalformed(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.svc.policy.NumericMode = numeric.Lenient

	var in attendance.ExecutiveRecordInput
	require.NoError(t, json.Unmarshal([]byte(`{"employee_id":"`+empExec+`","total_days_worked":"n/a","no_pay_days":0,"holiday_claims":2,"leave_days":0,"salary_month":7}`), &in))

	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
	_, err := h.svc.ApproveExecutive(context.Background(), attendance.ApproveExecutiveRequest{
		PlantID: plantID, Year: 2025, Month: 7, Records: []attendance.ExecutiveRecordInput{in},
	})

	require.NoError(t, err)
	require.Len(t, h.attendance.records, 1)
	assert.True(t, h.attendance.records[0].TotalDaysWorked.IsZero())
	assert.Equal(t, "2", h.attendance.records[0].HolidayClaims.String())
}

// ===== LIST APPROVED TESTS =====

func TestAttendanceService_ListApproved(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.attendance.records = []attendance.Record{
		{ID: "r1", EmployeeID: empA, PlantID: plantID, UserType: employee.UserTypeNonExecutive, Year: 2025, SalaryMonth: 7},
	}

	got, err := h.svc.ListApproved(context.Background(), attendance.ListApprovedRequest{PlantID: plantID, Year: 2025, Month: 7, Type: "non-executive"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, empA, got[0].EmployeeID)
	assert.Equal(t, attendance.RecordFilter{PlantID: plantID, Year: 2025, SalaryMonth: 7, UserType: employee.UserTypeNonExecutive}, h.attendance.filter)
}

func TestAttendanceService_ListApproved_InvalidQuery(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.ListApproved(context.Background(), attendance.ListApprovedRequest{PlantID: plantID, Year: 2025, Month: 13, Type: "contractor"})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "month")
	assert.Contains(t, errs.ToMap(), "type")
}
