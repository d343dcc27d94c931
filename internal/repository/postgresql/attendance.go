package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// ========== ENTRIES ==========

// UpsertEntry implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertEntry(ctx context.Context, entry attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	if entry.ID == "" {
		entry.ID = newID()
	}

	query := `
		INSERT INTO attendance_entries (id, employee_id, plant_id, date, shift, in_time, out_time, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, date, shift) DO UPDATE SET
			plant_id = EXCLUDED.plant_id,
			in_time = EXCLUDED.in_time,
			out_time = EXCLUDED.out_time,
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING id, employee_id, plant_id, date, shift, in_time, out_time, status, source, created_at, updated_at
	`

	var saved attendance.Entry
	err := q.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.PlantID, period.Day(entry.Date), string(entry.Shift),
		entry.InTime, entry.OutTime, string(entry.Status), string(entry.Source),
	).Scan(
		&saved.ID, &saved.EmployeeID, &saved.PlantID, &saved.Date, &saved.Shift,
		&saved.InTime, &saved.OutTime, &saved.Status, &saved.Source, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.Entry{}, fmt.Errorf("failed to upsert attendance entry: %w", err)
	}
	return saved, nil
}

// ListEntries implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListEntries(ctx context.Context, plantID string, month period.Month) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, plant_id, date, shift, in_time, out_time, status, source, created_at, updated_at
		FROM attendance_entries
		WHERE plant_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, shift, employee_id
	`
	rows, err := q.Query(ctx, query, plantID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.Entry
	for rows.Next() {
		var e attendance.Entry
		err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.PlantID, &e.Date, &e.Shift,
			&e.InTime, &e.OutTime, &e.Status, &e.Source, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ========== APPROVED RECORDS ==========

// UpsertRecords implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertRecords(ctx context.Context, records []attendance.Record) error {
	if len(records) == 0 {
		return nil
	}
	q := GetQuerier(ctx, a.db)

	const cols = 18
	args := make([]interface{}, 0, len(records)*cols)
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = newID()
		}
		args = append(args,
			id, r.EmployeeID, r.PlantID, string(r.UserType), r.Year, r.SalaryMonth,
			r.TotalDaysWorked, r.HolidayClaims, r.Shift1, r.Shift2, r.Shift3,
			r.OTHours, r.DOTDays, r.NoPayDays, r.LeaveDays,
			string(r.Status), r.ApprovedBy, r.ApprovedAt,
		)
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, plant_id, user_type, year, salary_month,
			total_days_worked, holiday_claims, shift1, shift2, shift3,
			ot_hours, dot_days, no_pay_days, leave_days,
			status, approved_by, approved_at
		) VALUES ` + valuesList(len(records), cols) + `
		ON CONFLICT (employee_id, plant_id, year, salary_month) DO UPDATE SET
			user_type = EXCLUDED.user_type,
			total_days_worked = EXCLUDED.total_days_worked,
			holiday_claims = EXCLUDED.holiday_claims,
			shift1 = EXCLUDED.shift1,
			shift2 = EXCLUDED.shift2,
			shift3 = EXCLUDED.shift3,
			ot_hours = EXCLUDED.ot_hours,
			dot_days = EXCLUDED.dot_days,
			no_pay_days = EXCLUDED.no_pay_days,
			leave_days = EXCLUDED.leave_days,
			status = EXCLUDED.status,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at
	`
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert attendance records: %w", err)
	}
	return nil
}

// ListRecords implements attendance.AttendanceRepository. Zero filter fields match everything.
func (a *attendanceRepository) ListRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var where []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.PlantID != "" {
		add("plant_id = $%d", filter.PlantID)
	}
	if filter.Year != 0 {
		add("year = $%d", filter.Year)
	}
	if filter.SalaryMonth != 0 {
		add("salary_month = $%d", filter.SalaryMonth)
	}
	if filter.UserType != "" {
		add("user_type = $%d", string(filter.UserType))
	}

	query := `
		SELECT id, employee_id, plant_id, user_type, year, salary_month,
			total_days_worked, holiday_claims, shift1, shift2, shift3,
			ot_hours, dot_days, no_pay_days, leave_days,
			status, approved_by, approved_at
		FROM attendance_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY year, salary_month, employee_id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var r attendance.Record
		err := rows.Scan(
			&r.ID, &r.EmployeeID, &r.PlantID, &r.UserType, &r.Year, &r.SalaryMonth,
			&r.TotalDaysWorked, &r.HolidayClaims, &r.Shift1, &r.Shift2, &r.Shift3,
			&r.OTHours, &r.DOTDays, &r.NoPayDays, &r.LeaveDays,
			&r.Status, &r.ApprovedBy, &r.ApprovedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
