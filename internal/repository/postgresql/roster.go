package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

const uniqueViolation = "23505"

type rosterRepository struct {
	db *database.DB
}

func NewRosterRepository(db *database.DB) roster.RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) ListByMonth(ctx context.Context, plantID string, month period.Month) ([]roster.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT plant_id, date, shift, employee_id, role
		FROM roster_assignments
		WHERE plant_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, shift, role DESC, employee_id
	`
	rows, err := q.Query(ctx, query, plantID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for %s: %w", month, err)
	}
	defer rows.Close()

	var assignments []roster.Assignment
	for rows.Next() {
		var a roster.Assignment
		if err := rows.Scan(&a.PlantID, &a.Date, &a.Shift, &a.EmployeeID, &a.Role); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *rosterRepository) insert(ctx context.Context, assignments []roster.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	const cols = 6
	args := make([]interface{}, 0, len(assignments)*cols)
	for _, a := range assignments {
		args = append(args, newID(), a.PlantID, period.Day(a.Date), string(a.Shift), a.EmployeeID, string(a.Role))
	}
	query := `
		INSERT INTO roster_assignments (id, plant_id, date, shift, employee_id, role)
		VALUES ` + valuesList(len(assignments), cols)

	if _, err := q.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", roster.ErrDoubleBooked, pgErr.Detail)
		}
		return fmt.Errorf("failed to insert roster assignments: %w", err)
	}
	return nil
}

// ReplaceMonth implements roster.RosterRepository. Callers run it inside a transaction.
func (r *rosterRepository) ReplaceMonth(ctx context.Context, plantID string, month period.Month, assignments []roster.Assignment) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM roster_assignments WHERE plant_id = $1 AND date BETWEEN $2 AND $3`,
		plantID, month.Start(), month.End())
	if err != nil {
		return fmt.Errorf("failed to clear roster for %s: %w", month, err)
	}
	return r.insert(ctx, assignments)
}

// ReplaceSlot implements roster.RosterRepository.
func (r *rosterRepository) ReplaceSlot(ctx context.Context, plantID string, date time.Time, shift roster.Shift, assignments []roster.Assignment) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM roster_assignments WHERE plant_id = $1 AND date = $2 AND shift = $3`,
		plantID, period.Day(date), string(shift))
	if err != nil {
		return fmt.Errorf("failed to clear roster slot %s %s: %w", period.FormatDate(date), shift, err)
	}
	return r.insert(ctx, assignments)
}

// FindConflicts implements roster.RosterRepository.
func (r *rosterRepository) FindConflicts(ctx context.Context, plantID string, assignments []roster.Assignment) ([]roster.Assignment, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	employeeIDs := make([]string, len(assignments))
	dates := make([]time.Time, len(assignments))
	shifts := make([]string, len(assignments))
	for i, a := range assignments {
		employeeIDs[i] = a.EmployeeID
		dates[i] = period.Day(a.Date)
		shifts[i] = string(a.Shift)
	}

	query := `
		SELECT ra.plant_id, ra.date, ra.shift, ra.employee_id, ra.role
		FROM roster_assignments ra
		JOIN unnest($2::uuid[], $3::date[], $4::text[]) AS wanted(employee_id, date, shift)
			ON ra.employee_id = wanted.employee_id AND ra.date = wanted.date AND ra.shift = wanted.shift
		WHERE ra.plant_id <> $1
		ORDER BY ra.date, ra.shift
	`
	rows, err := q.Query(ctx, query, plantID, employeeIDs, dates, shifts)
	if err != nil {
		return nil, fmt.Errorf("failed to check roster conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []roster.Assignment
	for rows.Next() {
		var a roster.Assignment
		if err := rows.Scan(&a.PlantID, &a.Date, &a.Shift, &a.EmployeeID, &a.Role); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, a)
	}
	return conflicts, rows.Err()
}
