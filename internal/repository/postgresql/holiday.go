package postgresql

import (
	"context"
	"fmt"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) ListByYear(ctx context.Context, year int) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, name, type
		FROM holidays
		WHERE EXTRACT(YEAR FROM date) = $1
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays for %d: %w", year, err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.Date, &h.Name, &h.Type); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (r *holidayRepository) ListRules(ctx context.Context) ([]holiday.Rule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, type, recurrence, starts_on, ends_on FROM holiday_rules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holiday rules: %w", err)
	}
	defer rows.Close()

	var rules []holiday.Rule
	for rows.Next() {
		var rule holiday.Rule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Type, &rule.Recurrence, &rule.StartsOn, &rule.EndsOn); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
