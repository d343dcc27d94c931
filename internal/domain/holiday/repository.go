package holiday

import "context"

type HolidayRepository interface {
	// ListByYear returns the explicitly dated holidays of a year.
	ListByYear(ctx context.Context, year int) ([]Holiday, error)
	// ListRules returns every recurring holiday rule.
	ListRules(ctx context.Context) ([]Rule, error)
}
