package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var july2025 = period.Month{Year: 2025, Month: time.July}

// ===== ROSTER REPOSITORY TESTS =====

func TestRosterRepository_ReplaceMonth(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	date := july2025.Date(7)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM roster_assignments WHERE plant_id = $1 AND date BETWEEN $2 AND $3")).
		WithArgs("plant-1", july2025.Start(), july2025.End()).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_assignments")).
		WithArgs(
			pgxmock.AnyArg(), "plant-1", date, "Morning", "sup-1", "supervisor",
			pgxmock.AnyArg(), "plant-1", date, "Morning", "lab-1", "laborer",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	repo := NewRosterRepository(db)
	err := WithTransaction(context.Background(), db, func(txCtx context.Context) error {
		return repo.ReplaceMonth(txCtx, "plant-1", july2025, []roster.Assignment{
			{PlantID: "plant-1", Date: date, Shift: roster.ShiftMorning, EmployeeID: "sup-1", Role: roster.AssignmentSupervisor},
			{PlantID: "plant-1", Date: date, Shift: roster.ShiftMorning, EmployeeID: "lab-1", Role: roster.AssignmentLaborer},
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepository_ReplaceSlot_UniqueViolation(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	date := july2025.Date(7)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM roster_assignments WHERE plant_id = $1 AND date = $2 AND shift = $3")).
		WithArgs("plant-1", date, "Night").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_assignments")).
		WillReturnError(&pgconn.PgError{Code: "23505", Detail: "Key (employee_id, date, shift) already exists."})

	err := NewRosterRepository(db).ReplaceSlot(context.Background(), "plant-1", date, roster.ShiftNight, []roster.Assignment{
		{PlantID: "plant-1", Date: date, Shift: roster.ShiftNight, EmployeeID: "sup-1", Role: roster.AssignmentSupervisor},
	})

	assert.ErrorIs(t, err, roster.ErrDoubleBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepository_ReplaceMonth_EmptySkipsInsert(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM roster_assignments")).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	err := NewRosterRepository(db).ReplaceMonth(context.Background(), "plant-1", july2025, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepository_FindConflicts(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	date := july2025.Date(7)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN unnest($2::uuid[], $3::date[], $4::text[])")).
		WithArgs("plant-1", []string{"lab-1"}, []time.Time{date}, []string{"Night"}).
		WillReturnRows(pgxmock.NewRows([]string{"plant_id", "date", "shift", "employee_id", "role"}).
			AddRow("plant-2", date, roster.ShiftNight, "lab-1", roster.AssignmentLaborer))

	conflicts, err := NewRosterRepository(db).FindConflicts(context.Background(), "plant-1", []roster.Assignment{
		{PlantID: "plant-1", Date: date, Shift: roster.ShiftNight, EmployeeID: "lab-1", Role: roster.AssignmentLaborer},
	})

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "plant-2", conflicts[0].PlantID)
	assert.Equal(t, roster.ShiftNight, conflicts[0].Shift)
	assert.NoError(t, mock.ExpectationsWereMet())
}
