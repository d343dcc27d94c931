package postgresql_test

import (
	"context"
	"testing"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== ROSTER REPOSITORY INTEGRATION TESTS =====

func TestRosterRepository_ReplaceAndList(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewRosterRepository(setup.DB)

	plantID := setup.createPlant(t, "P1")
	supervisor := setup.createEmployee(t, plantID, "S-001", "supervisor")
	laborer := setup.createEmployee(t, plantID, "L-001", "laborer")

	month, err := period.New(2025, 7)
	require.NoError(t, err)

	assignments := []roster.Assignment{
		{PlantID: plantID, Date: month.Date(2), Shift: roster.ShiftMorning, EmployeeID: supervisor, Role: roster.AssignmentSupervisor},
		{PlantID: plantID, Date: month.Date(2), Shift: roster.ShiftMorning, EmployeeID: laborer, Role: roster.AssignmentLaborer},
	}

	err = postgresql.WithTransaction(ctx, setup.DB, func(txCtx context.Context) error {
		return repo.ReplaceMonth(txCtx, plantID, month, assignments)
	})
	require.NoError(t, err)

	got, err := repo.ListByMonth(ctx, plantID, month)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, roster.AssignmentSupervisor, got[0].Role)
	assert.Equal(t, supervisor, got[0].EmployeeID)
	assert.Equal(t, "2025-07-02", period.FormatDate(got[0].Date))

	// Replacing the month with nothing clears it.
	err = postgresql.WithTransaction(ctx, setup.DB, func(txCtx context.Context) error {
		return repo.ReplaceMonth(txCtx, plantID, month, nil)
	})
	require.NoError(t, err)

	got, err = repo.ListByMonth(ctx, plantID, month)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRosterRepository_CrossPlantDoubleBooking(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewRosterRepository(setup.DB)

	plantA := setup.createPlant(t, "PA")
	plantB := setup.createPlant(t, "PB")
	supervisor := setup.createEmployee(t, plantA, "S-100", "supervisor")

	month, err := period.New(2025, 7)
	require.NoError(t, err)

	seat := func(plantID string) []roster.Assignment {
		return []roster.Assignment{
			{PlantID: plantID, Date: month.Date(3), Shift: roster.ShiftNight, EmployeeID: supervisor, Role: roster.AssignmentSupervisor},
		}
	}

	require.NoError(t, repo.ReplaceSlot(ctx, plantA, month.Date(3), roster.ShiftNight, seat(plantA)))

	conflicts, err := repo.FindConflicts(ctx, plantB, seat(plantB))
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, plantA, conflicts[0].PlantID)

	err = repo.ReplaceSlot(ctx, plantB, month.Date(3), roster.ShiftNight, seat(plantB))
	assert.ErrorIs(t, err, roster.ErrDoubleBooked)
}
