package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== LEAVE REQUEST REPOSITORY TESTS =====

func TestLeaveRequestRepository_UpdateStatus_AlreadyProcessed(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	approver := "user-1"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_requests")).
		WithArgs("lr-1", "approved", &approver, (*string)(nil), "waiting_approval").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewLeaveRequestRepository(db).UpdateStatus(context.Background(), "lr-1", leave.LeaveRequestStatusApproved, &approver, nil)

	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRequestRepository_HasOverlap(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	from := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("emp-1", "rejected", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	overlap, err := NewLeaveRequestRepository(db).HasOverlap(context.Background(), "emp-1", from, to)

	require.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}
