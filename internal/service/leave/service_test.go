package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/leave"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empID     = "bbbbbbbb-0000-0000-0000-000000000001"
	requestID = "dddddddd-0000-0000-0000-000000000001"
)

type fakeEmployees struct {
	employee.EmployeeRepository
}

func (fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if id != empID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, EmpNo: "E001", Name: "Amal"}, nil
}

type fakeLeaveRepo struct {
	leave.LeaveRequestRepository
	requests map[string]leave.LeaveRequest
	overlap  bool
	created  []leave.LeaveRequest
	updates  []leave.LeaveRequestStatus
	approver *string
}

func (f *fakeLeaveRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = requestID
	r.CreatedAt = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	f.created = append(f.created, r)
	return r, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeLeaveRepo) UpdateStatus(_ context.Context, _ string, status leave.LeaveRequestStatus, approvedBy *string, _ *string) error {
	f.updates = append(f.updates, status)
	f.approver = approvedBy
	return nil
}

func (f *fakeLeaveRepo) HasOverlap(context.Context, string, time.Time, time.Time) (bool, error) {
	return f.overlap, nil
}

func pendingRequest() leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         requestID,
		EmployeeID: empID,
		LeaveType:  leave.LeaveTypeAnnual,
		StartDate:  time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC),
		Status:     leave.LeaveRequestStatusWaitingApproval,
	}
}

func strPtr(s string) *string { return &s }

// ===== CREATE TESTS =====

func TestLeaveService_CreateLeaveRequest(t *testing.T) {
	t.Parallel()
	repo := &fakeLeaveRepo{}
	svc := NewLeaveService(repo, fakeEmployees{})

	resp, err := svc.CreateLeaveRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: empID, LeaveType: "Medical", StartDate: "2025-07-14", EndDate: strPtr("2025-07-16"),
	})

	require.NoError(t, err)
	assert.Equal(t, requestID, resp.ID)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, leave.LeaveRequestStatusWaitingApproval, resp.Status)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Amal", *resp.EmployeeName)
}

func TestLeaveService_CreateLeaveRequest_SingleDay(t *testing.T) {
	t.Parallel()
	repo := &fakeLeaveRepo{}
	svc := NewLeaveService(repo, fakeEmployees{})

	resp, err := svc.CreateLeaveRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: empID, LeaveType: "Casual", StartDate: "2025-07-14",
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", resp.EndDate)
	assert.Equal(t, 1, resp.TotalDays)
}

func TestLeaveService_CreateLeaveRequest_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       leave.CreateLeaveRequestRequest
		overlap   bool
		wantErr   error
		wantField string
	}{
		{
			name:      "end before start",
			req:       leave.CreateLeaveRequestRequest{EmployeeID: empID, LeaveType: "Annual", StartDate: "2025-07-14", EndDate: strPtr("2025-07-13")},
			wantField: "end_date",
		},
		{
			name:      "unknown leave type",
			req:       leave.CreateLeaveRequestRequest{EmployeeID: empID, LeaveType: "Sabbatical", StartDate: "2025-07-14"},
			wantField: "leave_type",
		},
		{
			name:    "unknown employee",
			req:     leave.CreateLeaveRequestRequest{EmployeeID: "bbbbbbbb-0000-0000-0000-0000000000ff", LeaveType: "Annual", StartDate: "2025-07-14"},
			wantErr: employee.ErrEmployeeNotFound,
		},
		{
			name:    "overlapping request",
			req:     leave.CreateLeaveRequestRequest{EmployeeID: empID, LeaveType: "Annual", StartDate: "2025-07-14"},
			overlap: true,
			wantErr: leave.ErrOverlappingLeave,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &fakeLeaveRepo{overlap: tt.overlap}
			svc := NewLeaveService(repo, fakeEmployees{})

			_, err := svc.CreateLeaveRequest(context.Background(), tt.req)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantField != "" {
				var verrs validator.ValidationErrors
				require.True(t, errors.As(err, &verrs))
				assert.Contains(t, verrs.ToMap(), tt.wantField)
			}
			assert.Empty(t, repo.created)
		})
	}
}

// ===== APPROVAL TESTS =====

func TestLeaveService_ApproveLeaveRequest(t *testing.T) {
	t.Parallel()
	repo := &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{requestID: pendingRequest()}}
	svc := NewLeaveService(repo, fakeEmployees{})

	token := jwt.New()
	require.NoError(t, token.Set("user_id", "approver-1"))
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	resp, err := svc.ApproveLeaveRequest(ctx, requestID)

	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, resp.Status)
	require.NotNil(t, resp.ApprovedAt)
	require.NotNil(t, repo.approver)
	assert.Equal(t, "approver-1", *repo.approver)
	assert.Equal(t, []leave.LeaveRequestStatus{leave.LeaveRequestStatusApproved}, repo.updates)
}

func TestLeaveService_ApproveLeaveRequest_AlreadyProcessed(t *testing.T) {
	t.Parallel()
	done := pendingRequest()
	done.Status = leave.LeaveRequestStatusRejected
	repo := &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{requestID: done}}
	svc := NewLeaveService(repo, fakeEmployees{})

	_, err := svc.ApproveLeaveRequest(context.Background(), requestID)

	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Empty(t, repo.updates)
}

func TestLeaveService_ApproveLeaveRequest_NotFound(t *testing.T) {
	t.Parallel()
	svc := NewLeaveService(&fakeLeaveRepo{}, fakeEmployees{})

	_, err := svc.ApproveLeaveRequest(context.Background(), requestID)

	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_RejectLeaveRequest(t *testing.T) {
	t.Parallel()
	repo := &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{requestID: pendingRequest()}}
	svc := NewLeaveService(repo, fakeEmployees{})

	_, err := svc.RejectLeaveRequest(context.Background(), leave.RejectRequestRequest{RequestID: requestID})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp, err := svc.RejectLeaveRequest(context.Background(), leave.RejectRequestRequest{RequestID: requestID, Reason: "peak season"})
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "peak season", *resp.RejectionReason)
	assert.Nil(t, repo.approver)
}
