package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/leave"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason, lr.status,
		lr.approved_by, lr.approved_at, lr.rejection_reason, lr.created_at, lr.updated_at,
		e.name, e.plant_id
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.Reason, &lr.Status,
		&lr.ApprovedBy, &lr.ApprovedAt, &lr.RejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.PlantID,
	)
	return lr, err
}

func (r *leaveRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		request.ID = newID()
	}

	query := `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, employee_id, leave_type, start_date, end_date, reason, status,
			approved_by, approved_at, rejection_reason, created_at, updated_at
	`

	var created leave.LeaveRequest
	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, string(request.LeaveType), request.StartDate, request.EndDate,
		request.Reason, string(request.Status),
	).Scan(
		&created.ID, &created.EmployeeID, &created.LeaveType, &created.StartDate, &created.EndDate,
		&created.Reason, &created.Status, &created.ApprovedBy, &created.ApprovedAt,
		&created.RejectionReason, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+" WHERE lr.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	var where []string
	var args []interface{}
	add := func(cond string, arg ...interface{}) {
		placeholders := make([]interface{}, len(arg))
		for i, a := range arg {
			args = append(args, a)
			placeholders[i] = len(args)
		}
		where = append(where, fmt.Sprintf(cond, placeholders...))
	}
	if filter.EmployeeID != nil {
		add("lr.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.PlantID != nil {
		add("e.plant_id = $%d", *filter.PlantID)
	}
	if filter.Status != nil {
		add("lr.status = $%d", *filter.Status)
	}
	if filter.Month != nil {
		add("lr.start_date <= $%d AND lr.end_date >= $%d", filter.Month.End(), filter.Month.Start())
	}

	query := leaveRequestSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY lr.start_date DESC, lr.created_at DESC"

	requests, err := r.queryRequests(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// UpdateStatus implements leave.LeaveRequestRepository. Only waiting requests change.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, approvedBy *string, rejectionReason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, approved_at = NOW(), rejection_reason = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`
	tag, err := q.Exec(ctx, query, id, string(status), approvedBy, rejectionReason, string(leave.LeaveRequestStatusWaitingApproval))
	if err != nil {
		return fmt.Errorf("failed to update leave request %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}

// HasOverlap implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) HasOverlap(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1 AND status <> $2 AND start_date <= $4 AND end_date >= $3
		)
	`
	var exists bool
	err := q.QueryRow(ctx, query, employeeID, string(leave.LeaveRequestStatusRejected), from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// ListApprovedInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListApprovedInRange(ctx context.Context, plantID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	query := leaveRequestSelect + `
		WHERE e.plant_id = $1 AND lr.status = $2 AND lr.start_date <= $4 AND lr.end_date >= $3
		ORDER BY lr.start_date`

	requests, err := r.queryRequests(ctx, query, plantID, string(leave.LeaveRequestStatusApproved), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	return requests, nil
}
