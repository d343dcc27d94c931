package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, approvedBy *string, rejectionReason *string) error
	// HasOverlap reports whether a pending or approved request of the employee intersects [from, to].
	HasOverlap(ctx context.Context, employeeID string, from, to time.Time) (bool, error)
	// ListApprovedInRange returns approved requests of a plant's employees intersecting [from, to].
	ListApprovedInRange(ctx context.Context, plantID string, from, to time.Time) ([]LeaveRequest, error)
}
