package leave

import (
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
)

type LeaveType string

const (
	LeaveTypeCasual  LeaveType = "Casual"
	LeaveTypeAnnual  LeaveType = "Annual"
	LeaveTypeMedical LeaveType = "Medical"
)

var LeaveTypes = []string{string(LeaveTypeCasual), string(LeaveTypeAnnual), string(LeaveTypeMedical)}

type LeaveRequestStatus string

const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "waiting_approval"
	LeaveRequestStatusApproved        LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected        LeaveRequestStatus = "rejected"
)

var LeaveRequestStatuses = []string{
	string(LeaveRequestStatusWaitingApproval),
	string(LeaveRequestStatusApproved),
	string(LeaveRequestStatusRejected),
}

// LeaveRequest entity. EndDate equals StartDate for single-day leave.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Reason     *string

	Status          LeaveRequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
	PlantID      *string
}

// TotalDays counts calendar days from start to end inclusive.
func (r LeaveRequest) TotalDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// DaysIn counts the calendar days of the request that fall inside m.
func (r LeaveRequest) DaysIn(m period.Month) int {
	from, to := r.StartDate, r.EndDate
	if from.Before(m.Start()) {
		from = m.Start()
	}
	if to.After(m.End()) {
		to = m.End()
	}
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func (r LeaveRequest) IsProcessed() bool {
	return r.Status != LeaveRequestStatusWaitingApproval
}
