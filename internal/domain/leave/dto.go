package leave

import (
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	Reason     *string `json:"reason,omitempty"`

	startDate time.Time
	endDate   time.Time
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	// Employee ID
	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	// Leave type
	if !validator.IsInSlice(r.LeaveType, LeaveTypes) {
		errs.Add("leave_type", "leave_type must be one of: Casual, Annual, Medical")
	}

	// Dates
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end := start
	if r.EndDate != nil && *r.EndDate != "" {
		if end, ok = validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		}
	}

	// Reason
	if r.Reason != nil && len(*r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	if len(errs) > 0 {
		return errs
	}

	r.startDate, r.endDate = start, end
	return nil
}

// Dates returns the parsed range. Only meaningful after Validate succeeded.
func (r CreateLeaveRequestRequest) Dates() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type RejectRequestRequest struct {
	RequestID string `json:"-"`
	Reason    string `json:"rejection_reason"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RequestID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("rejection_reason", "rejection_reason is required")
	}
	return errs.OrNil()
}

type LeaveRequestFilter struct {
	EmployeeID *string
	PlantID    *string
	Status     *string
	Month      *period.Month
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.PlantID != nil && !validator.IsValidUUID(*f.PlantID) {
		errs.Add("plant_id", "plant_id must be a valid UUID")
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, LeaveRequestStatuses) {
		errs.Add("status", "status must be one of: waiting_approval, approved, rejected")
	}
	return errs.OrNil()
}

type LeaveRequestResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    *string            `json:"employee_name,omitempty"`
	LeaveType       LeaveType          `json:"leave_type"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	TotalDays       int                `json:"total_days"`
	Reason          *string            `json:"reason,omitempty"`
	Status          LeaveRequestStatus `json:"status"`
	ApprovedBy      *string            `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func (r LeaveRequest) ToResponse() LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveType:       r.LeaveType,
		StartDate:       period.FormatDate(r.StartDate),
		EndDate:         period.FormatDate(r.EndDate),
		TotalDays:       r.TotalDays(),
		Reason:          r.Reason,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}
