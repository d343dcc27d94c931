package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/auth"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/deduction"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/leave"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/user"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/fixedwidth"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var profileErr *employee.ProfileEditError
	if errors.As(err, &profileErr) {
		ValidationError(w, profileErr.ToMap())
		return
	}

	// Errors that name the offending employee and field
	var recordErr *attendance.IncompleteRecordError
	if errors.As(err, &recordErr) {
		unprocessable(w, "INCOMPLETE_RECORD", err.Error(), map[string]string{
			"employee_id":   recordErr.EmployeeID,
			recordErr.Field: recordErr.Reason.Error(),
		})
		return
	}

	var incompleteErr *payroll.IncompleteProfileError
	if errors.As(err, &incompleteErr) {
		details := map[string]string{"employee_id": incompleteErr.EmployeeID}
		for _, f := range incompleteErr.Fields {
			details[f] = "is required"
		}
		unprocessable(w, "INCOMPLETE_PROFILE", err.Error(), details)
		return
	}

	var inconsistentErr *payroll.InconsistentLineError
	if errors.As(err, &inconsistentErr) {
		unprocessable(w, "INCONSISTENT_LINE", err.Error(), map[string]string{
			"employee_id":         inconsistentErr.EmployeeID,
			inconsistentErr.Field: "expected " + inconsistentErr.Expected.StringFixed(2),
		})
		return
	}

	var lineErr *payroll.LineError
	if errors.As(err, &lineErr) {
		details := map[string]string{"employee_id": lineErr.EmployeeID}
		if lineErr.Field != "" {
			details[lineErr.Field] = lineErr.Err.Error()
		}
		unprocessable(w, "INVALID_LINE", err.Error(), details)
		return
	}

	var overflowErr *fixedwidth.OverflowError
	if errors.As(err, &overflowErr) {
		unprocessable(w, "EXPORT_FAILED", err.Error(), map[string]string{overflowErr.Field: "is too long"})
		return
	}

	var holidayErr *roster.HolidayError
	if errors.As(err, &holidayErr) {
		Conflict(w, holidayErr.Error())
		return
	}

	var bookingErr *roster.DoubleBookingError
	if errors.As(err, &bookingErr) {
		Conflict(w, bookingErr.Error())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Not found
	case errors.Is(err, plant.ErrPlantNotFound):
		NotFound(w, "Plant not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, payroll.ErrPayrollLineNotFound):
		NotFound(w, "Payroll line not found")
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Attendance entry not found")

	// Roster
	case errors.Is(err, roster.ErrRoleMismatch),
		errors.Is(err, roster.ErrSupervisorRequired),
		errors.Is(err, roster.ErrSlotOutOfRange):
		unprocessable(w, "ROSTER_REJECTED", err.Error(), nil)
	case errors.Is(err, roster.ErrInvalidShift), errors.Is(err, roster.ErrEmptyRoster):
		BadRequest(w, err.Error(), nil)

	// Leave
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())

	// Batches and uploads
	case errors.Is(err, attendance.ErrEmptyBatch),
		errors.Is(err, payroll.ErrEmptyBatch),
		errors.Is(err, payroll.ErrNoApprovedSalaries),
		errors.Is(err, deduction.ErrInvalidKind),
		errors.Is(err, spreadsheet.ErrUnsupportedFormat),
		errors.Is(err, spreadsheet.ErrNoHeader),
		errors.Is(err, spreadsheet.ErrNoRows),
		errors.Is(err, period.ErrInvalidMonth),
		errors.Is(err, holiday.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrDuplicateEmployee),
		errors.Is(err, attendance.ErrWrongUserType),
		errors.Is(err, attendance.ErrEmployeeNotInPlant),
		errors.Is(err, attendance.ErrInvalidTimeInterval),
		errors.Is(err, payroll.ErrDuplicateEmployee),
		errors.Is(err, payroll.ErrNegativeAmount),
		errors.Is(err, payroll.ErrNegativeNetPay):
		unprocessable(w, "INVALID_BATCH", err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
