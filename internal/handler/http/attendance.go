package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/plantops-hr/payroll-backend-go/internal/service/file"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Upload(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	ApproveExecutive(w http.ResponseWriter, r *http.Request)
	ApproveNonExecutive(w http.ResponseWriter, r *http.Request)
	ListApproved(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	fileService       file.FileService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, fileService file.FileService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		fileService:       fileService,
	}
}

// Record implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	entry, err := h.attendanceService.RecordAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", entry)
}

// Upload implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := readUpload(w, r, h.fileService, "attendance")
	if !ok {
		return
	}

	result, err := h.attendanceService.ImportAttendance(r.Context(), filename, bytes.NewReader(content))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance file processed", result)
}

// Summary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	req := attendance.SummaryRequest{
		PlantID: r.URL.Query().Get("plant_id"),
		Year:    queryInt(r, "year", &errs),
		Month:   queryInt(r, "month", &errs),
	}
	if err := errs.OrNil(); err != nil {
		response.HandleError(w, err)
		return
	}

	summaries, err := h.attendanceService.Summarize(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summaries)
}

// ApproveExecutive implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ApproveExecutive(w http.ResponseWriter, r *http.Request) {
	var req attendance.ApproveExecutiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveExecutive decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ApproveExecutive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Executive attendance approved successfully", result)
}

// ApproveNonExecutive implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ApproveNonExecutive(w http.ResponseWriter, r *http.Request) {
	var req attendance.ApproveNonExecutiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveNonExecutive decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ApproveNonExecutive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Non-executive attendance approved successfully", result)
}

// ListApproved implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListApproved(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	req := attendance.ListApprovedRequest{
		PlantID: r.URL.Query().Get("plant_id"),
		Year:    queryInt(r, "year", &errs),
		Month:   queryInt(r, "month", &errs),
		Type:    r.URL.Query().Get("type"),
	}
	if err := errs.OrNil(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListApproved(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
