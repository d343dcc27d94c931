package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/service/file"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	Compute(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	ListApproved(w http.ResponseWriter, r *http.Request)
	ExportBankFile(w http.ResponseWriter, r *http.Request)
	ExportRegister(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
	fileService    file.FileService
}

func NewPayrollHandler(payrollService payroll.PayrollService, fileService file.FileService) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService: payrollService,
		fileService:    fileService,
	}
}

// Compute implements PayrollHandler.
func (h *PayrollHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	lines, err := h.payrollService.ComputeSalaries(r.Context(), payroll.ComputeSalariesRequest{
		Month:   r.URL.Query().Get("month"),
		PlantID: queryOptional(r, "plant_id"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, lines)
}

// Approve implements PayrollHandler.
func (h *PayrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req payroll.ApproveSalariesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Approve decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.ApproveSalaries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salaries approved successfully", result)
}

// ListApproved implements PayrollHandler.
func (h *PayrollHandlerImpl) ListApproved(w http.ResponseWriter, r *http.Request) {
	lines, err := h.payrollService.ListApproved(r.Context(), payroll.ListApprovedRequest{
		Month:   r.URL.Query().Get("month"),
		PlantID: queryOptional(r, "plant_id"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, lines)
}

func exportRequest(r *http.Request) payroll.ExportRequest {
	return payroll.ExportRequest{
		Month:   r.URL.Query().Get("month"),
		PlantID: queryOptional(r, "plant_id"),
	}
}

// archive keeps a copy of a served export. The month was validated by the export itself.
func (h *PayrollHandlerImpl) archive(r *http.Request, req payroll.ExportRequest, filename string, content []byte) {
	month, err := period.Parse(req.Month)
	if err != nil {
		return
	}
	key, err := h.fileService.ArchiveExport(r.Context(), month, filename, bytes.NewReader(content))
	if err != nil {
		slog.Warn("Failed to archive export", "error", err, "filename", filename)
		return
	}
	slog.Info("Export archived", "key", key)
}

// ExportBankFile implements PayrollHandler.
func (h *PayrollHandlerImpl) ExportBankFile(w http.ResponseWriter, r *http.Request) {
	req := exportRequest(r)
	var buf bytes.Buffer
	result, err := h.payrollService.ExportBankFile(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.archive(r, req, result.Filename, buf.Bytes())

	if len(result.Skipped) > 0 {
		w.Header().Set("X-Skipped-Employees", strings.Join(result.Skipped, ","))
	}
	if len(result.Rejected) > 0 {
		rejected := make([]string, 0, len(result.Rejected))
		for _, r := range result.Rejected {
			rejected = append(rejected, r.String())
		}
		w.Header().Set("X-Rejected-Employees", strings.Join(rejected, ","))
	}
	if err := response.Attachment(w, "text/plain; charset=utf-8", result.Filename, &buf); err != nil {
		slog.Error("Failed to write bank file", "error", err, "filename", result.Filename)
	}
}

// ExportRegister implements PayrollHandler.
func (h *PayrollHandlerImpl) ExportRegister(w http.ResponseWriter, r *http.Request) {
	req := exportRequest(r)
	var buf bytes.Buffer
	filename, err := h.payrollService.ExportRegister(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	h.archive(r, req, filename, buf.Bytes())

	if err := response.Attachment(w, xlsxContentType, filename, &buf); err != nil {
		slog.Error("Failed to write salary register", "error", err, "filename", filename)
	}
}
