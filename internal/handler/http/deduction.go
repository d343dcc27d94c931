package http

import (
	"bytes"
	"net/http"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/deduction"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/plantops-hr/payroll-backend-go/internal/service/file"
)

type DeductionHandler interface {
	UploadLoans(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)
	UploadTelephoneBills(w http.ResponseWriter, r *http.Request)
	ListTelephoneBills(w http.ResponseWriter, r *http.Request)
}

type DeductionHandlerImpl struct {
	deductionService deduction.DeductionService
	fileService      file.FileService
}

func NewDeductionHandler(deductionService deduction.DeductionService, fileService file.FileService) DeductionHandler {
	return &DeductionHandlerImpl{
		deductionService: deductionService,
		fileService:      fileService,
	}
}

// UploadLoans implements DeductionHandler.
func (h *DeductionHandlerImpl) UploadLoans(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, deduction.KindLoan)
}

// ListLoans implements DeductionHandler.
func (h *DeductionHandlerImpl) ListLoans(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, deduction.KindLoan)
}

// UploadTelephoneBills implements DeductionHandler.
func (h *DeductionHandlerImpl) UploadTelephoneBills(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, deduction.KindTelephoneBill)
}

// ListTelephoneBills implements DeductionHandler.
func (h *DeductionHandlerImpl) ListTelephoneBills(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, deduction.KindTelephoneBill)
}

func (h *DeductionHandlerImpl) upload(w http.ResponseWriter, r *http.Request, kind deduction.Kind) {
	content, filename, ok := readUpload(w, r, h.fileService, string(kind))
	if !ok {
		return
	}

	result, err := h.deductionService.Import(r.Context(), kind, filename, bytes.NewReader(content))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deduction file processed", result)
}

func (h *DeductionHandlerImpl) list(w http.ResponseWriter, r *http.Request, kind deduction.Kind) {
	month, err := period.Parse(r.URL.Query().Get("month"))
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("month", err.Error())
		response.HandleError(w, errs)
		return
	}

	records, err := h.deductionService.List(r.Context(), kind, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
