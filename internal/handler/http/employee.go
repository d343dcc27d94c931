package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/holiday"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
)

type EmployeeHandler interface {
	ListPlants(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	UpdatePayrollProfile(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	holidayService  holiday.HolidayService
}

func NewEmployeeHandler(employeeService employee.EmployeeService, holidayService holiday.HolidayService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		holidayService:  holidayService,
	}
}

// ListPlants implements EmployeeHandler.
func (h *employeeHandlerImpl) ListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := h.employeeService.ListPlants(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, plants)
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		PlantID:  r.URL.Query().Get("plant_id"),
		Role:     employee.Role(r.URL.Query().Get("role")),
		UserType: employee.UserType(r.URL.Query().Get("user_type")),
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	emp, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// UpdatePayrollProfile implements EmployeeHandler. Fields that fail validation are
// reported next to the ones that were saved.
func (h *employeeHandlerImpl) UpdatePayrollProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req employee.UpdatePayrollProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePayrollProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.UpdatePayrollProfile(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Payroll profile updated successfully"
	if len(result.Rejected) > 0 {
		message = "Payroll profile partially updated"
	}
	response.SuccessWithMessage(w, message, result)
}

// ListHolidays implements EmployeeHandler.
func (h *employeeHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	year := queryInt(r, "year", &errs)
	if err := errs.OrNil(); err != nil {
		response.HandleError(w, err)
		return
	}

	holidays, err := h.holidayService.GetHolidays(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}
