package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	plantRepo    plant.PlantRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	plantRepo plant.PlantRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		plantRepo:    plantRepo,
	}
}

func (s *EmployeeServiceImpl) ListPlants(ctx context.Context) ([]plant.PlantResponse, error) {
	plants, err := s.plantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}

	responses := make([]plant.PlantResponse, 0, len(plants))
	for _, p := range plants {
		responses = append(responses, p.ToResponse())
	}
	return responses, nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if filter.PlantID != "" {
		if _, err := s.plantRepo.GetByID(ctx, filter.PlantID); err != nil {
			return nil, err
		}
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, e.ToResponse())
	}
	return responses, nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return emp.ToResponse(), nil
}

// UpdatePayrollProfile applies every acceptable field and reports the refused ones next to them.
// It fails only when nothing could be applied.
func (s *EmployeeServiceImpl) UpdatePayrollProfile(ctx context.Context, id string, req employee.UpdatePayrollProfileRequest) (employee.UpdatePayrollProfileResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		return employee.UpdatePayrollProfileResponse{}, err
	}

	update, rejected := req.Split()
	if update.IsEmpty() {
		if len(rejected) == 0 {
			return employee.UpdatePayrollProfileResponse{}, &employee.ProfileEditError{}
		}
		return employee.UpdatePayrollProfileResponse{}, &employee.ProfileEditError{Rejected: rejected}
	}

	if err := s.employeeRepo.UpdatePayrollProfile(ctx, id, update); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.UpdatePayrollProfileResponse{}, err
		}
		return employee.UpdatePayrollProfileResponse{}, fmt.Errorf("failed to update payroll profile: %w", err)
	}

	for _, r := range rejected {
		slog.Warn("payroll profile field rejected", "employee_id", id, "field", r.Field, "error", r.Err)
	}

	updated, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.UpdatePayrollProfileResponse{}, err
	}

	if rejected == nil {
		rejected = []employee.FieldRejection{}
	}
	return employee.UpdatePayrollProfileResponse{
		Employee: updated.ToResponse(),
		Applied:  update.Applied(),
		Rejected: rejected,
	}, nil
}
