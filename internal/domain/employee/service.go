package employee

import (
	"context"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/plant"
)

// EmployeeService is the read-only directory plus the payroll profile edit.
type EmployeeService interface {
	ListPlants(ctx context.Context) ([]plant.PlantResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	UpdatePayrollProfile(ctx context.Context, id string, req UpdatePayrollProfileRequest) (UpdatePayrollProfileResponse, error)
}
