package employee

import "context"

type EmployeeRepository interface {
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmpNo(ctx context.Context, empNo string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	GetByEmpNos(ctx context.Context, empNos []string) ([]Employee, error)
	UpdatePayrollProfile(ctx context.Context, id string, update PayrollProfileUpdate) error
}
