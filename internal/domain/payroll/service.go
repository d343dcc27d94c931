package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	ComputeSalaries(ctx context.Context, req ComputeSalariesRequest) ([]PayrollLineResponse, error)
	ApproveSalaries(ctx context.Context, req ApproveSalariesRequest) (ApproveSalariesResponse, error)
	ListApproved(ctx context.Context, req ListApprovedRequest) ([]PayrollLineResponse, error)
	// ExportBankFile writes the fixed-width transfer file for the month's approved salaries.
	ExportBankFile(ctx context.Context, req ExportRequest, w io.Writer) (BankFileResult, error)
	// ExportRegister writes the month's approved salaries as an xlsx workbook.
	ExportRegister(ctx context.Context, req ExportRequest, w io.Writer) (string, error)
}
