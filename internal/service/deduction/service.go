package deduction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/deduction"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/period"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
)

type DeductionServiceImpl struct {
	deductionRepo deduction.DeductionRepository
	employeeRepo  employee.EmployeeRepository
	mode          numeric.Mode
}

func NewDeductionService(
	deductionRepo deduction.DeductionRepository,
	employeeRepo employee.EmployeeRepository,
	mode numeric.Mode,
) deduction.DeductionService {
	return &DeductionServiceImpl{
		deductionRepo: deductionRepo,
		employeeRepo:  employeeRepo,
		mode:          mode,
	}
}

// rowSource adapts both upload row shapes to the shared Row view.
type rowSource interface {
	Row() deduction.Row
}

func decodeRows(kind deduction.Kind, filename string, r io.Reader) ([]deduction.Row, []interface{}, error) {
	switch kind {
	case deduction.KindLoan:
		var rows []deduction.LoanRow
		if err := spreadsheet.Decode(filename, r, &rows); err != nil {
			return nil, nil, err
		}
		return collect(rows)
	case deduction.KindTelephoneBill:
		var rows []deduction.BillRow
		if err := spreadsheet.Decode(filename, r, &rows); err != nil {
			return nil, nil, err
		}
		return collect(rows)
	default:
		return nil, nil, deduction.ErrInvalidKind
	}
}

func collect[T rowSource](rows []T) ([]deduction.Row, []interface{}, error) {
	out := make([]deduction.Row, len(rows))
	raw := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r.Row()
		raw[i] = r
	}
	return out, raw, nil
}

// Import upserts every valid row; invalid rows are reported by their 1-based data row number.
func (s *DeductionServiceImpl) Import(ctx context.Context, kind deduction.Kind, filename string, r io.Reader) (deduction.ImportResponse, error) {
	rows, raw, err := decodeRows(kind, filename, r)
	if err != nil {
		return deduction.ImportResponse{}, err
	}

	empNos := make([]string, 0, len(rows))
	for _, row := range rows {
		if v := strings.TrimSpace(row.EmployeeNo); v != "" {
			empNos = append(empNos, v)
		}
	}
	known, err := s.employeeRepo.GetByEmpNos(ctx, empNos)
	if err != nil {
		return deduction.ImportResponse{}, fmt.Errorf("failed to look up employees: %w", err)
	}
	exists := make(map[string]bool, len(known))
	for _, e := range known {
		exists[e.EmpNo] = true
	}

	result := deduction.ImportResponse{
		Successes: []deduction.RecordResponse{},
		Errors:    []spreadsheet.RowError{},
	}
	type key struct {
		empNo string
		month period.Month
	}
	seen := make(map[key]bool)
	var records []deduction.Record

	for i, row := range rows {
		if row.EmployeeNo == "" && row.Amount.IsAbsent() && row.Month == "" {
			continue
		}
		row.EmployeeNo = strings.TrimSpace(row.EmployeeNo)
		rec, errs := s.parseRow(kind, row, raw[i], exists)
		if len(errs) == 0 {
			k := key{rec.EmployeeNo, rec.Month}
			if seen[k] {
				errs = map[string]string{row.MonthField: deduction.ErrDuplicateInFile.Error()}
			}
			seen[k] = true
		}
		if len(errs) > 0 {
			result.Errors = append(result.Errors, spreadsheet.RowError{Row: i + 1, EmployeeNo: row.EmployeeNo, Errors: errs})
			continue
		}
		records = append(records, rec)
	}

	if len(records) > 0 {
		if err := s.deductionRepo.Upsert(ctx, records); err != nil {
			return deduction.ImportResponse{}, fmt.Errorf("failed to save %s records: %w", kind, err)
		}
		for _, rec := range records {
			result.Successes = append(result.Successes, rec.ToResponse())
		}
	}

	slog.Info("deduction upload processed", "kind", kind, "file", filename, "saved", len(records), "rejected", len(result.Errors))
	return result, nil
}

func (s *DeductionServiceImpl) parseRow(kind deduction.Kind, row deduction.Row, raw interface{}, exists map[string]bool) (deduction.Record, map[string]string) {
	errs := map[string]string{}
	if err := validator.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for k, v := range verrs.ToMap() {
				errs[k] = v
			}
		}
	}

	rec := deduction.Record{Kind: kind, EmployeeNo: row.EmployeeNo}
	if _, failed := errs["employee_no"]; !failed && !exists[row.EmployeeNo] {
		errs["employee_no"] = deduction.ErrUnknownEmployee.Error()
	}

	amount, err := row.Amount.Resolve(s.mode)
	switch {
	case err != nil:
		errs[row.AmountField] = err.Error()
	case amount.IsNegative():
		errs[row.AmountField] = deduction.ErrNegativeAmount.Error()
	default:
		rec.Amount = amount
	}

	if _, failed := errs[row.MonthField]; !failed {
		m, err := spreadsheet.ParseMonth(row.Month)
		if err == nil {
			rec.Month, err = period.Parse(m)
		}
		if err != nil {
			errs[row.MonthField] = period.ErrInvalidMonth.Error()
		}
	}

	if len(errs) > 0 {
		return deduction.Record{}, errs
	}
	return rec, nil
}

func (s *DeductionServiceImpl) List(ctx context.Context, kind deduction.Kind, month period.Month) ([]deduction.RecordResponse, error) {
	if !kind.Valid() {
		return nil, deduction.ErrInvalidKind
	}
	records, err := s.deductionRepo.ListByMonth(ctx, kind, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}

	responses := make([]deduction.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}

func (s *DeductionServiceImpl) Lookup(ctx context.Context, kind deduction.Kind, month period.Month) (deduction.Lookup, error) {
	if !kind.Valid() {
		return nil, deduction.ErrInvalidKind
	}
	records, err := s.deductionRepo.ListByMonth(ctx, kind, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}
	return deduction.NewLookup(records), nil
}
