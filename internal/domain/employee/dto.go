package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== DIRECTORY DTOs ==========

type EmployeeFilter struct {
	PlantID  string
	Role     Role
	UserType UserType
}

func (f EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.PlantID != "" && !validator.IsValidUUID(f.PlantID) {
		errs.Add("plant_id", "must be a valid UUID")
	}
	if f.Role != "" && !validator.IsInSlice(string(f.Role), []string{string(RoleSupervisor), string(RoleLaborer), string(RoleOther)}) {
		errs.Add("role", "must be one of: supervisor, laborer, other")
	}
	if f.UserType != "" && f.UserType != UserTypeExecutive && f.UserType != UserTypeNonExecutive {
		errs.Add("user_type", "must be Executive or NonExecutive")
	}
	return errs.OrNil()
}

type EmployeeResponse struct {
	ID            string                 `json:"id"`
	EmpNo         string                 `json:"emp_no"`
	Name          string                 `json:"name"`
	UserType      UserType               `json:"user_type"`
	Role          Role                   `json:"role,omitempty"`
	PlantID       string                 `json:"plant_id"`
	ContractType  ContractType           `json:"contract_type"`
	AppointedDate *string                `json:"appointed_date,omitempty"`
	IsManager     bool                   `json:"is_manager"`
	NIC           string                 `json:"nic,omitempty"`
	Mobile        string                 `json:"mobile,omitempty"`
	Payroll       PayrollProfileResponse `json:"payroll"`
}

type PayrollProfileResponse struct {
	AnnualSalary    *decimal.Decimal `json:"annual_salary"`
	MonthlySalary   *decimal.Decimal `json:"monthly_salary"`
	PayGrade        string           `json:"pay_grade"`
	JobLevel        string           `json:"job_level"`
	BankName        string           `json:"bank_name"`
	AccountNumber   string           `json:"account_number"`
	Branch          string           `json:"branch"`
	TaxID           string           `json:"tax_id"`
	TaxFilingStatus TaxFilingStatus  `json:"tax_filing_status"`
	BankCode        string           `json:"bank_code"`
	BranchCode      string           `json:"branch_code"`
	TransactionType TransactionType  `json:"transaction_type"`
}

func (e Employee) ToResponse() EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		EmpNo:        e.EmpNo,
		Name:         e.Name,
		UserType:     e.UserType,
		Role:         e.Role,
		PlantID:      e.PlantID,
		ContractType: e.ContractType,
		IsManager:    e.IsManager,
		NIC:          e.NIC,
		Mobile:       e.Mobile,
		Payroll: PayrollProfileResponse{
			AnnualSalary:    e.Payroll.AnnualSalary,
			MonthlySalary:   e.Payroll.BasicSalary,
			PayGrade:        e.Payroll.PayGrade,
			JobLevel:        e.Payroll.JobLevel,
			BankName:        e.Payroll.BankName,
			AccountNumber:   e.Payroll.AccountNumber,
			Branch:          e.Payroll.Branch,
			TaxID:           e.Payroll.TaxID,
			TaxFilingStatus: e.Payroll.TaxFilingStatus,
			BankCode:        e.Payroll.BankCode,
			BranchCode:      e.Payroll.BranchCode,
			TransactionType: e.Payroll.TransactionType,
		},
	}
	if e.AppointedDate != nil {
		d := e.AppointedDate.Format(time.DateOnly)
		resp.AppointedDate = &d
	}
	return resp
}

// ========== PAYROLL PROFILE DTOs ==========

// UpdatePayrollProfileRequest is a partial edit. Omitted fields are left unchanged.
type UpdatePayrollProfileRequest struct {
	AnnualSalary    numeric.Field `json:"annual_salary"`
	MonthlySalary   numeric.Field `json:"monthly_salary"`
	PayGrade        *string       `json:"pay_grade,omitempty"`
	JobLevel        *string       `json:"job_level,omitempty"`
	BankName        *string       `json:"bank_name,omitempty"`
	AccountNumber   *string       `json:"account_number,omitempty"`
	Branch          *string       `json:"branch,omitempty"`
	TaxID           *string       `json:"tax_id,omitempty"`
	TaxFilingStatus *string       `json:"tax_filing_status,omitempty"`
	BankCode        *string       `json:"bank_code,omitempty"`
	BranchCode      *string       `json:"branch_code,omitempty"`
	TransactionType *string       `json:"transaction_type,omitempty"`
}

// PayrollProfileUpdate carries only the accepted edits. Nil means unchanged.
type PayrollProfileUpdate struct {
	AnnualSalary    *decimal.Decimal
	BasicSalary     *decimal.Decimal
	PayGrade        *string
	JobLevel        *string
	BankName        *string
	AccountNumber   *string
	Branch          *string
	TaxID           *string
	TaxFilingStatus *TaxFilingStatus
	BankCode        *string
	BranchCode      *string
	TransactionType *TransactionType
}

// Applied returns the wire names of the accepted edits in request order.
func (u PayrollProfileUpdate) Applied() []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add("annual_salary", u.AnnualSalary != nil)
	add("monthly_salary", u.BasicSalary != nil)
	add("pay_grade", u.PayGrade != nil)
	add("job_level", u.JobLevel != nil)
	add("bank_name", u.BankName != nil)
	add("account_number", u.AccountNumber != nil)
	add("branch", u.Branch != nil)
	add("tax_id", u.TaxID != nil)
	add("tax_filing_status", u.TaxFilingStatus != nil)
	add("bank_code", u.BankCode != nil)
	add("branch_code", u.BranchCode != nil)
	add("transaction_type", u.TransactionType != nil)
	return fields
}

func (u PayrollProfileUpdate) IsEmpty() bool {
	return len(u.Applied()) == 0
}

// Split separates the acceptable edits from the rejected ones. A rejected field never blocks
// the others.
func (r UpdatePayrollProfileRequest) Split() (PayrollProfileUpdate, []FieldRejection) {
	var update PayrollProfileUpdate
	var rejected []FieldRejection

	salary := func(name string, f numeric.Field) *decimal.Decimal {
		if f.IsAbsent() {
			return nil
		}
		v, err := f.Resolve(numeric.Strict)
		if err != nil || v.IsNegative() {
			rejected = append(rejected, FieldRejection{Field: name, Value: f.Raw(), Message: "must be a non-negative number", Err: ErrInvalidNumber})
			return nil
		}
		return &v
	}
	update.AnnualSalary = salary("annual_salary", r.AnnualSalary)
	update.BasicSalary = salary("monthly_salary", r.MonthlySalary)

	text := func(name string, s *string, max int) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		if v == "" || len(v) > max {
			rejected = append(rejected, FieldRejection{Field: name, Value: *s, Message: fmt.Sprintf("must be between 1 and %d characters", max), Err: ErrInvalidText})
			return nil
		}
		return &v
	}
	update.PayGrade = text("pay_grade", r.PayGrade, 50)
	update.JobLevel = text("job_level", r.JobLevel, 50)
	update.BankName = text("bank_name", r.BankName, 100)
	update.Branch = text("branch", r.Branch, 100)
	update.TaxID = text("tax_id", r.TaxID, 50)

	digits := func(name string, s *string, max int) *string {
		v := text(name, s, max)
		if v != nil && !validator.IsNumeric(*v) {
			rejected = append(rejected, FieldRejection{Field: name, Value: *v, Message: "must contain digits only", Err: ErrInvalidNumber})
			return nil
		}
		return v
	}
	update.AccountNumber = digits("account_number", r.AccountNumber, 12)
	update.BankCode = digits("bank_code", r.BankCode, 4)
	update.BranchCode = digits("branch_code", r.BranchCode, 3)

	if r.TaxFilingStatus != nil {
		if validator.IsInSlice(*r.TaxFilingStatus, TaxFilingStatuses) {
			s := TaxFilingStatus(*r.TaxFilingStatus)
			update.TaxFilingStatus = &s
		} else {
			rejected = append(rejected, FieldRejection{Field: "tax_filing_status", Value: *r.TaxFilingStatus, Message: "must be one of: " + strings.Join(TaxFilingStatuses, ", "), Err: ErrInvalidEnum})
		}
	}
	if r.TransactionType != nil {
		if validator.IsInSlice(*r.TransactionType, TransactionTypes) {
			t := TransactionType(*r.TransactionType)
			update.TransactionType = &t
		} else {
			rejected = append(rejected, FieldRejection{Field: "transaction_type", Value: *r.TransactionType, Message: "must be one of: " + strings.Join(TransactionTypes, ", "), Err: ErrInvalidEnum})
		}
	}

	return update, rejected
}

type UpdatePayrollProfileResponse struct {
	Employee EmployeeResponse `json:"employee"`
	Applied  []string         `json:"applied"`
	Rejected []FieldRejection `json:"rejected"`
}
