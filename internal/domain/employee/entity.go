package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	EmpNo         string
	Name          string
	UserType      UserType
	Role          Role
	PlantID       string
	ContractType  ContractType
	AppointedDate *time.Time
	IsManager     bool
	NIC           string
	Mobile        string
	Payroll       PayrollProfile
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserType string

const (
	UserTypeExecutive    UserType = "Executive"
	UserTypeNonExecutive UserType = "NonExecutive"
)

// Role only distinguishes non-executive staff for rostering.
type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleLaborer    Role = "laborer"
	RoleOther      Role = "other"
)

type ContractType string

const (
	ContractTypePermanent ContractType = "permanent"
	ContractTypeProbation ContractType = "probation"
)

type TaxFilingStatus string

const (
	TaxFilingSingle          TaxFilingStatus = "Single"
	TaxFilingMarried         TaxFilingStatus = "Married"
	TaxFilingHeadOfHousehold TaxFilingStatus = "Head of Household"
)

var TaxFilingStatuses = []string{string(TaxFilingSingle), string(TaxFilingMarried), string(TaxFilingHeadOfHousehold)}

// TransactionType is the bank transfer code written into the bank file.
type TransactionType string

const (
	TransactionTypeSBA TransactionType = "SBA"
	TransactionTypeSLI TransactionType = "SLI"
)

var TransactionTypes = []string{string(TransactionTypeSBA), string(TransactionTypeSLI)}

// PayrollProfile holds base pay and bank details. Nil salaries and empty strings mean "not set".
type PayrollProfile struct {
	AnnualSalary    *decimal.Decimal
	BasicSalary     *decimal.Decimal
	PayGrade        string
	JobLevel        string
	BankName        string
	AccountNumber   string
	Branch          string
	TaxID           string
	TaxFilingStatus TaxFilingStatus
	BankCode        string
	BranchCode      string
	TransactionType TransactionType
}

// MissingFields lists the wire names of every profile field salary approval needs but is not set.
func (p PayrollProfile) MissingFields() []string {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("annual_salary", p.AnnualSalary != nil)
	check("monthly_salary", p.BasicSalary != nil)
	check("pay_grade", p.PayGrade != "")
	check("job_level", p.JobLevel != "")
	check("bank_name", p.BankName != "")
	check("account_number", p.AccountNumber != "")
	check("branch", p.Branch != "")
	check("tax_id", p.TaxID != "")
	check("tax_filing_status", p.TaxFilingStatus != "")
	check("bank_code", p.BankCode != "")
	check("branch_code", p.BranchCode != "")
	check("transaction_type", p.TransactionType != "")
	return missing
}

// HasBankDetails reports whether a bank transfer line can be filled without zero padding.
func (p PayrollProfile) HasBankDetails() bool {
	return p.AccountNumber != "" && p.BankCode != "" && p.BranchCode != ""
}

// Basic returns the monthly basic salary, zero when not set.
func (p PayrollProfile) Basic() decimal.Decimal {
	if p.BasicSalary == nil {
		return decimal.Zero
	}
	return *p.BasicSalary
}
