package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PayPolicy is the payroll rule set. Every value has a default so the file is optional.
type PayPolicy struct {
	StandardDaysInMonth int             `yaml:"standard_days_in_month"`
	StandardHoursPerDay decimal.Decimal `yaml:"standard_hours_per_day"`
	Statutory           StatutoryRates  `yaml:"statutory"`
	Multipliers         Multipliers     `yaml:"multipliers"`
	RateOverrides       []RateOverride  `yaml:"rate_overrides"`
	Shifts              ShiftPolicy     `yaml:"shifts"`
	FixedDeductions     FixedDeductions `yaml:"fixed_deductions"`
	NumericMode         numeric.Mode    `yaml:"numeric_mode"`
	BankFile            BankFilePolicy  `yaml:"bank_file"`
}

// StatutoryRates are fractions of basic salary.
type StatutoryRates struct {
	EPF         decimal.Decimal `yaml:"epf"`
	EmployerEPF decimal.Decimal `yaml:"employer_epf"`
	ETF         decimal.Decimal `yaml:"etf"`
}

type Multipliers struct {
	OT      decimal.Decimal `yaml:"ot"`
	DOT     decimal.Decimal `yaml:"dot"`
	Holiday decimal.Decimal `yaml:"holiday"`
}

// RateOverride replaces the derived hourly/daily rates or the multipliers for a plant,
// a role, or both. An empty PlantID or Role matches any.
type RateOverride struct {
	PlantID           string           `yaml:"plant_id"`
	Role              string           `yaml:"role"`
	HourlyRate        *decimal.Decimal `yaml:"hourly_rate"`
	DailyRate         *decimal.Decimal `yaml:"daily_rate"`
	OTMultiplier      *decimal.Decimal `yaml:"ot_multiplier"`
	DOTMultiplier     *decimal.Decimal `yaml:"dot_multiplier"`
	HolidayMultiplier *decimal.Decimal `yaml:"holiday_multiplier"`
}

func (o RateOverride) specificity() int {
	n := 0
	if o.PlantID != "" {
		n += 2
	}
	if o.Role != "" {
		n++
	}
	return n
}

func (o RateOverride) matches(plantID, role string) bool {
	return (o.PlantID == "" || o.PlantID == plantID) && (o.Role == "" || o.Role == role)
}

// OverrideFor returns the most specific override for the plant and role. Plant beats role.
func (p PayPolicy) OverrideFor(plantID, role string) (RateOverride, bool) {
	best, found := RateOverride{}, false
	for _, o := range p.RateOverrides {
		if !o.matches(plantID, role) {
			continue
		}
		if !found || o.specificity() > best.specificity() {
			best, found = o, true
		}
	}
	return best, found
}

// ShiftWindow is a shift's nominal start and duration.
type ShiftWindow struct {
	Start string          `yaml:"start"`
	Hours decimal.Decimal `yaml:"hours"`
}

type ShiftPolicy struct {
	Morning         ShiftWindow     `yaml:"morning"`
	Day             ShiftWindow     `yaml:"day"`
	Night           ShiftWindow     `yaml:"night"`
	NightBonusHours decimal.Decimal `yaml:"night_bonus_hours"`
}

// ByName returns the window of the shift named Morning, Day or Night, in any case.
func (p ShiftPolicy) ByName(name string) (ShiftWindow, bool) {
	switch strings.ToLower(name) {
	case "morning":
		return p.Morning, true
	case "day":
		return p.Day, true
	case "night":
		return p.Night, true
	}
	return ShiftWindow{}, false
}

// FixedDeductions are flat monthly amounts. Stamp duty applies only when gross pay reaches StampThreshold.
type FixedDeductions struct {
	Stamp          decimal.Decimal `yaml:"stamp"`
	StampThreshold decimal.Decimal `yaml:"stamp_threshold"`
	Welfare        decimal.Decimal `yaml:"welfare"`
	Insurance      decimal.Decimal `yaml:"insurance"`
}

type BankFilePolicy struct {
	// SkipIncomplete leaves employees without bank details out of the file instead of zero padding them.
	SkipIncomplete bool   `yaml:"skip_incomplete"`
	FilePrefix     string `yaml:"file_prefix"`
}

// DefaultPolicy returns the statutory defaults.
func DefaultPolicy() PayPolicy {
	return PayPolicy{
		StandardDaysInMonth: 30,
		StandardHoursPerDay: decimal.NewFromInt(8),
		Statutory: StatutoryRates{
			EPF:         decimal.RequireFromString("0.10"),
			EmployerEPF: decimal.RequireFromString("0.15"),
			ETF:         decimal.RequireFromString("0.03"),
		},
		Multipliers: Multipliers{
			OT:      decimal.RequireFromString("1.5"),
			DOT:     decimal.NewFromInt(2),
			Holiday: decimal.NewFromInt(1),
		},
		Shifts: ShiftPolicy{
			Morning:         ShiftWindow{Start: "06:00", Hours: decimal.NewFromInt(8)},
			Day:             ShiftWindow{Start: "14:00", Hours: decimal.NewFromInt(8)},
			Night:           ShiftWindow{Start: "22:00", Hours: decimal.NewFromInt(8)},
			NightBonusHours: decimal.Zero,
		},
		NumericMode: numeric.Strict,
		BankFile: BankFilePolicy{
			FilePrefix: "Salary_Transfer_File_SLE_HQ_MEMP",
		},
	}
}

// LoadPolicy reads the YAML policy at path on top of DefaultPolicy. A missing file yields the defaults.
func LoadPolicy(path string) (*PayPolicy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return &policy, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &policy, nil
	}
	if err != nil {
		return nil, fmt.Errorf("policy: read file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, &policy); err != nil {
		return nil, fmt.Errorf("policy: parse yaml: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &policy, nil
}

// Validate rejects policies that would produce nonsense pay.
func (p PayPolicy) Validate() error {
	if p.StandardDaysInMonth < 1 || p.StandardDaysInMonth > 31 {
		return fmt.Errorf("policy: standard_days_in_month must be between 1 and 31")
	}
	if !p.StandardHoursPerDay.IsPositive() {
		return fmt.Errorf("policy: standard_hours_per_day must be positive")
	}
	for name, rate := range map[string]decimal.Decimal{
		"statutory.epf":          p.Statutory.EPF,
		"statutory.employer_epf": p.Statutory.EmployerEPF,
		"statutory.etf":          p.Statutory.ETF,
	} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("policy: %s must be a fraction between 0 and 1", name)
		}
	}
	for name, m := range map[string]decimal.Decimal{
		"multipliers.ot":      p.Multipliers.OT,
		"multipliers.dot":     p.Multipliers.DOT,
		"multipliers.holiday": p.Multipliers.Holiday,
	} {
		if m.IsNegative() {
			return fmt.Errorf("policy: %s must not be negative", name)
		}
	}
	for name, w := range map[string]ShiftWindow{"morning": p.Shifts.Morning, "day": p.Shifts.Day, "night": p.Shifts.Night} {
		if _, err := time.Parse("15:04", w.Start); err != nil {
			return fmt.Errorf("policy: shifts.%s.start must be HH:MM", name)
		}
		if !w.Hours.IsPositive() || w.Hours.GreaterThan(decimal.NewFromInt(24)) {
			return fmt.Errorf("policy: shifts.%s.hours must be between 0 and 24", name)
		}
	}
	if p.Shifts.NightBonusHours.IsNegative() {
		return fmt.Errorf("policy: shifts.night_bonus_hours must not be negative")
	}
	for i, o := range p.RateOverrides {
		if o.PlantID == "" && o.Role == "" {
			return fmt.Errorf("policy: rate_overrides[%d] needs plant_id or role", i)
		}
	}
	if !p.NumericMode.Valid() {
		return fmt.Errorf("policy: numeric_mode must be %q or %q", numeric.Strict, numeric.Lenient)
	}
	if p.BankFile.FilePrefix == "" {
		return fmt.Errorf("policy: bank_file.file_prefix must be set")
	}
	return nil
}
