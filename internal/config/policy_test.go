package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plantops-hr/payroll-backend-go/internal/pkg/numeric"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPolicy_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, policy.StandardDaysInMonth)
	assert.True(t, policy.Statutory.EPF.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, policy.Statutory.EmployerEPF.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, policy.Statutory.ETF.Equal(decimal.RequireFromString("0.03")))
	assert.Equal(t, numeric.Strict, policy.NumericMode)
}

func TestLoadPolicy_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writePolicy(t, `
standard_days_in_month: 26
statutory:
  epf: 0.08
numeric_mode: lenient
shifts:
  night: { start: "22:00", hours: 9 }
  night_bonus_hours: 1.5
rate_overrides:
  - role: laborer
    daily_rate: 2500
`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 26, policy.StandardDaysInMonth)
	assert.True(t, policy.Statutory.EPF.Equal(decimal.RequireFromString("0.08")))
	assert.True(t, policy.Statutory.EmployerEPF.Equal(decimal.RequireFromString("0.15")), "untouched rate keeps its default")
	assert.Equal(t, numeric.Lenient, policy.NumericMode)
	assert.True(t, policy.Shifts.Night.Hours.Equal(decimal.NewFromInt(9)))
	assert.True(t, policy.Shifts.Morning.Hours.Equal(decimal.NewFromInt(8)))
	assert.True(t, policy.Shifts.NightBonusHours.Equal(decimal.RequireFromString("1.5")))
	require.Len(t, policy.RateOverrides, 1)
	require.NotNil(t, policy.RateOverrides[0].DailyRate)
	assert.True(t, policy.RateOverrides[0].DailyRate.Equal(decimal.NewFromInt(2500)))
	assert.Nil(t, policy.RateOverrides[0].HourlyRate)
}

func TestLoadPolicy_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"days out of range", "standard_days_in_month: 0", "standard_days_in_month"},
		{"rate above one", "statutory:\n  etf: 3", "statutory.etf"},
		{"unknown mode", "numeric_mode: loose", "numeric_mode"},
		{"bad shift start", "shifts:\n  day: { start: \"2pm\", hours: 8 }", "shifts.day.start"},
		{"override without target", "rate_overrides:\n  - daily_rate: 100", "rate_overrides[0]"},
		{"not a number", "statutory:\n  epf: ten", "parse yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPayPolicy_OverrideFor(t *testing.T) {
	t.Parallel()

	rate := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	policy := DefaultPolicy()
	policy.RateOverrides = []RateOverride{
		{Role: "laborer", DailyRate: rate("2500")},
		{PlantID: "p1", DailyRate: rate("2600")},
		{PlantID: "p1", Role: "laborer", DailyRate: rate("2800")},
	}

	o, ok := policy.OverrideFor("p1", "laborer")
	require.True(t, ok)
	assert.Equal(t, "2800", o.DailyRate.String())

	o, ok = policy.OverrideFor("p1", "supervisor")
	require.True(t, ok)
	assert.Equal(t, "2600", o.DailyRate.String())

	o, ok = policy.OverrideFor("p2", "laborer")
	require.True(t, ok)
	assert.Equal(t, "2500", o.DailyRate.String())

	_, ok = policy.OverrideFor("p2", "supervisor")
	assert.False(t, ok)
}

func TestLoadPolicy_SampleFile(t *testing.T) {
	t.Parallel()

	policy, err := LoadPolicy(filepath.Join("..", "..", "configs", "payroll_policy.yaml"))
	require.NoError(t, err)
	assert.Len(t, policy.RateOverrides, 2)
	assert.True(t, policy.FixedDeductions.Stamp.Equal(decimal.NewFromInt(25)))
}
