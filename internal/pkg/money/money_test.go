package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"1666.666666", "1666.67"},
		{"0.005", "0.01"},
		{"0.004999", "0.00"},
		{"2.675", "2.68"},
		{"-1.005", "-1.00"},
		{"5000", "5000.00"},
	}
	for _, c := range cases {
		got := Round2(decimal.RequireFromString(c.in))
		assert.Equal(t, c.want, got.StringFixed(2), "Round2(%s)", c.in)
	}
}

func TestSum(t *testing.T) {
	t.Parallel()
	got := Sum(decimal.RequireFromString("5000.00"), decimal.RequireFromString("0.01"), decimal.Zero)
	assert.True(t, got.Equal(decimal.RequireFromString("5000.01")))
	assert.True(t, Sum().IsZero())
}

func TestFormat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "44950.00", Format(decimal.NewFromInt(44950)))
	assert.Equal(t, "12.35", Format(decimal.RequireFromString("12.345")))
}
