package numeric

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects how malformed numeric input is treated.
type Mode string

const (
	// Strict rejects malformed input.
	Strict Mode = "strict"
	// Lenient coerces malformed input to zero.
	Lenient Mode = "lenient"
)

func (m Mode) Valid() bool {
	return m == Strict || m == Lenient
}

var (
	ErrAbsent     = errors.New("is required")
	ErrMalformed  = errors.New("must be a number")
	ErrNotWhole   = errors.New("must be a whole number")
	ErrOutOfRange = errors.New("is out of range")
)

var (
	minCount = decimal.NewFromInt(math.MinInt32)
	maxCount = decimal.NewFromInt(math.MaxInt32)
)

// State tells absent, well-formed and malformed input apart.
type State int

const (
	Absent State = iota
	Valid
	Malformed
)

// Field is a numeric input that remembers whether it was supplied and whether it parsed.
// The zero value is Absent.
type Field struct {
	state State
	raw   string
	value decimal.Decimal
}

// Parse interprets a raw text cell or JSON scalar.
func Parse(s string) Field {
	s = strings.TrimSpace(s)
	if s == "" {
		return Field{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return Field{state: Malformed, raw: s}
	}
	return Field{state: Valid, raw: s, value: d}
}

// Of wraps a known value.
func Of(d decimal.Decimal) Field {
	return Field{state: Valid, raw: d.String(), value: d}
}

// OfInt wraps a known integer.
func OfInt(n int64) Field {
	return Of(decimal.NewFromInt(n))
}

func (f Field) State() State      { return f.state }
func (f Field) IsAbsent() bool    { return f.state == Absent }
func (f Field) IsMalformed() bool { return f.state == Malformed }
func (f Field) Raw() string       { return f.raw }
func (f Field) IsZero() bool      { return f.state == Valid && f.value.IsZero() }
func (f Field) IsNegative() bool  { return f.state == Valid && f.value.IsNegative() }

// Resolve returns the value. Absent input always fails; malformed input fails in Strict
// mode and becomes zero in Lenient mode.
func (f Field) Resolve(mode Mode) (decimal.Decimal, error) {
	switch f.state {
	case Absent:
		return decimal.Zero, ErrAbsent
	case Malformed:
		if mode == Lenient {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformed, f.raw)
	default:
		return f.value, nil
	}
}

// ResolveOptional is Resolve with absent input treated as zero.
func (f Field) ResolveOptional(mode Mode) (decimal.Decimal, error) {
	if f.state == Absent {
		return decimal.Zero, nil
	}
	return f.Resolve(mode)
}

// ResolveInt is Resolve for counts. Counts are stored as 32-bit integers, so
// anything wider is rejected rather than wrapped.
func (f Field) ResolveInt(mode Mode) (int, error) {
	d, err := f.Resolve(mode)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q", ErrNotWhole, f.raw)
	}
	if d.LessThan(minCount) || d.GreaterThan(maxCount) {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, f.raw)
	}
	return int(d.IntPart()), nil
}

func (f *Field) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = Field{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			*f = Field{state: Malformed, raw: s}
			return nil
		}
		s = unquoted
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || s == "true" || s == "false" {
		*f = Field{state: Malformed, raw: s}
		return nil
	}
	*f = Parse(s)
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	switch f.state {
	case Absent:
		return []byte("null"), nil
	case Malformed:
		return json.Marshal(f.raw)
	default:
		return []byte(f.value.String()), nil
	}
}

// UnmarshalCSV lets spreadsheet rows decode straight into a Field.
func (f *Field) UnmarshalCSV(s string) error {
	*f = Parse(s)
	return nil
}
