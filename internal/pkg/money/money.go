package money

import "github.com/shopspring/decimal"

var halfCent = decimal.New(5, -3)

// Round2 rounds to two decimal places, ties toward positive infinity.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Add(halfCent).RoundFloor(2)
}

// Sum adds already rounded components.
func Sum(parts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(p)
	}
	return total
}

// Format renders an amount with exactly two decimals.
func Format(d decimal.Decimal) string {
	return Round2(d).StringFixed(2)
}
