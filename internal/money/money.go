// Package money holds the exact decimal arithmetic used for every amount and rate.
package money

import "github.com/shopspring/decimal"

var (
	// Hundred converts between percentages and ratios.
	Hundred = decimal.NewFromInt(100)
	// DaysPerYear is the day count used to derive daily rates from an APR.
	DaysPerYear = decimal.NewFromInt(365)
)

// Add returns a + b.
func Add(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }

// Sub returns a - b.
func Sub(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }

// Mul returns a * b.
func Mul(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) }

// Div returns a / b. A zero divisor is a caller bug and panics.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		panic("money: division by zero")
	}
	return a.Div(b)
}

// Pow raises base to a non-negative integer exponent by repeated squaring.
func Pow(base decimal.Decimal, exp int) decimal.Decimal {
	if exp < 0 {
		panic("money: negative exponent")
	}
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// FloorZero clamps negative amounts to zero.
func FloorZero(a decimal.Decimal) decimal.Decimal {
	return Max(a, decimal.Zero)
}

// Sum adds all amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns part/whole as a percentage. whole must be non-zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	return Div(part, whole).Mul(Hundred)
}
