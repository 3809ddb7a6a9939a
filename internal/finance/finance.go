// Package finance derives per-account quantities: rates, interest, minimums,
// credit usage and due dates. Every function is pure.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/money"
)

// DefaultInterestDays is the compounding window for a monthly statement.
const DefaultInterestDays = 30

var (
	// DefaultMinimumPercent applies when an account has no percent rule.
	DefaultMinimumPercent = decimal.NewFromInt(1)
	// DefaultMinimumFloor applies when an account has no flat rule.
	DefaultMinimumFloor = decimal.NewFromInt(40)
)

// CurrentAPR resolves the account's annual rate against primeRate.
// ok is false when the kind has no APR or no terms are configured.
func CurrentAPR(acct model.Account, primeRate decimal.Decimal) (rate decimal.Decimal, ok bool) {
	if !acct.Kind.Capabilities().APR {
		return decimal.Zero, false
	}
	switch terms := acct.APR.(type) {
	case model.FixedAPR:
		return terms.Rate, true
	case model.PrimeIndexedAPR:
		rate = primeRate.Add(terms.Margin)
		if terms.Cap.Valid {
			rate = money.Min(rate, terms.Cap.Decimal)
		}
		return rate, true
	default:
		return decimal.Zero, false
	}
}

// MonthlyInterest compounds balance daily at the account's APR over days.
func MonthlyInterest(acct model.Account, balance, primeRate decimal.Decimal, days int) decimal.Decimal {
	apr, ok := CurrentAPR(acct, primeRate)
	if !ok {
		return decimal.Zero
	}
	daily := money.Div(money.Div(apr, money.DaysPerYear), money.Hundred)
	growth := money.Pow(decimal.NewFromInt(1).Add(daily), days)
	return balance.Mul(growth).Sub(balance)
}

// MinimumPayment is balance×percent plus interest, floored at the flat minimum
// and capped at the balance. A flat rule only sets the floor.
func MinimumPayment(acct model.Account, balance, primeRate decimal.Decimal, days int) decimal.Decimal {
	if !acct.Kind.Capabilities().MinimumPayment {
		return decimal.Zero
	}

	percent := DefaultMinimumPercent
	floor := DefaultMinimumFloor
	switch rule := acct.Minimum.(type) {
	case model.PercentMinimum:
		percent = rule.Percent
	case model.FlatMinimum:
		floor = rule.Amount
	}

	payment := balance.Mul(money.Div(percent, money.Hundred)).
		Add(MonthlyInterest(acct, balance, primeRate, days))
	payment = money.Max(payment, floor)
	return money.Min(payment, balance)
}

// CreditUtilization returns balance as a percent of the credit limit.
// ok is false without a positive limit.
func CreditUtilization(acct model.Account, balance decimal.Decimal) (pct decimal.Decimal, ok bool) {
	limit, ok := creditLimit(acct)
	if !ok || !limit.IsPositive() {
		return decimal.Zero, false
	}
	return money.Percent(balance, limit), true
}

// AvailableCredit returns limit − balance for credit-limit capable accounts.
func AvailableCredit(acct model.Account, balance decimal.Decimal) (decimal.Decimal, bool) {
	limit, ok := creditLimit(acct)
	if !ok {
		return decimal.Zero, false
	}
	return limit.Sub(balance), true
}

func creditLimit(acct model.Account) (decimal.Decimal, bool) {
	if !acct.Kind.Capabilities().CreditLimit || !acct.CreditLimit.Valid {
		return decimal.Zero, false
	}
	return acct.CreditLimit.Decimal, true
}
