// Package planner allocates one cycle of cash across a household's debts.
//
// Allocation runs in two tiers. Tier 1 posts the minimums due before the next
// paycheck and, when the following paycheck cannot cover the minimums due
// after it, pre-pays one of those accounts. Tier 2 walks the remaining debts
// in strategy order and spends what is left.
package planner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/finance"
	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/money"
)

// LongHorizonDays is the pay-period length past which a plan is flagged as advisory.
const LongHorizonDays = 45

// Debt is a debt-capable account with its current effective balance.
type Debt struct {
	Account model.Account
	Balance decimal.Decimal

	apr decimal.Decimal
}

// Input is everything one planning run needs.
type Input struct {
	Debts              []Debt
	PrimeRate          decimal.Decimal
	Strategy           Strategy
	AvailableCash      decimal.Decimal // already net of the safety buffer
	Today              time.Time
	NextPaycheck       time.Time
	SecondPaycheck     time.Time
	NextPaycheckAmount decimal.Decimal
}

// Plan is the result of one planning run.
type Plan struct {
	Payments         []model.PlannedPayment `json:"payments"`
	Period2Shortfall decimal.Decimal        `json:"period2_shortfall"`
	RemainingCash    decimal.Decimal        `json:"remaining_cash"`
	LongHorizon      bool                   `json:"long_horizon"`
}

// Total sums the suggested amounts.
func (p Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, pp := range p.Payments {
		total = total.Add(pp.Suggested)
	}
	return total
}

// AvailableCash is checking cash minus the safety buffer, floored at zero.
func AvailableCash(checking, buffer decimal.Decimal) decimal.Decimal {
	return money.FloorZero(checking.Sub(buffer))
}

// DebtsFrom selects active debt accounts and pairs them with their balances.
// Accounts without a balance are skipped.
func DebtsFrom(accts []model.Account, balances map[string]decimal.Decimal) []Debt {
	var debts []Debt
	for _, a := range accts {
		if !a.Active || !a.Kind.IsDebt() {
			continue
		}
		b, ok := balances[a.ID]
		if !ok {
			continue
		}
		debts = append(debts, Debt{Account: a, Balance: b})
	}
	return debts
}

// Generate builds the payment plan for one cycle.
func Generate(in Input) Plan {
	plan := Plan{
		Period2Shortfall: decimal.Zero,
		LongHorizon:      longHorizon(in.Today, in.NextPaycheck, in.SecondPaycheck),
	}
	cash := money.FloorZero(in.AvailableCash)

	debts := make([]Debt, len(in.Debts))
	for i, d := range in.Debts {
		d.apr, _ = finance.CurrentAPR(d.Account, in.PrimeRate)
		debts[i] = d
	}

	var period1, period2, rest []Debt
	for _, d := range debts {
		switch {
		case finance.IsDueBetween(d.Account, in.Today, in.NextPaycheck):
			period1 = append(period1, d)
		case finance.IsDueBetween(d.Account, in.NextPaycheck, in.SecondPaycheck):
			period2 = append(period2, d)
		default:
			rest = append(rest, d)
		}
	}

	var payments []model.PlannedPayment

	// Tier 1a: minimums due before the next paycheck post in full.
	for _, d := range period1 {
		minimum := in.minimum(d)
		payments = append(payments, in.payment(d, minimum, minimum, model.PriorityUrgent))
		cash = money.FloorZero(cash.Sub(minimum))
	}

	// Tier 1b: cover the gap the next paycheck leaves in period-2 minimums.
	period2Minimums := decimal.Zero
	for _, d := range period2 {
		period2Minimums = period2Minimums.Add(in.minimum(d))
	}
	plan.Period2Shortfall = money.FloorZero(period2Minimums.Sub(in.NextPaycheckAmount))
	if plan.Period2Shortfall.IsPositive() && cash.IsPositive() && len(period2) > 0 {
		target := period2[0]
		for _, d := range period2[1:] {
			if in.Strategy.less(d, target) {
				target = d
			}
		}
		amount := money.Min(plan.Period2Shortfall, cash)
		pp := in.payment(target, in.minimum(target), amount, model.PriorityUrgent)
		pp.Shortfall = true
		payments = append(payments, pp)
		cash = cash.Sub(amount)
	}

	// Tier 2: remaining cash by strategy, never past a balance.
	in.Strategy.sort(rest)
	for _, d := range rest {
		amount := decimal.Zero
		if cash.IsPositive() {
			amount = money.Min(cash, d.Balance)
			cash = cash.Sub(amount)
		}
		payments = append(payments, in.payment(d, in.minimum(d), amount, model.PriorityStrategic))
	}

	for _, pp := range payments {
		if pp.Suggested.IsPositive() {
			plan.Payments = append(plan.Payments, pp)
		}
	}
	plan.RemainingCash = cash
	return plan
}

func (in Input) minimum(d Debt) decimal.Decimal {
	return finance.MinimumPayment(d.Account, d.Balance, in.PrimeRate, finance.DefaultInterestDays)
}

func (in Input) payment(d Debt, minimum, suggested decimal.Decimal, priority model.Priority) model.PlannedPayment {
	pp := model.PlannedPayment{
		AccountID:   d.Account.ID,
		Institution: d.Account.Institution,
		AccountName: d.Account.Name,
		Kind:        d.Account.Kind,
		Balance:     d.Balance,
		Minimum:     minimum,
		Suggested:   suggested,
		Priority:    priority,
	}
	if apr, ok := finance.CurrentAPR(d.Account, in.PrimeRate); ok {
		pp.APR = decimal.NewNullDecimal(apr)
	}
	return pp
}

// longHorizon counts calendar days so DST shifts never stretch a period.
func longHorizon(today, next, second time.Time) bool {
	today, next, second = finance.Day(today), finance.Day(next), finance.Day(second)
	return next.After(today.AddDate(0, 0, LongHorizonDays)) ||
		second.After(next.AddDate(0, 0, LongHorizonDays))
}
