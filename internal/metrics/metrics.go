// Package metrics rolls up balances across a household's accounts.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/finance"
	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/money"
)

// Summary is the dashboard rollup for one point in time.
type Summary struct {
	TotalDebt            decimal.Decimal     `json:"total_debt"`
	TotalAssets          decimal.Decimal     `json:"total_assets"`
	NetWorth             decimal.Decimal     `json:"net_worth"`
	TotalAvailableCredit decimal.Decimal     `json:"total_available_credit"`
	TotalMinimumPayments decimal.Decimal     `json:"total_minimum_payments"`
	Utilization          decimal.NullDecimal `json:"utilization"` // invalid when no credit limits exist
}

// Compute reduces active accounts and their current balances into a Summary.
// balances holds effective balances keyed by account ID; missing accounts count as zero.
func Compute(accts []model.Account, balances map[string]decimal.Decimal, primeRate decimal.Decimal) Summary {
	s := Summary{
		TotalDebt:            decimal.Zero,
		TotalAssets:          decimal.Zero,
		TotalAvailableCredit: decimal.Zero,
		TotalMinimumPayments: decimal.Zero,
	}
	cardBalances := decimal.Zero
	cardLimits := decimal.Zero

	for _, a := range accts {
		if !a.Active {
			continue
		}
		balance := balances[a.ID]
		caps := a.Kind.Capabilities()

		switch {
		case caps.Debt:
			s.TotalDebt = s.TotalDebt.Add(balance)
		case caps.Asset:
			s.TotalAssets = s.TotalAssets.Add(balance)
		}

		if a.Kind == model.KindCreditCard {
			if avail, ok := finance.AvailableCredit(a, balance); ok {
				s.TotalAvailableCredit = s.TotalAvailableCredit.Add(avail)
				cardLimits = cardLimits.Add(a.CreditLimit.Decimal)
			}
			cardBalances = cardBalances.Add(balance)
		}

		if caps.MinimumPayment {
			s.TotalMinimumPayments = s.TotalMinimumPayments.Add(
				finance.MinimumPayment(a, balance, primeRate, finance.DefaultInterestDays))
		}
	}

	s.NetWorth = s.TotalAssets.Sub(s.TotalDebt)
	if !cardLimits.IsZero() {
		s.Utilization = decimal.NewNullDecimal(money.Percent(cardBalances, cardLimits))
	}
	return s
}
