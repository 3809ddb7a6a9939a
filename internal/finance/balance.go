package finance

import (
	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/money"
)

// EffectiveBalance prefers limit − available credit for credit cards that
// recorded available credit; otherwise it trusts the stored amount.
func EffectiveBalance(acct model.Account, snap model.Snapshot) decimal.Decimal {
	if acct.Kind == model.KindCreditCard && snap.AvailableCredit.Valid && acct.CreditLimit.Valid {
		return money.FloorZero(acct.CreditLimit.Decimal.Sub(snap.AvailableCredit.Decimal))
	}
	return snap.Amount
}

// LatestSnapshot returns the most recently entered snapshot for accountID.
// Equal entry times resolve to the later one in snaps.
func LatestSnapshot(snaps []model.Snapshot, accountID string) (model.Snapshot, bool) {
	var latest model.Snapshot
	found := false
	for _, s := range snaps {
		if s.AccountID != accountID {
			continue
		}
		if !found || !s.EnteredAt.Before(latest.EnteredAt) {
			latest = s
			found = true
		}
	}
	return latest, found
}

// LatestByAccount indexes the most recently entered snapshot per account.
func LatestByAccount(snaps []model.Snapshot) map[string]model.Snapshot {
	latest := make(map[string]model.Snapshot)
	for _, s := range snaps {
		cur, ok := latest[s.AccountID]
		if !ok || !s.EnteredAt.Before(cur.EnteredAt) {
			latest[s.AccountID] = s
		}
	}
	return latest
}

// CurrentBalances maps each account to its effective balance from its latest
// snapshot. Accounts without snapshots are omitted.
func CurrentBalances(accts []model.Account, snaps []model.Snapshot) map[string]decimal.Decimal {
	latest := LatestByAccount(snaps)
	balances := make(map[string]decimal.Decimal, len(latest))
	for _, a := range accts {
		if s, ok := latest[a.ID]; ok {
			balances[a.ID] = EffectiveBalance(a, s)
		}
	}
	return balances
}
