// Package networth builds the monthly net-worth trend from balance history.
package networth

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/finance"
	"github.com/paydown-dev/paydown/internal/model"
)

// MaxMonths caps the length of the trend.
const MaxMonths = 12

// MinPlottable is the fewest points a caller can draw a trend from.
const MinPlottable = 2

// MonthPoint is net worth at the end of one calendar month.
type MonthPoint struct {
	Month    time.Time       `json:"month"` // first day of the month, UTC
	NetWorth decimal.Decimal `json:"net_worth"`
	Accounts int             `json:"accounts"` // accounts that reported in this month
}

type monthKey struct {
	year  int
	month time.Month
}

// History buckets snapshots by as-of month and returns net worth for the most
// recent MaxMonths months, oldest first. Each active asset or debt account
// contributes its last snapshot inside a month; accounts silent in a month are
// left out of that month. Kind "other" never counts.
func History(accts []model.Account, snaps []model.Snapshot) []MonthPoint {
	byID := make(map[string]model.Account, len(accts))
	for _, a := range accts {
		if a.Active && (a.Kind.IsAsset() || a.Kind.IsDebt()) {
			byID[a.ID] = a
		}
	}

	buckets := make(map[monthKey]map[string]model.Snapshot)
	for _, s := range snaps {
		if _, ok := byID[s.AccountID]; !ok {
			continue
		}
		y, m, _ := s.AsOf.Date()
		key := monthKey{y, m}
		month := buckets[key]
		if month == nil {
			month = make(map[string]model.Snapshot)
			buckets[key] = month
		}
		if cur, ok := month[s.AccountID]; !ok || later(s, cur) {
			month[s.AccountID] = s
		}
	}

	points := make([]MonthPoint, 0, len(buckets))
	for key, month := range buckets {
		total := decimal.Zero
		for accountID, s := range month {
			acct := byID[accountID]
			balance := finance.EffectiveBalance(acct, s)
			if acct.Kind.IsDebt() {
				total = total.Sub(balance)
			} else {
				total = total.Add(balance)
			}
		}
		points = append(points, MonthPoint{
			Month:    time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC),
			NetWorth: total,
			Accounts: len(month),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	if len(points) > MaxMonths {
		points = points[len(points)-MaxMonths:]
	}
	return points
}

// Plottable reports whether the series has enough points to draw.
func Plottable(points []MonthPoint) bool {
	return len(points) >= MinPlottable
}

// later orders by as-of date, then entry time.
func later(a, b model.Snapshot) bool {
	if !a.AsOf.Equal(b.AsOf) {
		return a.AsOf.After(b.AsOf)
	}
	return !a.EnteredAt.Before(b.EnteredAt)
}
