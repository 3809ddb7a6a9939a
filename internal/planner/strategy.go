package planner

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy orders debts for extra cash.
type Strategy string

const (
	// Avalanche pays the highest APR first.
	Avalanche Strategy = "avalanche"
	// Snowball pays the lowest balance first.
	Snowball Strategy = "snowball"
)

// ParseStrategy accepts "avalanche" or "snowball", case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case Avalanche, Snowball:
		return st, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want avalanche or snowball)", s)
	}
}

// less reports whether a should be paid before b. Equal keys fall back to account ID.
func (s Strategy) less(a, b Debt) bool {
	var c int
	switch s {
	case Snowball:
		c = a.Balance.Cmp(b.Balance)
	default:
		c = b.apr.Cmp(a.apr)
	}
	if c != 0 {
		return c < 0
	}
	return a.Account.ID < b.Account.ID
}

func (s Strategy) sort(debts []Debt) {
	sort.SliceStable(debts, func(i, j int) bool { return s.less(debts[i], debts[j]) })
}
