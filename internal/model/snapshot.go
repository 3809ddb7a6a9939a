package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time balance for one account (a row in YYYY/MM/balances.csv).
type Snapshot struct {
	ID              string // "YYYY-MM-NNN", bucketed by as-of month
	AccountID       string
	Amount          decimal.Decimal // outstanding balance or asset value, never negative
	EnteredAt       time.Time
	AsOf            time.Time
	AvailableCredit decimal.NullDecimal // credit cards only
	Notes           string
}

// DefaultPrimeRate is used when no prime rate has been configured.
var DefaultPrimeRate = decimal.RequireFromString("8.5")

// Settings holds the household-wide planning inputs.
type Settings struct {
	PrimeRate decimal.Decimal
}

// DefaultSettings returns Settings with the default prime rate.
func DefaultSettings() Settings {
	return Settings{PrimeRate: DefaultPrimeRate}
}
