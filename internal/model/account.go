package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a tracked account.
type Kind string

const (
	KindChecking   Kind = "checking"
	KindSavings    Kind = "savings"
	KindCreditCard Kind = "credit_card"
	KindLoan       Kind = "loan"
	KindMortgage   Kind = "mortgage"
	KindIRA        Kind = "ira"
	Kind401k       Kind = "401k"
	KindBrokerage  Kind = "brokerage"
	KindOther      Kind = "other"
)

// Capabilities gates which derived quantities are valid for a kind.
type Capabilities struct {
	APR            bool
	MinimumPayment bool
	CreditLimit    bool
	Debt           bool
	Asset          bool
}

var capabilities = map[Kind]Capabilities{
	KindChecking:   {Asset: true},
	KindSavings:    {Asset: true},
	KindCreditCard: {APR: true, MinimumPayment: true, CreditLimit: true, Debt: true},
	KindLoan:       {APR: true, MinimumPayment: true, Debt: true},
	KindMortgage:   {APR: true, MinimumPayment: true, Debt: true},
	KindIRA:        {Asset: true},
	Kind401k:       {Asset: true},
	KindBrokerage:  {Asset: true},
	KindOther:      {},
}

// Kinds returns every known kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindChecking, KindSavings, KindCreditCard, KindLoan, KindMortgage,
		KindIRA, Kind401k, KindBrokerage, KindOther,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := capabilities[k]
	return ok
}

// Capabilities returns the capability flags for k. Unknown kinds have none.
func (k Kind) Capabilities() Capabilities {
	return capabilities[k]
}

// IsDebt reports whether balances of this kind count against net worth.
func (k Kind) IsDebt() bool { return capabilities[k].Debt }

// IsAsset reports whether balances of this kind count toward net worth.
func (k Kind) IsAsset() bool { return capabilities[k].Asset }

// APRTerms is one of FixedAPR or PrimeIndexedAPR. A nil APRTerms means no rate is configured.
type APRTerms interface {
	aprTerms()
}

// FixedAPR is a constant annual percentage rate, e.g. 19.99.
type FixedAPR struct {
	Rate decimal.Decimal
}

// PrimeIndexedAPR floats at a margin over the prime rate, optionally capped.
type PrimeIndexedAPR struct {
	Margin decimal.Decimal
	Cap    decimal.NullDecimal
}

func (FixedAPR) aprTerms()        {}
func (PrimeIndexedAPR) aprTerms() {}

// MinimumRule is one of FlatMinimum or PercentMinimum. A nil MinimumRule uses the defaults.
type MinimumRule interface {
	minimumRule()
}

// FlatMinimum sets the dollar floor under the percent-of-balance minimum.
type FlatMinimum struct {
	Amount decimal.Decimal
}

// PercentMinimum sets the percent of balance charged before interest is added.
type PercentMinimum struct {
	Percent decimal.Decimal
}

func (FlatMinimum) minimumRule()    {}
func (PercentMinimum) minimumRule() {}

// Account is a tracked financial account.
type Account struct {
	ID          string
	Institution string
	Name        string
	Kind        Kind
	LastFour    string
	CreditLimit decimal.NullDecimal
	APR         APRTerms
	DueDay      int // 0 = no due day
	Minimum     MinimumRule
	LateFee     decimal.NullDecimal
	Active      bool
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName returns "Institution Name (…1234)" with the empty parts dropped.
func (a Account) DisplayName() string {
	name := a.Name
	if a.Institution != "" {
		name = a.Institution + " " + name
	}
	if a.LastFour != "" {
		name += " (…" + a.LastFour + ")"
	}
	return name
}
