package accounts

import (
	"errors"
	"fmt"

	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/money"
)

// Validate checks that an account only configures what its kind supports.
func Validate(acct model.Account) error {
	var errs []error

	if acct.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !acct.Kind.Valid() {
		errs = append(errs, fmt.Errorf("unknown kind %q", acct.Kind))
	}
	if acct.LastFour != "" && !isFourDigits(acct.LastFour) {
		errs = append(errs, fmt.Errorf("last four %q must be 4 digits", acct.LastFour))
	}
	if acct.DueDay < 0 || acct.DueDay > 31 {
		errs = append(errs, fmt.Errorf("due day %d out of range 1-31", acct.DueDay))
	}

	caps := acct.Kind.Capabilities()
	if acct.CreditLimit.Valid {
		if !caps.CreditLimit {
			errs = append(errs, fmt.Errorf("%s accounts have no credit limit", acct.Kind))
		} else if acct.CreditLimit.Decimal.IsNegative() {
			errs = append(errs, errors.New("credit limit must not be negative"))
		}
	}
	if acct.APR != nil && !caps.APR {
		errs = append(errs, fmt.Errorf("%s accounts have no APR", acct.Kind))
	}
	if acct.Minimum != nil && !caps.MinimumPayment {
		errs = append(errs, fmt.Errorf("%s accounts have no minimum payment", acct.Kind))
	}
	if acct.LateFee.Valid && !caps.MinimumPayment {
		errs = append(errs, fmt.Errorf("%s accounts have no late fee", acct.Kind))
	}

	switch terms := acct.APR.(type) {
	case model.FixedAPR:
		if terms.Rate.IsNegative() {
			errs = append(errs, errors.New("APR must not be negative"))
		}
	case model.PrimeIndexedAPR:
		if terms.Cap.Valid && terms.Cap.Decimal.IsNegative() {
			errs = append(errs, errors.New("APR cap must not be negative"))
		}
	}

	switch rule := acct.Minimum.(type) {
	case model.FlatMinimum:
		if rule.Amount.IsNegative() {
			errs = append(errs, errors.New("minimum payment must not be negative"))
		}
	case model.PercentMinimum:
		if rule.Percent.IsNegative() || rule.Percent.GreaterThan(money.Hundred) {
			errs = append(errs, errors.New("minimum percent must be between 0 and 100"))
		}
	}

	return errors.Join(errs...)
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
