package balances

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/id"
	"github.com/paydown-dev/paydown/internal/model"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        int
	SnapshotID  string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [%s]: %s", e.Rule, e.SnapshotID, e.Description)
}

// AccountLookup resolves account IDs against the household's accounts.
type AccountLookup interface {
	Exists(id string) bool
	Kind(id string) model.Kind
}

// ValidateSnapshots enforces the balance-file rules for one month.
func ValidateSnapshots(snaps []model.Snapshot, accounts AccountLookup, year, month int) []ValidationError {
	var errs []ValidationError
	cents := decimal.NewFromInt(100)
	seqSeen := make(map[int]bool)

	for _, s := range snaps {
		// Rule 1: amounts are never negative.
		if s.Amount.IsNegative() {
			errs = append(errs, ValidationError{
				Rule:        1,
				SnapshotID:  s.ID,
				Description: fmt.Sprintf("amount %s is negative", s.Amount.StringFixed(2)),
			})
		}

		// Rule 2: known account.
		if !accounts.Exists(s.AccountID) {
			errs = append(errs, ValidationError{
				Rule:        2,
				SnapshotID:  s.ID,
				Description: fmt.Sprintf("unknown account %s", s.AccountID),
			})
		}

		// Rule 3: as-of date within month.
		if s.AsOf.Year() != year || int(s.AsOf.Month()) != month {
			errs = append(errs, ValidationError{
				Rule:        3,
				SnapshotID:  s.ID,
				Description: fmt.Sprintf("as-of %s not in %04d-%02d", s.AsOf.Format(dateFormat), year, month),
			})
		}

		// Rule 4: whole cents.
		if !s.Amount.Mul(cents).Equal(s.Amount.Mul(cents).Floor()) {
			errs = append(errs, ValidationError{
				Rule:        4,
				SnapshotID:  s.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", s.Amount),
			})
		}

		// Rule 5: available credit only on credit cards, never negative.
		if s.AvailableCredit.Valid {
			avail := s.AvailableCredit.Decimal
			switch {
			case accounts.Exists(s.AccountID) && accounts.Kind(s.AccountID) != model.KindCreditCard:
				errs = append(errs, ValidationError{
					Rule:        5,
					SnapshotID:  s.ID,
					Description: fmt.Sprintf("available credit on %s account", accounts.Kind(s.AccountID)),
				})
			case avail.IsNegative():
				errs = append(errs, ValidationError{
					Rule:        5,
					SnapshotID:  s.ID,
					Description: fmt.Sprintf("available credit %s is negative", avail.StringFixed(2)),
				})
			case !avail.Mul(cents).Equal(avail.Mul(cents).Floor()):
				errs = append(errs, ValidationError{
					Rule:        4,
					SnapshotID:  s.ID,
					Description: fmt.Sprintf("available credit %s has more than 2 decimal places", avail),
				})
			}
		}

		// Rule 6: unique IDs matching the month.
		y, m, seq, err := id.ParseSnapshotID(s.ID)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Rule: 6, SnapshotID: s.ID, Description: err.Error()})
		case y != year || m != month:
			errs = append(errs, ValidationError{
				Rule:        6,
				SnapshotID:  s.ID,
				Description: fmt.Sprintf("ID does not belong to %04d-%02d", year, month),
			})
		case seqSeen[seq]:
			errs = append(errs, ValidationError{Rule: 6, SnapshotID: s.ID, Description: "duplicate snapshot ID"})
		default:
			seqSeen[seq] = true
		}
	}

	return errs
}
