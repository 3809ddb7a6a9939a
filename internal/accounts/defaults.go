package accounts

import (
	"time"

	"github.com/paydown-dev/paydown/internal/id"
	"github.com/paydown-dev/paydown/internal/model"
)

// StarterAccounts returns the accounts a new ledger begins with: the checking
// account planning draws cash from.
func StarterAccounts(now time.Time) []model.Account {
	now = now.UTC()
	return []model.Account{
		{
			ID:        id.NewAccountID(),
			Name:      "Primary Checking",
			Kind:      model.KindChecking,
			Active:    true,
			Notes:     "Cash available for payments is drawn from here",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
