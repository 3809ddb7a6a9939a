package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paydown-dev/paydown/internal/balances"
	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/planning"
)

func newBalanceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Record and review balance snapshots",
	}
	cmd.AddCommand(newBalanceRecordCommand(a))
	cmd.AddCommand(newBalanceListCommand(a))
	return cmd
}

func newBalanceRecordCommand(a *app) *cobra.Command {
	var asOf, availableCredit, notes string

	cmd := &cobra.Command{
		Use:   "record <account> <amount>",
		Short: "Record an account's balance",
		Long: `Record an account's balance as of a date (default today).

<account> is an account ID, a unique ID prefix, or the account name.
For credit cards, --available-credit lets the balance be derived from the
credit limit the way the card issuer reports it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimalFlag("amount", args[1])
			if err != nil {
				return err
			}
			if !amount.Valid {
				return fmt.Errorf("amount is required")
			}
			avail, err := parseDecimalFlag("available-credit", availableCredit)
			if err != nil {
				return err
			}
			date, err := parseDateFlag("as-of", asOf, time.UTC)
			if err != nil {
				return err
			}
			if date.IsZero() {
				y, m, d := time.Now().Date()
				date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			}

			svc, err := a.open()
			if err != nil {
				return err
			}
			acct, err := svc.Accounts().Find(args[0])
			if err != nil {
				return err
			}

			snapID, err := svc.Balances().Record(balances.RecordParams{
				AccountID:       acct.ID,
				AsOf:            date,
				Amount:          amount.Decimal,
				AvailableCredit: avail,
				Notes:           notes,
				EnteredAt:       time.Now(),
			})
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("balance: %s %s as of %s", acct.DisplayName(), amount.Decimal.StringFixed(2), date.Format(time.DateOnly))
			if err := a.commit(svc.Root(), svc.Config(), msg); err != nil {
				return err
			}
			a.log.Debug("recorded balance", "snapshot", snapID, "account", acct.ID)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %s %s as of %s\n",
				snapID, acct.DisplayName(), formatMoney(amount.Decimal), date.Format(time.DateOnly))
			return err
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "balance date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&availableCredit, "available-credit", "", "available credit (credit cards only)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newBalanceListCommand(a *app) *cobra.Command {
	var account, month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded balance snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open()
			if err != nil {
				return err
			}
			return runBalanceList(cmd.OutOrStdout(), svc, account, month)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "only this account")
	cmd.Flags().StringVar(&month, "month", "", "only this as-of month, YYYY-MM")
	return cmd
}

func runBalanceList(out io.Writer, svc *planning.Service, account, month string) error {
	var snaps []model.Snapshot
	if month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("invalid --month %q (want YYYY-MM)", month)
		}
		if snaps, err = svc.Balances().ReadMonth(t.Year(), int(t.Month())); err != nil {
			return err
		}
	} else {
		var err error
		if snaps, err = svc.Balances().All(); err != nil {
			return err
		}
	}

	if account != "" {
		acct, err := svc.Accounts().Find(account)
		if err != nil {
			return err
		}
		filtered := snaps[:0]
		for _, s := range snaps {
			if s.AccountID == acct.ID {
				filtered = append(filtered, s)
			}
		}
		snaps = filtered
	}

	if len(snaps) == 0 {
		_, err := fmt.Fprintln(out, "No balances recorded.")
		return err
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if !snaps[i].AsOf.Equal(snaps[j].AsOf) {
			return snaps[i].AsOf.Before(snaps[j].AsOf)
		}
		return snaps[i].EnteredAt.Before(snaps[j].EnteredAt)
	})

	tbl := newTable(out, "ID", "As Of", "Account", "Amount", "Available", "Notes")
	for _, s := range snaps {
		name := s.AccountID
		if acct, ok := svc.Accounts().Get(s.AccountID); ok {
			name = acct.DisplayName()
		}
		avail := "-"
		if s.AvailableCredit.Valid {
			avail = formatMoney(s.AvailableCredit.Decimal)
		}
		tbl.row(s.ID, s.AsOf.Format(time.DateOnly), name, formatMoney(s.Amount), avail, strings.TrimSpace(s.Notes))
	}
	return tbl.flush()
}
