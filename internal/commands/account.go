package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/paydown-dev/paydown/internal/finance"
	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/planning"
)

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage household accounts",
	}
	cmd.AddCommand(newAccountAddCommand(a))
	cmd.AddCommand(newAccountListCommand(a))
	cmd.AddCommand(newAccountDeactivateCommand(a))
	return cmd
}

type accountFlags struct {
	name        string
	kind        string
	institution string
	lastFour    string
	limit       string
	apr         string
	primeMargin string
	aprCap      string
	dueDay      int
	minFlat     string
	minPercent  string
	lateFee     string
	notes       string
}

func newAccountAddCommand(a *app) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acct, err := f.account()
			if err != nil {
				return err
			}
			svc, err := a.open()
			if err != nil {
				return err
			}
			return a.runAccountAdd(cmd.OutOrStdout(), svc, acct)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "account name (required)")
	fl.StringVar(&f.kind, "kind", "", "account kind (required): "+kindList())
	fl.StringVar(&f.institution, "institution", "", "bank or lender")
	fl.StringVar(&f.lastFour, "last4", "", "last four digits of the account number")
	fl.StringVar(&f.limit, "limit", "", "credit limit")
	fl.StringVar(&f.apr, "apr", "", "fixed APR, in percent")
	fl.StringVar(&f.primeMargin, "prime-margin", "", "variable APR margin over prime, in percent")
	fl.StringVar(&f.aprCap, "apr-cap", "", "ceiling for a variable APR, in percent")
	fl.IntVar(&f.dueDay, "due-day", 0, "day of month the payment is due (1-31)")
	fl.StringVar(&f.minFlat, "min-flat", "", "flat minimum payment floor")
	fl.StringVar(&f.minPercent, "min-percent", "", "minimum payment as a percent of balance")
	fl.StringVar(&f.lateFee, "late-fee", "", "late fee")
	fl.StringVar(&f.notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("kind")
	cmd.MarkFlagsMutuallyExclusive("apr", "prime-margin")
	cmd.MarkFlagsMutuallyExclusive("min-flat", "min-percent")

	return cmd
}

func kindList() string {
	kinds := model.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// account converts the flags into an unsaved account.
func (f accountFlags) account() (model.Account, error) {
	acct := model.Account{
		Institution: f.institution,
		Name:        f.name,
		Kind:        model.Kind(f.kind),
		LastFour:    f.lastFour,
		DueDay:      f.dueDay,
		Active:      true,
		Notes:       f.notes,
	}

	var err error
	if acct.CreditLimit, err = parseDecimalFlag("limit", f.limit); err != nil {
		return model.Account{}, err
	}
	if acct.LateFee, err = parseDecimalFlag("late-fee", f.lateFee); err != nil {
		return model.Account{}, err
	}

	apr, err := parseDecimalFlag("apr", f.apr)
	if err != nil {
		return model.Account{}, err
	}
	margin, err := parseDecimalFlag("prime-margin", f.primeMargin)
	if err != nil {
		return model.Account{}, err
	}
	ceiling, err := parseDecimalFlag("apr-cap", f.aprCap)
	if err != nil {
		return model.Account{}, err
	}
	switch {
	case apr.Valid:
		if ceiling.Valid {
			return model.Account{}, fmt.Errorf("--apr-cap only applies with --prime-margin")
		}
		acct.APR = model.FixedAPR{Rate: apr.Decimal}
	case margin.Valid:
		acct.APR = model.PrimeIndexedAPR{Margin: margin.Decimal, Cap: ceiling}
	case ceiling.Valid:
		return model.Account{}, fmt.Errorf("--apr-cap only applies with --prime-margin")
	}

	flat, err := parseDecimalFlag("min-flat", f.minFlat)
	if err != nil {
		return model.Account{}, err
	}
	percent, err := parseDecimalFlag("min-percent", f.minPercent)
	if err != nil {
		return model.Account{}, err
	}
	switch {
	case flat.Valid:
		acct.Minimum = model.FlatMinimum{Amount: flat.Decimal}
	case percent.Valid:
		acct.Minimum = model.PercentMinimum{Percent: percent.Decimal}
	}

	return acct, nil
}

func (a *app) runAccountAdd(out io.Writer, svc *planning.Service, acct model.Account) error {
	added, err := svc.Accounts().Add(acct, time.Now())
	if err != nil {
		return err
	}
	if err := svc.Accounts().Save(svc.Root()); err != nil {
		return err
	}
	if err := a.commit(svc.Root(), svc.Config(), "account: add "+added.DisplayName()); err != nil {
		return err
	}
	a.log.Info("added account", "id", added.ID, "kind", added.Kind)
	_, err = fmt.Fprintf(out, "Added %s account %s (%s)\n", added.Kind, added.DisplayName(), added.ID)
	return err
}

func newAccountListCommand(a *app) *cobra.Command {
	var all, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their latest balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open()
			if err != nil {
				return err
			}
			return runAccountList(cmd.OutOrStdout(), svc, all, asJSON)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include inactive accounts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type accountRow struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Kind        model.Kind          `json:"kind"`
	Balance     decimal.NullDecimal `json:"balance"`
	APR         decimal.NullDecimal `json:"apr"`
	DueDay      int                 `json:"due_day,omitempty"`
	Utilization decimal.NullDecimal `json:"utilization"`
	Active      bool                `json:"active"`
}

func runAccountList(out io.Writer, svc *planning.Service, all, asJSON bool) error {
	current, err := svc.CurrentBalances()
	if err != nil {
		return err
	}

	accts := svc.Accounts().Active()
	if all {
		accts = svc.Accounts().All()
	}

	rows := make([]accountRow, 0, len(accts))
	for _, acct := range accts {
		row := accountRow{
			ID:     acct.ID,
			Name:   acct.DisplayName(),
			Kind:   acct.Kind,
			DueDay: acct.DueDay,
			Active: acct.Active,
		}
		if rate, ok := finance.CurrentAPR(acct, svc.PrimeRate()); ok {
			row.APR = decimal.NewNullDecimal(rate)
		}
		if bal, ok := current[acct.ID]; ok {
			row.Balance = decimal.NewNullDecimal(bal)
			if pct, ok := finance.CreditUtilization(acct, bal); ok {
				row.Utilization = decimal.NewNullDecimal(pct)
			}
		}
		rows = append(rows, row)
	}

	if asJSON {
		return printJSON(out, rows)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No accounts. Add one with 'paydown account add'.")
		return err
	}

	tbl := newTable(out, "ID", "Account", "Kind", "Balance", "APR", "Due", "Util")
	for _, r := range rows {
		balance := "-"
		if r.Balance.Valid {
			balance = formatMoney(r.Balance.Decimal)
		}
		due := "-"
		if r.DueDay > 0 {
			due = strconv.Itoa(r.DueDay)
		}
		name := r.Name
		if !r.Active {
			name = mutedStyle.Render(name + " (inactive)")
		}
		tbl.row(shortID(r.ID), name, string(r.Kind), balance, formatNullPercent(r.APR), due, formatNullPercent(r.Utilization))
	}
	return tbl.flush()
}

func newAccountDeactivateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <account>",
		Short: "Stop counting an account in plans and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open()
			if err != nil {
				return err
			}
			acct, err := svc.Accounts().Find(args[0])
			if err != nil {
				return err
			}
			if err := svc.Accounts().SetActive(acct.ID, false, time.Now()); err != nil {
				return err
			}
			if err := svc.Accounts().Save(svc.Root()); err != nil {
				return err
			}
			if err := a.commit(svc.Root(), svc.Config(), "account: deactivate "+acct.DisplayName()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %s\n", acct.DisplayName())
			return err
		},
	}
}

// shortID trims a UUID to its first block for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
