package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/paydown-dev/paydown/internal/networth"
)

func newNetWorthCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "networth",
		Short: "Show month-end net worth for the last year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open()
			if err != nil {
				return err
			}
			points, err := svc.NetWorth()
			if err != nil {
				return err
			}
			if asJSON {
				if points == nil {
					points = []networth.MonthPoint{}
				}
				return printJSON(cmd.OutOrStdout(), points)
			}
			return printNetWorth(cmd.OutOrStdout(), points)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printNetWorth(out io.Writer, points []networth.MonthPoint) error {
	if len(points) == 0 {
		_, err := fmt.Fprintln(out, "No balances recorded.")
		return err
	}

	if _, err := fmt.Fprintln(out, titleStyle.Render("Net worth by month")); err != nil {
		return err
	}
	tbl := newTable(out, "Month", "Net Worth", "Change", "Accounts")
	for i, p := range points {
		change := "-"
		if i > 0 {
			delta := p.NetWorth.Sub(points[i-1].NetWorth)
			change = formatMoney(delta)
			if delta.IsPositive() {
				change = "+" + change
			}
		}
		tbl.row(p.Month.Format("2006-01"), formatMoney(p.NetWorth), change, strconv.Itoa(p.Accounts))
	}
	if err := tbl.flush(); err != nil {
		return err
	}

	if !networth.Plottable(points) {
		_, err := fmt.Fprintf(out, "\n%s\n", mutedStyle.Render(fmt.Sprintf(
			"Record balances in at least %d months to see a trend.", networth.MinPlottable)))
		return err
	}
	return nil
}
