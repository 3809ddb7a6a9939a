package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/paydown-dev/paydown/internal/metrics"
)

func newMetricsCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show debt, assets, net worth and credit usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.open()
			if err != nil {
				return err
			}
			s, err := svc.Metrics()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), s)
			}
			return printMetrics(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printMetrics(out io.Writer, s metrics.Summary) error {
	if _, err := fmt.Fprintln(out, titleStyle.Render("Household summary")); err != nil {
		return err
	}
	tbl := newTable(out, "Metric", "Value")
	tbl.row("Total debt", formatMoney(s.TotalDebt))
	tbl.row("Total assets", formatMoney(s.TotalAssets))
	tbl.row("Net worth", formatMoney(s.NetWorth))
	tbl.row("Available credit", formatMoney(s.TotalAvailableCredit))
	tbl.row("Minimum payments", formatMoney(s.TotalMinimumPayments))
	tbl.row("Credit utilization", formatNullPercent(s.Utilization))
	return tbl.flush()
}
