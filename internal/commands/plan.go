package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/planlog"
	"github.com/paydown-dev/paydown/internal/planner"
	"github.com/paydown-dev/paydown/internal/planning"
)

type planFlags struct {
	strategy       string
	today          string
	nextPaycheck   string
	secondPaycheck string
	paycheckAmount string
	buffer         string
	asJSON         bool
	noLog          bool
}

func newPlanCommand(a *app) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest payments for this pay period",
		Long: `Suggest payments for this pay period.

Minimums due before the next paycheck are paid first. If the following
paycheck will not cover the minimums due after it, one of those accounts is
paid ahead. Whatever cash is left goes to the remaining debts in strategy
order: avalanche (highest APR first) or snowball (smallest balance first).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			svc, err := a.open()
			if err != nil {
				return err
			}
			return a.runPlan(cmd.OutOrStdout(), svc, opts, f.asJSON, !f.noLog)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.strategy, "strategy", "", "avalanche or snowball (default from paydown.yaml)")
	fl.StringVar(&f.today, "today", "", "plan as of this date, YYYY-MM-DD")
	fl.StringVar(&f.nextPaycheck, "next-paycheck", "", "next paycheck date, YYYY-MM-DD (default from schedule)")
	fl.StringVar(&f.secondPaycheck, "second-paycheck", "", "paycheck after next, YYYY-MM-DD (default from schedule)")
	fl.StringVar(&f.paycheckAmount, "paycheck-amount", "", "next paycheck amount (default from paydown.yaml)")
	fl.StringVar(&f.buffer, "buffer", "", "cash to keep in checking (default from paydown.yaml)")
	fl.BoolVar(&f.asJSON, "json", false, "print JSON")
	fl.BoolVar(&f.noLog, "no-log", false, "do not append the plan to logs/plan-log.csv")
	return cmd
}

func (f planFlags) options() (planning.Options, error) {
	var opts planning.Options
	var err error
	opts.Strategy = f.strategy
	if opts.Today, err = parseDateFlag("today", f.today, time.Local); err != nil {
		return opts, err
	}
	if opts.NextPaycheck, err = parseDateFlag("next-paycheck", f.nextPaycheck, time.Local); err != nil {
		return opts, err
	}
	if opts.SecondPaycheck, err = parseDateFlag("second-paycheck", f.secondPaycheck, time.Local); err != nil {
		return opts, err
	}
	if opts.PaycheckAmount, err = parseDecimalFlag("paycheck-amount", f.paycheckAmount); err != nil {
		return opts, err
	}
	if opts.SafetyBuffer, err = parseDecimalFlag("buffer", f.buffer); err != nil {
		return opts, err
	}
	return opts, nil
}

func (a *app) runPlan(out io.Writer, svc *planning.Service, opts planning.Options, asJSON, logRun bool) error {
	res, err := svc.Plan(opts)
	if err != nil {
		return err
	}

	if logRun {
		entries := planlog.EntriesFor(time.Now(), string(res.Strategy), res.Plan.Payments)
		if err := planlog.Append(svc.Root(), entries); err != nil {
			return err
		}
	}

	if asJSON {
		return printJSON(out, res)
	}
	return printPlan(out, res)
}

// printPlan renders the plan into a buffer and writes it out once.
func printPlan(out io.Writer, res planning.Result) error {
	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(fmt.Sprintf("Payment plan (%s)", res.Strategy)))
	fmt.Fprintf(&b, "Today %s · next paycheck %s · following paycheck %s\n",
		res.Today.Format(time.DateOnly), res.NextPaycheck.Format(time.DateOnly), res.SecondPaycheck.Format(time.DateOnly))
	fmt.Fprintf(&b, "Available cash %s (checking %s less %s buffer)\n\n",
		formatMoney(res.AvailableCash), formatMoney(res.CheckingCash), formatMoney(res.SafetyBuffer))

	if res.Plan.LongHorizon {
		fmt.Fprintln(&b, warnStyle.Render(fmt.Sprintf(
			"Pay period is longer than %d days; treat this plan as advisory.", planner.LongHorizonDays)))
		fmt.Fprintln(&b)
	}

	if len(res.Plan.Payments) == 0 {
		fmt.Fprintln(&b, "No payments suggested.")
		_, err := io.WriteString(out, b.String())
		return err
	}

	tbl := newTable(&b, "Priority", "Account", "Balance", "APR", "Minimum", "Pay")
	for _, p := range res.Plan.Payments {
		priority := string(p.Priority)
		if p.Priority == model.PriorityUrgent {
			priority = warnStyle.Render(priority)
		}
		name := p.AccountName
		if p.Institution != "" {
			name = p.Institution + " " + name
		}
		if p.Shortfall {
			name += " (covers next period)"
		}
		tbl.row(priority, name, formatMoney(p.Balance), formatNullPercent(p.APR), formatMoney(p.Minimum), formatMoney(p.Suggested))
	}
	if err := tbl.flush(); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\nTotal %s", formatMoney(res.Plan.Total()))
	if res.Plan.RemainingCash.IsPositive() {
		fmt.Fprintf(&b, " · %s left over", formatMoney(res.Plan.RemainingCash))
	}
	fmt.Fprintln(&b)
	if res.Plan.Period2Shortfall.IsPositive() {
		fmt.Fprintf(&b, "Next paycheck falls %s short of the minimums due after it.\n", formatMoney(res.Plan.Period2Shortfall))
	}

	_, err := io.WriteString(out, b.String())
	return err
}
