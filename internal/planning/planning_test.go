package planning

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydown-dev/paydown/internal/accounts"
	"github.com/paydown-dev/paydown/internal/balances"
	"github.com/paydown-dev/paydown/internal/config"
	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/planner"
)

var (
	stamp   = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	entered = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	today   = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func ledgerAccounts() []model.Account {
	return []model.Account{
		{ID: "chk", Name: "Checking", Kind: model.KindChecking, Active: true, CreatedAt: stamp, UpdatedAt: stamp},
		{
			ID: "visa", Name: "Visa", Kind: model.KindCreditCard, Active: true,
			CreditLimit: decimal.NewNullDecimal(dec("5000")),
			APR:         model.FixedAPR{Rate: dec("20")},
			DueDay:      10,
			CreatedAt:   stamp, UpdatedAt: stamp,
		},
		{
			ID: "auto", Name: "Auto", Kind: model.KindLoan, Active: true,
			DueDay:    20,
			Minimum:   model.FlatMinimum{Amount: dec("300")},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: "student", Name: "Student", Kind: model.KindLoan, Active: true,
			APR:       model.FixedAPR{Rate: dec("6")},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
	}
}

// newLedger writes a config and accounts, opens the ledger and records the
// given balances as of 2026-02-28.
func newLedger(t *testing.T, cfg *config.Config, accts []model.Account, amounts map[string]string) *Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))
	require.NoError(t, accounts.NewService(accts).Save(dir))

	svc, err := Open(dir, discard())
	require.NoError(t, err)

	for _, a := range accts {
		amount, ok := amounts[a.ID]
		if !ok {
			continue
		}
		_, err := svc.Balances().Record(balances.RecordParams{
			AccountID: a.ID,
			AsOf:      time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			Amount:    dec(amount),
			EnteredAt: entered,
		})
		require.NoError(t, err)
	}
	return svc
}

func defaultLedger(t *testing.T) *Service {
	return newLedger(t, config.Default("Test"), ledgerAccounts(), map[string]string{
		"chk":     "2000",
		"visa":    "1000",
		"auto":    "10000",
		"student": "5000",
	})
}

func TestOpen_NotLedger(t *testing.T) {
	_, err := Open(t.TempDir(), discard())
	assert.ErrorIs(t, err, ErrNotLedger)
}

func TestOpen_CreatesDefaultSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("household:\n  name: Bare\n"), 0o644))

	svc, err := Open(dir, discard())
	require.NoError(t, err)
	assert.True(t, svc.PrimeRate().Equal(dec("8.5")))

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Settings.PrimeRate)
	assert.True(t, reloaded.Settings.PrimeRate.Equal(dec("8.5")))
}

func TestPlan(t *testing.T) {
	svc := defaultLedger(t)

	res, err := svc.Plan(Options{Today: today})
	require.NoError(t, err)

	assert.Equal(t, planner.Avalanche, res.Strategy)
	assert.True(t, res.CheckingCash.Equal(dec("2000")))
	assert.True(t, res.AvailableCash.Equal(dec("1500")))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), res.NextPaycheck)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), res.SecondPaycheck)

	plan := res.Plan
	require.Len(t, plan.Payments, 3)

	// Visa is due before the next paycheck.
	assert.Equal(t, "visa", plan.Payments[0].AccountID)
	assert.Equal(t, model.PriorityUrgent, plan.Payments[0].Priority)
	assert.True(t, plan.Payments[0].Suggested.Equal(dec("40")))

	// Auto is due after it, and the configured paycheck of 0 covers nothing.
	assert.Equal(t, "auto", plan.Payments[1].AccountID)
	assert.True(t, plan.Payments[1].Shortfall)
	assert.True(t, plan.Payments[1].Suggested.Equal(dec("300")))
	assert.True(t, plan.Period2Shortfall.Equal(dec("300")))

	// Whatever is left goes to the remaining debt.
	assert.Equal(t, "student", plan.Payments[2].AccountID)
	assert.Equal(t, model.PriorityStrategic, plan.Payments[2].Priority)
	assert.True(t, plan.Payments[2].Suggested.Equal(dec("1160")))

	assert.True(t, plan.Total().Equal(res.AvailableCash))
	assert.True(t, plan.RemainingCash.IsZero())
	assert.False(t, plan.LongHorizon)
}

func TestPlan_Overrides(t *testing.T) {
	svc := defaultLedger(t)

	res, err := svc.Plan(Options{
		Today:          today,
		Strategy:       "snowball",
		NextPaycheck:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		SecondPaycheck: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		PaycheckAmount: decimal.NewNullDecimal(dec("2500")),
		SafetyBuffer:   decimal.NewNullDecimal(dec("1900")),
	})
	require.NoError(t, err)
	assert.Equal(t, planner.Snowball, res.Strategy)
	assert.True(t, res.AvailableCash.Equal(dec("100")))
	assert.True(t, res.PaycheckAmount.Equal(dec("2500")))

	// Visa falls in the second period and the paycheck covers it. The
	// unscheduled debts go smallest balance first.
	require.NotEmpty(t, res.Plan.Payments)
	assert.Equal(t, "student", res.Plan.Payments[0].AccountID)
	assert.True(t, res.Plan.Payments[0].Suggested.Equal(dec("100")))
	assert.True(t, res.Plan.Period2Shortfall.IsZero())
}

func TestPlan_NextPaycheckOnly(t *testing.T) {
	svc := defaultLedger(t)

	res, err := svc.Plan(Options{Today: today, NextPaycheck: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), res.SecondPaycheck)
}

func TestPlan_Errors(t *testing.T) {
	svc := defaultLedger(t)

	_, err := svc.Plan(Options{Today: today, Strategy: "hopeful"})
	assert.ErrorContains(t, err, "unknown strategy")

	_, err = svc.Plan(Options{Today: today, NextPaycheck: today, SecondPaycheck: today.AddDate(0, 0, 14)})
	assert.ErrorContains(t, err, "is not after today")

	_, err = svc.Plan(Options{
		Today:          today,
		NextPaycheck:   today.AddDate(0, 0, 14),
		SecondPaycheck: today.AddDate(0, 0, 14),
	})
	assert.ErrorContains(t, err, "is not after next paycheck")

	svc.Config().Paycheck.Schedule = "whenever"
	_, err = svc.Plan(Options{Today: today})
	assert.ErrorContains(t, err, "parsing paycheck schedule")
}

func TestPlan_LongHorizon(t *testing.T) {
	cfg := config.Default("Test")
	cfg.Paycheck.Schedule = "@monthly"
	svc := newLedger(t, cfg, ledgerAccounts(), map[string]string{"chk": "600", "visa": "100"})

	res, err := svc.Plan(Options{Today: today, NextPaycheck: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, res.Plan.LongHorizon)
}

func TestPlan_CheckingFilter(t *testing.T) {
	accts := append(ledgerAccounts(), model.Account{
		ID: "joint", Name: "Joint", Kind: model.KindChecking, Active: true, CreatedAt: stamp, UpdatedAt: stamp,
	})
	cfg := config.Default("Test")
	cfg.Planning.CheckingAccounts = []string{"joint"}
	svc := newLedger(t, cfg, accts, map[string]string{"chk": "2000", "joint": "800"})

	res, err := svc.Plan(Options{Today: today})
	require.NoError(t, err)
	assert.True(t, res.CheckingCash.Equal(dec("800")))
	assert.True(t, res.AvailableCash.Equal(dec("300")))
}

func TestMetrics(t *testing.T) {
	svc := defaultLedger(t)

	s, err := svc.Metrics()
	require.NoError(t, err)
	assert.True(t, s.TotalAssets.Equal(dec("2000")))
	assert.True(t, s.TotalDebt.Equal(dec("16000")))
	assert.True(t, s.NetWorth.Equal(dec("-14000")))
	assert.True(t, s.TotalAvailableCredit.Equal(dec("4000")))
	require.True(t, s.Utilization.Valid)
	assert.True(t, s.Utilization.Decimal.Equal(dec("20")))
}

func TestNetWorth(t *testing.T) {
	svc := defaultLedger(t)
	_, err := svc.Balances().Record(balances.RecordParams{
		AccountID: "chk",
		AsOf:      time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Amount:    dec("1500"),
		EnteredAt: entered,
	})
	require.NoError(t, err)

	points, err := svc.NetWorth()
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].NetWorth.Equal(dec("1500")))
	assert.Equal(t, 1, points[0].Accounts)
	assert.True(t, points[1].NetWorth.Equal(dec("-14000")))
	assert.Equal(t, 4, points[1].Accounts)
}
