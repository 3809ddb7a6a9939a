// Package planning loads a ledger and runs the engine over it.
package planning

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/accounts"
	"github.com/paydown-dev/paydown/internal/balances"
	"github.com/paydown-dev/paydown/internal/config"
	"github.com/paydown-dev/paydown/internal/finance"
	"github.com/paydown-dev/paydown/internal/metrics"
	"github.com/paydown-dev/paydown/internal/model"
	"github.com/paydown-dev/paydown/internal/networth"
	"github.com/paydown-dev/paydown/internal/paycheck"
	"github.com/paydown-dev/paydown/internal/planner"
)

// ErrNotLedger is returned by Open when the directory has no paydown.yaml.
var ErrNotLedger = errors.New("not a paydown ledger (no " + config.FileName + "); run 'paydown init'")

// Service is an opened ledger.
type Service struct {
	repoRoot string
	cfg      *config.Config
	accounts *accounts.Service
	balances *balances.Service
	log      *slog.Logger
}

// Open loads config and accounts from repoRoot. When the config has no prime
// rate yet, the default is written back before returning.
func Open(repoRoot string, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	cfgPath := filepath.Join(repoRoot, config.FileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return nil, ErrNotLedger
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if cfg.EnsureSettings() {
		if err := config.Save(cfgPath, cfg); err != nil {
			return nil, err
		}
		log.Info("created default settings", "prime_rate", cfg.Settings.PrimeRate.String())
	}

	accts, err := accounts.Load(repoRoot)
	if err != nil {
		return nil, err
	}

	return &Service{
		repoRoot: repoRoot,
		cfg:      cfg,
		accounts: accts,
		balances: balances.NewService(repoRoot, accts),
		log:      log,
	}, nil
}

// Root returns the ledger directory.
func (s *Service) Root() string { return s.repoRoot }

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Accounts returns the account store.
func (s *Service) Accounts() *accounts.Service { return s.accounts }

// Balances returns the snapshot store.
func (s *Service) Balances() *balances.Service { return s.balances }

// PrimeRate returns the configured prime rate.
func (s *Service) PrimeRate() decimal.Decimal {
	return s.cfg.GlobalSettings().PrimeRate
}

// Options override config values for a single planning run. Zero values
// fall back to the config.
type Options struct {
	Today          time.Time
	Strategy       string
	NextPaycheck   time.Time
	SecondPaycheck time.Time
	PaycheckAmount decimal.NullDecimal
	SafetyBuffer   decimal.NullDecimal
}

// Result is a plan together with the inputs that produced it.
type Result struct {
	Plan           planner.Plan     `json:"plan"`
	Strategy       planner.Strategy `json:"strategy"`
	PrimeRate      decimal.Decimal  `json:"prime_rate"`
	CheckingCash   decimal.Decimal  `json:"checking_cash"`
	SafetyBuffer   decimal.Decimal  `json:"safety_buffer"`
	AvailableCash  decimal.Decimal  `json:"available_cash"`
	Today          time.Time        `json:"today"`
	NextPaycheck   time.Time        `json:"next_paycheck"`
	SecondPaycheck time.Time        `json:"second_paycheck"`
	PaycheckAmount decimal.Decimal  `json:"paycheck_amount"`
}

// Plan runs the payment planner against the latest balances.
func (s *Service) Plan(opts Options) (Result, error) {
	strategyName := opts.Strategy
	if strategyName == "" {
		strategyName = s.cfg.Planning.Strategy
	}
	strategy, err := planner.ParseStrategy(strategyName)
	if err != nil {
		return Result{}, err
	}

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = finance.Day(today)

	next, second, err := s.paydays(today, opts.NextPaycheck, opts.SecondPaycheck)
	if err != nil {
		return Result{}, err
	}

	current, err := s.currentBalances()
	if err != nil {
		return Result{}, err
	}

	buffer := s.cfg.Planning.SafetyBuffer
	if opts.SafetyBuffer.Valid {
		buffer = opts.SafetyBuffer.Decimal
	}
	amount := s.cfg.Paycheck.Amount
	if opts.PaycheckAmount.Valid {
		amount = opts.PaycheckAmount.Decimal
	}

	checking := s.checkingCash(current)
	res := Result{
		Strategy:       strategy,
		PrimeRate:      s.PrimeRate(),
		CheckingCash:   checking,
		SafetyBuffer:   buffer,
		AvailableCash:  planner.AvailableCash(checking, buffer),
		Today:          today,
		NextPaycheck:   next,
		SecondPaycheck: second,
		PaycheckAmount: amount,
	}

	res.Plan = planner.Generate(planner.Input{
		Debts:              planner.DebtsFrom(s.accounts.All(), current),
		PrimeRate:          res.PrimeRate,
		Strategy:           strategy,
		AvailableCash:      res.AvailableCash,
		Today:              today,
		NextPaycheck:       next,
		SecondPaycheck:     second,
		NextPaycheckAmount: amount,
	})

	s.log.Debug("generated plan",
		"strategy", strategy,
		"available_cash", res.AvailableCash.StringFixed(2),
		"next_paycheck", next.Format(time.DateOnly),
		"second_paycheck", second.Format(time.DateOnly),
		"payments", len(res.Plan.Payments),
	)
	if res.Plan.Period2Shortfall.IsPositive() {
		s.log.Info("next paycheck will not cover upcoming minimums",
			"shortfall", res.Plan.Period2Shortfall.StringFixed(2))
	}
	if res.Plan.LongHorizon {
		s.log.Warn("pay period exceeds planning horizon; treat plan as advisory",
			"days", planner.LongHorizonDays)
	}
	return res, nil
}

// Metrics summarizes the latest balances.
func (s *Service) Metrics() (metrics.Summary, error) {
	current, err := s.currentBalances()
	if err != nil {
		return metrics.Summary{}, err
	}
	return metrics.Compute(s.accounts.All(), current, s.PrimeRate()), nil
}

// NetWorth returns month-end net worth for up to the last twelve months.
func (s *Service) NetWorth() ([]networth.MonthPoint, error) {
	snaps, err := s.balances.All()
	if err != nil {
		return nil, err
	}
	return networth.History(s.accounts.All(), snaps), nil
}

// CurrentBalances returns the effective balance of every account with a snapshot.
func (s *Service) CurrentBalances() (map[string]decimal.Decimal, error) {
	return s.currentBalances()
}

func (s *Service) currentBalances() (map[string]decimal.Decimal, error) {
	snaps, err := s.balances.All()
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}
	return finance.CurrentBalances(s.accounts.All(), snaps), nil
}

// checkingCash sums active checking balances, limited to the configured
// accounts when the config names any.
func (s *Service) checkingCash(current map[string]decimal.Decimal) decimal.Decimal {
	allowed := make(map[string]bool, len(s.cfg.Planning.CheckingAccounts))
	for _, id := range s.cfg.Planning.CheckingAccounts {
		allowed[id] = true
	}

	total := decimal.Zero
	for _, a := range s.accounts.ByKind(model.KindChecking) {
		if !a.Active {
			continue
		}
		if len(allowed) > 0 && !allowed[a.ID] {
			continue
		}
		total = total.Add(current[a.ID])
	}
	return total
}

// paydays fills in whichever paycheck dates were not supplied from the schedule.
func (s *Service) paydays(today, next, second time.Time) (time.Time, time.Time, error) {
	if next.IsZero() || second.IsZero() {
		sched, err := paycheck.Parse(s.cfg.Paycheck.Schedule)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if next.IsZero() {
			next, _ = sched.Next(today)
		}
		if second.IsZero() {
			second, _ = sched.Next(next)
		}
	}
	next, second = finance.Day(next), finance.Day(second)

	if !next.After(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("next paycheck %s is not after today %s",
			next.Format(time.DateOnly), today.Format(time.DateOnly))
	}
	if !second.After(next) {
		return time.Time{}, time.Time{}, fmt.Errorf("second paycheck %s is not after next paycheck %s",
			second.Format(time.DateOnly), next.Format(time.DateOnly))
	}
	return next, second, nil
}
