package balances

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/finance"
	"github.com/paydown-dev/paydown/internal/id"
	"github.com/paydown-dev/paydown/internal/model"
)

const fileName = "balances.csv"

// Service stores balance snapshots in per-month files under the ledger root.
type Service struct {
	repoRoot string
	accounts AccountLookup
}

// NewService creates a balances Service.
func NewService(repoRoot string, accounts AccountLookup) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// RecordParams holds one balance entry.
type RecordParams struct {
	AccountID       string
	AsOf            time.Time
	Amount          decimal.Decimal
	AvailableCredit decimal.NullDecimal
	Notes           string
	EnteredAt       time.Time
}

// Record validates a snapshot and appends it to the as-of month's balances.csv.
// Returns the snapshot ID.
func (s *Service) Record(params RecordParams) (string, error) {
	ids, err := s.RecordAll([]RecordParams{params})
	if err != nil {
		var entryErr *EntryError
		if errors.As(err, &entryErr) {
			return "", entryErr.Err
		}
		return "", err
	}
	return ids[0], nil
}

// EntryError reports which entry of a batch failed validation.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index+1, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

type monthKey struct{ year, month int }

// RecordAll validates a batch of snapshots against the months they land in and
// appends them only if every entry passes. IDs are returned in params order.
func (s *Service) RecordAll(params []RecordParams) ([]string, error) {
	existing := make(map[monthKey][]model.Snapshot)
	added := make(map[monthKey][]model.Snapshot)
	var order []monthKey
	index := make(map[string]int, len(params))
	ids := make([]string, len(params))

	for i, p := range params {
		key := monthKey{p.AsOf.Year(), int(p.AsOf.Month())}
		if _, ok := existing[key]; !ok {
			snaps, err := s.ReadMonth(key.year, key.month)
			if err != nil {
				return nil, err
			}
			existing[key] = snaps
			order = append(order, key)
		}

		seq := nextSeq(existing[key]) + len(added[key])
		snap := model.Snapshot{
			ID:              id.FormatSnapshotID(key.year, key.month, seq),
			AccountID:       p.AccountID,
			Amount:          p.Amount,
			EnteredAt:       p.EnteredAt.UTC().Truncate(time.Second),
			AsOf:            finance.Day(p.AsOf),
			AvailableCredit: p.AvailableCredit,
			Notes:           p.Notes,
		}
		added[key] = append(added[key], snap)
		index[snap.ID] = i
		ids[i] = snap.ID
	}

	// Validate each whole month with the new snapshots in place.
	for _, key := range order {
		all := append(append([]model.Snapshot(nil), existing[key]...), added[key]...)
		verrs := ValidateSnapshots(all, s.accounts, key.year, key.month)
		if len(verrs) == 0 {
			continue
		}
		first := -1
		var msgs []string
		for _, ve := range verrs {
			i, ok := index[ve.SnapshotID]
			if !ok {
				continue
			}
			if first == -1 || i < first {
				first = i
				msgs = msgs[:0]
			}
			if i == first {
				msgs = append(msgs, ve.Error())
			}
		}
		if first == -1 {
			for _, ve := range verrs {
				msgs = append(msgs, ve.Error())
			}
			return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
		}
		return nil, &EntryError{Index: first, Err: fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))}
	}

	for _, key := range order {
		if err := s.appendMonth(key, added[key]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Service) appendMonth(key monthKey, snaps []model.Snapshot) error {
	path := s.monthPath(key.year, key.month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating balances dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening balances: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendSnapshots(f, snaps); err != nil {
		return fmt.Errorf("appending snapshots: %w", err)
	}
	return nil
}

// ReadMonth reads all snapshots for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Snapshot, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening balances %s: %w", path, err)
	}
	defer f.Close()

	snaps, err := ReadSnapshots(f)
	if err != nil {
		return nil, fmt.Errorf("reading balances %s: %w", path, err)
	}
	return snaps, nil
}

// All reads every month's snapshots, oldest month first.
func (s *Service) All() ([]model.Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(s.repoRoot, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", fileName))
	if err != nil {
		return nil, fmt.Errorf("listing balance files: %w", err)
	}
	sort.Strings(paths)

	var all []model.Snapshot
	for _, p := range paths {
		monthDir := filepath.Dir(p)
		year, err := strconv.Atoi(filepath.Base(filepath.Dir(monthDir)))
		if err != nil {
			return nil, fmt.Errorf("parsing year in %s: %w", p, err)
		}
		month, err := strconv.Atoi(filepath.Base(monthDir))
		if err != nil {
			return nil, fmt.Errorf("parsing month in %s: %w", p, err)
		}
		snaps, err := s.ReadMonth(year, month)
		if err != nil {
			return nil, err
		}
		all = append(all, snaps...)
	}
	return all, nil
}

// Latest returns the most recently entered snapshot for an account.
func (s *Service) Latest(accountID string) (model.Snapshot, bool, error) {
	all, err := s.All()
	if err != nil {
		return model.Snapshot{}, false, err
	}
	snap, ok := finance.LatestSnapshot(all, accountID)
	return snap, ok, nil
}

func nextSeq(snaps []model.Snapshot) int {
	maxSeq := 0
	for _, snap := range snaps {
		_, _, seq, err := id.ParseSnapshotID(snap.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), fileName)
}
