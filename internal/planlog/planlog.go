package planlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/model"
)

// Entry is one suggested payment from a plan run.
type Entry struct {
	Timestamp time.Time
	Strategy  string
	AccountID string
	Account   string
	Priority  model.Priority
	Amount    decimal.Decimal
	Shortfall bool
}

// Header is the CSV header for plan-log.csv.
const Header = "timestamp,strategy,account_id,account,priority,amount,shortfall"

const (
	numFields    = 7
	logDir       = "logs"
	logFile      = "logs/plan-log.csv"
	colTimestamp = 0
	colStrategy  = 1
	colAccountID = 2
	colAccount   = 3
	colPriority  = 4
	colAmount    = 5
	colShortfall = 6
)

// EntriesFor converts a run's payments into log entries stamped with at.
func EntriesFor(at time.Time, strategy string, payments []model.PlannedPayment) []Entry {
	entries := make([]Entry, 0, len(payments))
	for _, p := range payments {
		name := p.AccountName
		if p.Institution != "" {
			name = p.Institution + " " + p.AccountName
		}
		entries = append(entries, Entry{
			Timestamp: at.UTC().Truncate(time.Second),
			Strategy:  strategy,
			AccountID: p.AccountID,
			Account:   name,
			Priority:  p.Priority,
			Amount:    p.Suggested,
			Shortfall: p.Shortfall,
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colStrategy] = e.Strategy
	row[colAccountID] = e.AccountID
	row[colAccount] = e.Account
	row[colPriority] = string(e.Priority)
	row[colAmount] = e.Amount.StringFixed(2)
	row[colShortfall] = strconv.FormatBool(e.Shortfall)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	shortfall, err := strconv.ParseBool(record[colShortfall])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing shortfall %q: %w", record[colShortfall], err)
	}

	priority := model.Priority(record[colPriority])
	if priority != model.PriorityUrgent && priority != model.PriorityStrategic {
		return Entry{}, fmt.Errorf("unknown priority %q", record[colPriority])
	}

	return Entry{
		Timestamp: ts,
		Strategy:  record[colStrategy],
		AccountID: record[colAccountID],
		Account:   record[colAccount],
		Priority:  priority,
		Amount:    amount,
		Shortfall: shortfall,
	}, nil
}

// Append writes entries to <repoRoot>/logs/plan-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening plan log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/plan-log.csv.
// Returns nil if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening plan log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading plan log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
