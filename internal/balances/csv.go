package balances

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/model"
)

// Header is the CSV header for balances.csv.
const Header = "snapshot_id,account_id,as_of,amount,available_credit,entered_at,notes"

const (
	numFields     = 7
	dateFormat    = "2006-01-02"
	colID         = 0
	colAccountID  = 1
	colAsOf       = 2
	colAmount     = 3
	colAvailable  = 4
	colEnteredAt  = 5
	colNotes      = 6
	enteredFormat = time.RFC3339
)

// ReadSnapshots reads all snapshots from a balances.csv reader.
func ReadSnapshots(r io.Reader) ([]model.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading balances CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var snaps []model.Snapshot
	for i, rec := range records[1:] {
		snap, err := UnmarshalSnapshot(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// WriteSnapshots writes snapshots to a balances.csv writer (including header).
func WriteSnapshots(w io.Writer, snaps []model.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, snap := range snaps {
		if err := cw.Write(MarshalSnapshot(snap)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendSnapshots appends snapshots to an existing balances.csv writer (no header).
func AppendSnapshots(w io.Writer, snaps []model.Snapshot) error {
	cw := csv.NewWriter(w)

	for i, snap := range snaps {
		if err := cw.Write(MarshalSnapshot(snap)); err != nil {
			return fmt.Errorf("writing snapshot %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSnapshot converts a Snapshot to a CSV row.
func MarshalSnapshot(s model.Snapshot) []string {
	row := make([]string, numFields)
	row[colID] = s.ID
	row[colAccountID] = s.AccountID
	row[colAsOf] = s.AsOf.Format(dateFormat)
	row[colAmount] = s.Amount.StringFixed(2)
	if s.AvailableCredit.Valid {
		row[colAvailable] = s.AvailableCredit.Decimal.StringFixed(2)
	}
	row[colEnteredAt] = s.EnteredAt.UTC().Format(enteredFormat)
	row[colNotes] = s.Notes
	return row
}

// UnmarshalSnapshot converts a CSV row to a Snapshot.
func UnmarshalSnapshot(record []string) (model.Snapshot, error) {
	if len(record) != numFields {
		return model.Snapshot{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	asOf, err := time.Parse(dateFormat, record[colAsOf])
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing as_of %q: %w", record[colAsOf], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var available decimal.NullDecimal
	if record[colAvailable] != "" {
		d, err := decimal.NewFromString(record[colAvailable])
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("parsing available_credit %q: %w", record[colAvailable], err)
		}
		available = decimal.NewNullDecimal(d)
	}

	entered, err := time.Parse(enteredFormat, record[colEnteredAt])
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing entered_at %q: %w", record[colEnteredAt], err)
	}

	return model.Snapshot{
		ID:              record[colID],
		AccountID:       record[colAccountID],
		Amount:          amount,
		EnteredAt:       entered,
		AsOf:            asOf,
		AvailableCredit: available,
		Notes:           record[colNotes],
	}, nil
}
