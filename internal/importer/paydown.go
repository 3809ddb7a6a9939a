package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/model"
)

// PaydownParser reads the native balance export: account_id,as_of,amount,available_credit.
type PaydownParser struct{}

// PaydownHeader is the expected header row.
const PaydownHeader = "account_id,as_of,amount,available_credit"

const (
	paydownNumFields   = 4
	paydownColAccount  = 0
	paydownColAsOf     = 1
	paydownColAmount   = 2
	paydownColAvailCrd = 3
)

// Accepted as-of layouts, tried in order.
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// Format returns the parser name.
func (p *PaydownParser) Format() string { return "paydown" }

// Parse reads a balance CSV and returns unrecorded snapshots (no ID, no entry time).
func (p *PaydownParser) Parse(r io.Reader) ([]model.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = paydownNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading paydown CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.ToLower(strings.Join(records[0], ",")); got != PaydownHeader {
		return nil, fmt.Errorf("unexpected header %q", got)
	}

	var snaps []model.Snapshot
	for i, rec := range records[1:] {
		s, err := parsePaydownRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}

func parsePaydownRow(rec []string) (model.Snapshot, error) {
	accountID := strings.TrimSpace(rec[paydownColAccount])
	if accountID == "" {
		return model.Snapshot{}, fmt.Errorf("missing account_id")
	}

	asOf, err := parseDate(rec[paydownColAsOf])
	if err != nil {
		return model.Snapshot{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[paydownColAmount]))
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing amount %q: %w", rec[paydownColAmount], err)
	}

	var avail decimal.NullDecimal
	if v := strings.TrimSpace(rec[paydownColAvailCrd]); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("parsing available_credit %q: %w", v, err)
		}
		avail = decimal.NewNullDecimal(d)
	}

	return model.Snapshot{
		AccountID:       accountID,
		AsOf:            asOf,
		Amount:          amount,
		AvailableCredit: avail,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}
