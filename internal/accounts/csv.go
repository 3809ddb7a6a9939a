package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paydown-dev/paydown/internal/model"
)

// Header is the CSV header for accounts/accounts.csv.
var Header = []string{
	"account_id", "institution", "name", "kind", "last_four", "credit_limit",
	"apr_mode", "apr_rate", "apr_cap", "due_day", "min_mode", "min_value",
	"late_fee", "active", "notes", "created_at", "updated_at",
}

const (
	numFields     = 17
	colID         = 0
	colInst       = 1
	colName       = 2
	colKind       = 3
	colLastFour   = 4
	colLimit      = 5
	colAPRMode    = 6
	colAPRRate    = 7
	colAPRCap     = 8
	colDueDay     = 9
	colMinMode    = 10
	colMinValue   = 11
	colLateFee    = 12
	colActive     = 13
	colNotes      = 14
	colCreatedAt  = 15
	colUpdatedAt  = 16
	aprFixed      = "fixed"
	aprVariable   = "variable"
	minFlat       = "flat"
	minPercent    = "percent"
	timestampForm = time.RFC3339
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colInst] = acct.Institution
	row[colName] = acct.Name
	row[colKind] = string(acct.Kind)
	row[colLastFour] = acct.LastFour
	row[colLimit] = formatNull(acct.CreditLimit)

	switch terms := acct.APR.(type) {
	case model.FixedAPR:
		row[colAPRMode] = aprFixed
		row[colAPRRate] = terms.Rate.String()
	case model.PrimeIndexedAPR:
		row[colAPRMode] = aprVariable
		row[colAPRRate] = terms.Margin.String()
		row[colAPRCap] = formatNull(terms.Cap)
	}

	if acct.DueDay != 0 {
		row[colDueDay] = strconv.Itoa(acct.DueDay)
	}

	switch rule := acct.Minimum.(type) {
	case model.FlatMinimum:
		row[colMinMode] = minFlat
		row[colMinValue] = rule.Amount.String()
	case model.PercentMinimum:
		row[colMinMode] = minPercent
		row[colMinValue] = rule.Percent.String()
	}

	row[colLateFee] = formatNull(acct.LateFee)
	row[colActive] = strconv.FormatBool(acct.Active)
	row[colNotes] = acct.Notes
	row[colCreatedAt] = formatTime(acct.CreatedAt)
	row[colUpdatedAt] = formatTime(acct.UpdatedAt)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	acct := model.Account{
		ID:          record[colID],
		Institution: record[colInst],
		Name:        record[colName],
		Kind:        model.Kind(record[colKind]),
		LastFour:    record[colLastFour],
		Notes:       record[colNotes],
	}

	var err error
	if acct.CreditLimit, err = parseNull(record[colLimit], "credit_limit"); err != nil {
		return model.Account{}, err
	}

	switch record[colAPRMode] {
	case "":
	case aprFixed:
		rate, err := parseDecimal(record[colAPRRate], "apr_rate")
		if err != nil {
			return model.Account{}, err
		}
		acct.APR = model.FixedAPR{Rate: rate}
	case aprVariable:
		margin, err := parseDecimal(record[colAPRRate], "apr_rate")
		if err != nil {
			return model.Account{}, err
		}
		ceiling, err := parseNull(record[colAPRCap], "apr_cap")
		if err != nil {
			return model.Account{}, err
		}
		acct.APR = model.PrimeIndexedAPR{Margin: margin, Cap: ceiling}
	default:
		return model.Account{}, fmt.Errorf("unknown apr_mode %q", record[colAPRMode])
	}

	if record[colDueDay] != "" {
		acct.DueDay, err = strconv.Atoi(record[colDueDay])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing due_day %q: %w", record[colDueDay], err)
		}
	}

	switch record[colMinMode] {
	case "":
	case minFlat:
		amount, err := parseDecimal(record[colMinValue], "min_value")
		if err != nil {
			return model.Account{}, err
		}
		acct.Minimum = model.FlatMinimum{Amount: amount}
	case minPercent:
		pct, err := parseDecimal(record[colMinValue], "min_value")
		if err != nil {
			return model.Account{}, err
		}
		acct.Minimum = model.PercentMinimum{Percent: pct}
	default:
		return model.Account{}, fmt.Errorf("unknown min_mode %q", record[colMinMode])
	}

	if acct.LateFee, err = parseNull(record[colLateFee], "late_fee"); err != nil {
		return model.Account{}, err
	}

	acct.Active, err = strconv.ParseBool(record[colActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
	}

	if acct.CreatedAt, err = parseTime(record[colCreatedAt], "created_at"); err != nil {
		return model.Account{}, err
	}
	if acct.UpdatedAt, err = parseTime(record[colUpdatedAt], "updated_at"); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseNull(s, field string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(s, field)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampForm)
}

func parseTime(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timestampForm, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return t, nil
}
