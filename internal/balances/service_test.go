package balances

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_NewMonth(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, defaultAccounts)

	snapID, err := svc.Record(RecordParams{
		AccountID: "chk",
		AsOf:      time.Date(2026, 3, 5, 17, 45, 0, 0, time.UTC),
		Amount:    dec("2500.00"),
		EnteredAt: entered,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-001", snapID)

	_, err = os.Stat(filepath.Join(dir, "2026", "03", "balances.csv"))
	require.NoError(t, err)

	snaps, err := svc.ReadMonth(2026, 3)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, date(2026, 3, 5), snaps[0].AsOf, "as-of is stored as a calendar day")
}

func TestRecord_ExistingMonthIncrementsSequence(t *testing.T) {
	svc := NewService(t.TempDir(), defaultAccounts)

	for i, acct := range []string{"chk", "visa", "auto"} {
		snapID, err := svc.Record(RecordParams{AccountID: acct, AsOf: date(2026, 3, 10), Amount: dec("10"), EnteredAt: entered})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-00"+string(rune('1'+i)), snapID)
	}

	snaps, err := svc.ReadMonth(2026, 3)
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestRecord_ValidationFails(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, defaultAccounts)

	_, err := svc.Record(RecordParams{AccountID: "ghost", AsOf: date(2026, 3, 10), Amount: dec("10"), EnteredAt: entered})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account ghost")

	_, err = svc.Record(RecordParams{
		AccountID: "chk", AsOf: date(2026, 3, 10), Amount: dec("10"), EnteredAt: entered,
		AvailableCredit: decimal.NewNullDecimal(dec("5")),
	})
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "2026", "03", "balances.csv"))
	assert.True(t, os.IsNotExist(err), "nothing is written when validation fails")
}

func TestRecordAll_SpansMonths(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, defaultAccounts)
	_, err := svc.Record(RecordParams{AccountID: "chk", AsOf: date(2026, 3, 1), Amount: dec("100"), EnteredAt: entered})
	require.NoError(t, err)

	ids, err := svc.RecordAll([]RecordParams{
		{AccountID: "chk", AsOf: date(2026, 3, 10), Amount: dec("200"), EnteredAt: entered},
		{AccountID: "visa", AsOf: date(2026, 4, 2), Amount: dec("50"), EnteredAt: entered},
		{AccountID: "auto", AsOf: date(2026, 3, 12), Amount: dec("9000"), EnteredAt: entered},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-002", "2026-04-001", "2026-03-003"}, ids)

	march, err := svc.ReadMonth(2026, 3)
	require.NoError(t, err)
	assert.Len(t, march, 3)
	april, err := svc.ReadMonth(2026, 4)
	require.NoError(t, err)
	assert.Len(t, april, 1)
}

func TestRecordAll_InvalidEntryWritesNothing(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, defaultAccounts)

	_, err := svc.RecordAll([]RecordParams{
		{AccountID: "chk", AsOf: date(2026, 3, 5), Amount: dec("2500"), EnteredAt: entered},
		{AccountID: "visa", AsOf: date(2026, 4, 5), Amount: dec("10"), EnteredAt: entered},
		{AccountID: "visa", AsOf: date(2026, 3, 5), Amount: dec("-5"), EnteredAt: entered},
	})
	require.Error(t, err)

	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, 2, entryErr.Index)
	assert.Contains(t, err.Error(), "is negative")

	for _, month := range []string{"03", "04"} {
		_, err = os.Stat(filepath.Join(dir, "2026", month, "balances.csv"))
		assert.True(t, os.IsNotExist(err), "month %s", month)
	}
}

func TestReadMonth_Missing(t *testing.T) {
	svc := NewService(t.TempDir(), defaultAccounts)
	snaps, err := svc.ReadMonth(2030, 1)
	require.NoError(t, err)
	assert.Nil(t, snaps)
}

func TestAllAndLatest(t *testing.T) {
	svc := NewService(t.TempDir(), defaultAccounts)

	record := func(acct string, asOf time.Time, amount string, at time.Time) {
		t.Helper()
		_, err := svc.Record(RecordParams{AccountID: acct, AsOf: asOf, Amount: dec(amount), EnteredAt: at})
		require.NoError(t, err)
	}
	record("chk", date(2026, 2, 27), "900", entered.Add(time.Hour))
	record("chk", date(2025, 12, 31), "700", entered)
	record("chk", date(2026, 3, 1), "1000", entered)
	record("visa", date(2026, 3, 1), "50", entered)

	all, err := svc.All()
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2025-12-001", all[0].ID)
	assert.Equal(t, "2026-02-001", all[1].ID)

	latest, ok, err := svc.Latest("chk")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, latest.Amount.Equal(dec("900")), "latest entered wins, not latest as-of")

	_, ok, err = svc.Latest("auto")
	require.NoError(t, err)
	assert.False(t, ok)
}
