package planner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydown-dev/paydown/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	today  = date(2026, 3, 1)
	next   = date(2026, 3, 15)
	second = date(2026, 3, 31)
)

func debt(id, apr, balance string, dueDay int) Debt {
	acct := model.Account{ID: id, Name: id, Kind: model.KindCreditCard, DueDay: dueDay, Active: true}
	if apr != "" {
		acct.APR = model.FixedAPR{Rate: dec(apr)}
	}
	return Debt{Account: acct, Balance: dec(balance)}
}

func flatLoan(id, balance, floor string, dueDay int) Debt {
	return Debt{
		Account: model.Account{ID: id, Name: id, Kind: model.KindLoan, DueDay: dueDay, Active: true, Minimum: model.FlatMinimum{Amount: dec(floor)}},
		Balance: dec(balance),
	}
}

func input(strategy Strategy, cash, paycheck string, debts ...Debt) Input {
	return Input{
		Debts:              debts,
		PrimeRate:          dec("8.5"),
		Strategy:           strategy,
		AvailableCash:      dec(cash),
		Today:              today,
		NextPaycheck:       next,
		SecondPaycheck:     second,
		NextPaycheckAmount: dec(paycheck),
	}
}

func ids(plan Plan) []string {
	var out []string
	for _, p := range plan.Payments {
		out = append(out, p.AccountID)
	}
	return out
}

func TestGenerate_NoDebts(t *testing.T) {
	plan := Generate(input(Avalanche, "5000", "2000"))
	assert.Empty(t, plan.Payments)
	assert.True(t, plan.RemainingCash.Equal(dec("5000")))
}

func TestGenerate_AvalancheExtraGoesToHighestAPR(t *testing.T) {
	a := debt("a", "24", "500", 0)
	b := debt("b", "12", "2000", 0)

	plan := Generate(input(Avalanche, "300", "0", b, a))
	require.Len(t, plan.Payments, 1)
	assert.Equal(t, "a", plan.Payments[0].AccountID)
	assert.True(t, plan.Payments[0].Suggested.Equal(dec("300")))
	assert.Equal(t, model.PriorityStrategic, plan.Payments[0].Priority)

	plan = Generate(input(Avalanche, "800", "0", b, a))
	require.Len(t, plan.Payments, 2)
	assert.Equal(t, []string{"a", "b"}, ids(plan))
	assert.True(t, plan.Payments[0].Suggested.Equal(dec("500")), "never past the balance")
	assert.True(t, plan.Payments[1].Suggested.Equal(dec("300")))
	assert.True(t, plan.RemainingCash.IsZero())
}

func TestGenerate_SnowballOrdersByBalance(t *testing.T) {
	plan := Generate(input(Snowball, "100000", "0",
		debt("big", "5", "3000", 0),
		debt("small", "30", "500", 0),
		debt("mid", "18", "1200", 0),
	))
	assert.Equal(t, []string{"small", "mid", "big"}, ids(plan))
	for i := 1; i < len(plan.Payments); i++ {
		assert.True(t, plan.Payments[i-1].Balance.LessThanOrEqual(plan.Payments[i].Balance))
	}
	assert.True(t, plan.RemainingCash.Equal(dec("95300")))
}

func TestGenerate_AvalancheOrdersByAPR(t *testing.T) {
	plan := Generate(input(Avalanche, "100000", "0",
		debt("low", "5", "3000", 0),
		debt("none", "", "700", 0),
		debt("high", "30", "500", 0),
		debt("mid", "18", "1200", 0),
	))
	assert.Equal(t, []string{"high", "mid", "low", "none"}, ids(plan))
	for i := 1; i < len(plan.Payments); i++ {
		prev := plan.Payments[i-1].APR.Decimal
		cur := plan.Payments[i].APR.Decimal
		assert.True(t, prev.GreaterThanOrEqual(cur), "%s before %s", prev, cur)
	}
	assert.False(t, plan.Payments[3].APR.Valid)
}

func TestGenerate_TiesBreakByAccountID(t *testing.T) {
	plan := Generate(input(Avalanche, "100000", "0",
		debt("c", "10", "100", 0),
		debt("a", "10", "100", 0),
		debt("b", "10", "100", 0),
	))
	assert.Equal(t, []string{"a", "b", "c"}, ids(plan))

	plan = Generate(input(Snowball, "100000", "0",
		debt("z", "1", "100", 0),
		debt("y", "2", "100", 0),
	))
	assert.Equal(t, []string{"y", "z"}, ids(plan))
}

func TestGenerate_UrgentMinimumsPostWithoutCash(t *testing.T) {
	due := debt("due", "20", "1000", 10)
	later := debt("later", "25", "800", 0)

	plan := Generate(input(Avalanche, "0", "0", due, later))
	require.Len(t, plan.Payments, 1)
	assert.Equal(t, "due", plan.Payments[0].AccountID)
	assert.Equal(t, model.PriorityUrgent, plan.Payments[0].Priority)
	assert.True(t, plan.Payments[0].Suggested.Equal(dec("40")))
	assert.True(t, plan.Payments[0].Suggested.Equal(plan.Payments[0].Minimum))
	assert.True(t, plan.RemainingCash.IsZero())
}

func TestGenerate_UrgentMinimumsConsumeCash(t *testing.T) {
	due := debt("due", "", "1000", 5)
	later := debt("later", "25", "800", 0)

	plan := Generate(input(Avalanche, "100", "0", due, later))
	require.Len(t, plan.Payments, 2)
	assert.Equal(t, []string{"due", "later"}, ids(plan))
	assert.True(t, plan.Payments[0].Suggested.Equal(dec("40")))
	assert.True(t, plan.Payments[1].Suggested.Equal(dec("60")))
}

func TestGenerate_ShortfallProtection(t *testing.T) {
	// Two loans due on the 20th need $300 each; the $400 paycheck leaves $200 uncovered.
	p2a := flatLoan("p2a", "10000", "300", 20)
	p2b := flatLoan("p2b", "10000", "300", 20)
	other := debt("other", "15", "1000", 0)

	plan := Generate(input(Avalanche, "250", "400", p2b, other, p2a))

	assert.True(t, plan.Period2Shortfall.Equal(dec("200")))
	require.Len(t, plan.Payments, 2)

	shortfall := plan.Payments[0]
	assert.Equal(t, "p2a", shortfall.AccountID)
	assert.Equal(t, model.PriorityUrgent, shortfall.Priority)
	assert.True(t, shortfall.Shortfall)
	assert.True(t, shortfall.Suggested.Equal(dec("200")))
	assert.True(t, shortfall.Minimum.Equal(dec("300")))

	rest := plan.Payments[1]
	assert.Equal(t, "other", rest.AccountID)
	assert.Equal(t, model.PriorityStrategic, rest.Priority)
	assert.True(t, rest.Suggested.Equal(dec("50")))
}

func TestGenerate_ShortfallPicksByStrategy(t *testing.T) {
	cheap := Debt{Account: model.Account{ID: "cheap", Kind: model.KindLoan, DueDay: 20, Active: true, APR: model.FixedAPR{Rate: dec("3")}, Minimum: model.FlatMinimum{Amount: dec("300")}}, Balance: dec("20000")}
	pricey := Debt{Account: model.Account{ID: "pricey", Kind: model.KindLoan, DueDay: 25, Active: true, APR: model.FixedAPR{Rate: dec("9")}, Minimum: model.FlatMinimum{Amount: dec("300")}}, Balance: dec("25000")}

	plan := Generate(input(Avalanche, "1000", "100", cheap, pricey))
	require.NotEmpty(t, plan.Payments)
	assert.Equal(t, "pricey", plan.Payments[0].AccountID)

	plan = Generate(input(Snowball, "1000", "100", cheap, pricey))
	require.NotEmpty(t, plan.Payments)
	assert.Equal(t, "cheap", plan.Payments[0].AccountID)
}

func TestGenerate_ShortfallCappedByCash(t *testing.T) {
	plan := Generate(input(Avalanche, "75", "0", flatLoan("p2", "10000", "300", 20)))
	require.Len(t, plan.Payments, 1)
	assert.True(t, plan.Payments[0].Suggested.Equal(dec("75")))
	assert.True(t, plan.Period2Shortfall.Equal(dec("300")))
	assert.True(t, plan.RemainingCash.IsZero())
}

func TestGenerate_NoShortfallWhenPaycheckCovers(t *testing.T) {
	plan := Generate(input(Avalanche, "500", "1000", flatLoan("p2", "10000", "300", 20)))
	assert.True(t, plan.Period2Shortfall.IsZero())
	assert.Empty(t, plan.Payments, "period-2 accounts are not tier-2 candidates")
	assert.True(t, plan.RemainingCash.Equal(dec("500")))
}

func TestGenerate_Period1TakesPrecedence(t *testing.T) {
	// Due on the 15th: inside period 1 (ends on the next paycheck) and would also match period 2.
	plan := Generate(input(Avalanche, "0", "0", debt("edge", "", "1000", 15)))
	require.Len(t, plan.Payments, 1)
	assert.Equal(t, model.PriorityUrgent, plan.Payments[0].Priority)
	assert.False(t, plan.Payments[0].Shortfall)
	assert.True(t, plan.Period2Shortfall.IsZero())
}

func TestGenerate_SpendingBound(t *testing.T) {
	debts := []Debt{
		debt("p1a", "22", "1500", 3),
		debt("p1b", "", "90", 12),
		flatLoan("p2a", "9000", "250", 20),
		flatLoan("p2b", "4000", "150", 28),
		debt("t1", "29", "700", 0),
		debt("t2", "9", "4200", 0),
	}
	for _, cash := range []string{"0", "10", "100", "350", "1000", "100000"} {
		for _, s := range []Strategy{Avalanche, Snowball} {
			in := input(s, cash, "120", debts...)
			plan := Generate(in)

			tier1a := decimal.Zero
			for _, p := range plan.Payments {
				assert.True(t, p.Suggested.IsPositive())
				if p.Priority == model.PriorityUrgent && !p.Shortfall {
					tier1a = tier1a.Add(p.Suggested)
				}
				assert.True(t, p.Suggested.LessThanOrEqual(p.Balance) || p.Priority == model.PriorityUrgent)
			}
			bound := dec(cash).Add(tier1a)
			assert.True(t, plan.Total().LessThanOrEqual(bound), "cash %s %s: total %s > %s", cash, s, plan.Total(), bound)
			assert.False(t, plan.RemainingCash.IsNegative())
		}
	}
}

func TestGenerate_LongHorizon(t *testing.T) {
	in := input(Avalanche, "0", "0")
	assert.False(t, Generate(in).LongHorizon)

	in.NextPaycheck = today.AddDate(0, 0, 46)
	in.SecondPaycheck = in.NextPaycheck.AddDate(0, 0, 14)
	assert.True(t, Generate(in).LongHorizon)

	in.NextPaycheck = next
	in.SecondPaycheck = next.AddDate(0, 0, 45)
	assert.False(t, Generate(in).LongHorizon, "exactly 45 days is fine")
	in.SecondPaycheck = next.AddDate(0, 0, 60)
	assert.True(t, Generate(in).LongHorizon)
}

func TestGenerate_LongHorizonAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("no tzdata")
	}
	in := input(Avalanche, "0", "0")
	in.Today = time.Date(2026, 10, 1, 0, 0, 0, 0, ny)
	in.NextPaycheck = in.Today.AddDate(0, 0, 14)
	in.SecondPaycheck = in.NextPaycheck.AddDate(0, 0, 45)
	assert.False(t, Generate(in).LongHorizon, "45 days spanning the fall-back is not long")

	in.SecondPaycheck = in.NextPaycheck.AddDate(0, 0, 46)
	assert.True(t, Generate(in).LongHorizon)
}

func TestAvailableCash(t *testing.T) {
	assert.True(t, AvailableCash(dec("2000"), dec("500")).Equal(dec("1500")))
	assert.True(t, AvailableCash(dec("1000"), dec("1500")).IsZero())
}

func TestDebtsFrom(t *testing.T) {
	accts := []model.Account{
		{ID: "chk", Kind: model.KindChecking, Active: true},
		{ID: "card", Kind: model.KindCreditCard, Active: true},
		{ID: "loan", Kind: model.KindLoan, Active: true},
		{ID: "closed", Kind: model.KindMortgage, Active: false},
		{ID: "nobal", Kind: model.KindMortgage, Active: true},
	}
	balances := map[string]decimal.Decimal{
		"chk": dec("1"), "card": dec("2"), "loan": dec("3"), "closed": dec("4"),
	}
	debts := DebtsFrom(accts, balances)
	require.Len(t, debts, 2)
	assert.Equal(t, "card", debts[0].Account.ID)
	assert.Equal(t, "loan", debts[1].Account.ID)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Avalanche")
	require.NoError(t, err)
	assert.Equal(t, Avalanche, s)

	s, err = ParseStrategy(" snowball ")
	require.NoError(t, err)
	assert.Equal(t, Snowball, s)

	_, err = ParseStrategy("tsunami")
	assert.Error(t, err)
}
