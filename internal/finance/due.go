package finance

import (
	"time"

	"github.com/paydown-dev/paydown/internal/model"
)

// NextDueDate returns the first due date on or after from's calendar day.
// Due days past the end of a short month fall on its last day.
func NextDueDate(acct model.Account, from time.Time) (time.Time, bool) {
	if acct.DueDay <= 0 {
		return time.Time{}, false
	}
	y, m, d := from.Date()
	if d > clampDay(y, m, acct.DueDay) {
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return time.Date(y, m, clampDay(y, m, acct.DueDay), 0, 0, 0, 0, from.Location()), true
}

// IsDueBetween reports whether the next due date from start falls in [start, end].
func IsDueBetween(acct model.Account, start, end time.Time) bool {
	due, ok := NextDueDate(acct, start)
	if !ok {
		return false
	}
	return !due.Before(Day(start)) && !due.After(Day(end))
}

// Day truncates t to midnight of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}
