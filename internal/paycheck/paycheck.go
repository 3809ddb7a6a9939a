// Package paycheck turns a cron-style pay schedule into upcoming paydays.
package paycheck

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule is a parsed pay schedule.
type Schedule struct {
	spec  string
	sched cron.Schedule
}

// Parse accepts a standard five-field cron expression or a descriptor such as "@monthly".
func Parse(spec string) (*Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing paycheck schedule %q: %w", spec, err)
	}
	return &Schedule{spec: spec, sched: sched}, nil
}

// String returns the original expression.
func (s *Schedule) String() string { return s.spec }

// Next returns the next two paydays strictly after today's calendar day,
// truncated to midnight in today's location.
func (s *Schedule) Next(today time.Time) (next, second time.Time) {
	next = s.after(today)
	second = s.after(next)
	return next, second
}

func (s *Schedule) after(day time.Time) time.Time {
	y, m, d := day.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, 0, day.Location())
	t := s.sched.Next(endOfDay)
	ty, tm, td := t.Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, day.Location())
}
