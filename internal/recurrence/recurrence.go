// Package recurrence computes the next occurrence of recurring tasks.
package recurrence

import (
	"fmt"
	"time"
)

// Pattern is how often a task repeats.
type Pattern string

const (
	Daily   Pattern = "daily"
	Weekly  Pattern = "weekly"
	Monthly Pattern = "monthly"
)

// Config describes a recurring task's schedule.
type Config struct {
	Pattern         Pattern
	CurrentDeadline time.Time
	EndDate         *time.Time
	DayOfWeek       *int // 0 = Sunday .. 6 = Saturday
	DayOfMonth      *int // 1..31, clamped to the month's last day
}

// Next returns the deadline of the next occurrence, or nil when the
// recurrence has ended. Now is the evaluation time; occurrences are always
// pushed past the evaluation day so a task completed late still makes
// forward progress.
func Next(cfg Config, now time.Time) *time.Time {
	today := startOfDay(now)

	var next time.Time
	switch cfg.Pattern {
	case Daily:
		next = nextDaily(cfg.CurrentDeadline, today)
	case Weekly:
		next = nextWeekly(cfg.CurrentDeadline, today, cfg.DayOfWeek)
	case Monthly:
		next = nextMonthly(cfg.CurrentDeadline, today, cfg.DayOfMonth)
	default:
		return nil
	}

	if cfg.EndDate != nil && next.After(*cfg.EndDate) {
		return nil
	}
	return &next
}

func nextDaily(current, today time.Time) time.Time {
	next := current.AddDate(0, 0, 1)
	if onOrBeforeDay(next, today) {
		return today.AddDate(0, 0, 1)
	}
	return next
}

func nextWeekly(current, today time.Time, dayOfWeek *int) time.Time {
	target := int(current.Weekday())
	if dayOfWeek != nil {
		target = *dayOfWeek
	}

	next := current.AddDate(0, 0, 7)
	if dayOfWeek != nil {
		next = next.AddDate(0, 0, target-int(next.Weekday()))
	}

	if onOrBeforeDay(next, today) {
		// Next strictly-future occurrence of the target weekday; a zero
		// offset means a full week out, never today itself.
		days := (target - int(today.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days)
	}
	return next
}

func nextMonthly(current, today time.Time, dayOfMonth *int) time.Time {
	target := current.Day()
	if dayOfMonth != nil {
		target = *dayOfMonth
	}

	next := monthWithClampedDay(current, 1, target)
	if onOrBeforeDay(next, today) {
		// Late evaluation: try the current month's target day first.
		upcoming := monthWithClampedDay(today, 0, target)
		if onOrBeforeDay(upcoming, today) {
			upcoming = monthWithClampedDay(today, 1, target)
		}
		return upcoming
	}
	return next
}

// monthWithClampedDay shifts t by the given number of months and places it
// on the target day-of-month, clamped to the month's last valid day.
func monthWithClampedDay(t time.Time, months, targetDay int) time.Time {
	year, month, _ := t.Date()
	hour, minute, sec := t.Clock()
	first := time.Date(year, month, 1, hour, minute, sec, t.Nanosecond(), t.Location()).AddDate(0, months, 0)

	day := targetDay
	if last := daysInMonth(first.Month(), first.Year()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return lastOfMonth.Day()
}

// onOrBeforeDay compares at calendar-day granularity: a candidate
// landing anywhere on today's date still counts as not-in-the-future.
func onOrBeforeDay(t, today time.Time) bool {
	return !startOfDay(t).After(today)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Describe renders a human-readable description of the schedule.
func Describe(cfg Config) string {
	dayNames := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

	var desc string
	switch cfg.Pattern {
	case Daily:
		desc = "Repeats daily"
	case Weekly:
		if cfg.DayOfWeek != nil && *cfg.DayOfWeek >= 0 && *cfg.DayOfWeek <= 6 {
			desc = fmt.Sprintf("Repeats weekly on %s", dayNames[*cfg.DayOfWeek])
		} else {
			desc = "Repeats weekly"
		}
	case Monthly:
		if cfg.DayOfMonth != nil {
			desc = fmt.Sprintf("Repeats monthly on day %d", *cfg.DayOfMonth)
		} else {
			desc = "Repeats monthly"
		}
	default:
		return ""
	}

	if cfg.EndDate != nil {
		desc += fmt.Sprintf(" until %s", cfg.EndDate.Format("Jan 2, 2006"))
	}
	return desc
}
