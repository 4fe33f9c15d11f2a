package dateutil

import (
	"fmt"
	"time"
)

// BeginningOfDay truncates t to its calendar day boundary in UTC.
func BeginningOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBucket returns the calendar-day bucket used to key daily counters.
func DayBucket(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// UntilEndOfDay returns the duration from t until the next day boundary. It
// is used as the expiry of calendar-window counters so a stale counter never
// outlives its window.
func UntilEndOfDay(t time.Time) time.Duration {
	return BeginningOfDay(t).Add(24 * time.Hour).Sub(t.UTC())
}

// WeekBucket returns the ISO week bucket of t, e.g. "week/35/2026".
func WeekBucket(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("week/%d/%d", week, year)
}
