package repository

import (
	"fmt"
	"time"
)

// refDayKey is the calendar-day bucket for the order sequence counter.
// UTC, so the day rolls over at the same instant everywhere.
func refDayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}

// formatOrderRef builds the customer-facing reference PREFIX-YYYYMMDD-NNNN.
// The sequence is zero-padded to four digits and widens past 9999 rather
// than failing the order.
func formatOrderRef(prefix, day string, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq)
}
