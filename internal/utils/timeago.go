package utils

import (
	"fmt"
	"time"
)

// FormatTimestamp renders an epoch-millisecond timestamp for the notification
// panel: relative buckets below a week, an absolute short date beyond it.
func FormatTimestamp(ms int64) string {
	return formatTimestampAt(ms, time.Now())
}

func formatTimestampAt(ms int64, now time.Time) string {
	ts := time.UnixMilli(ms)
	elapsed := now.Sub(ts)

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return pluralize(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return pluralize(int(elapsed.Hours()), "hour")
	case elapsed < 7*24*time.Hour:
		return pluralize(int(elapsed.Hours()/24), "day")
	default:
		return ts.Format("Jan 2, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
