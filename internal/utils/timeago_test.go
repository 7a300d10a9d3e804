package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestampBuckets(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{name: "under a minute", elapsed: 30 * time.Second, want: "Just now"},
		{name: "59 seconds", elapsed: 59 * time.Second, want: "Just now"},
		{name: "90 seconds", elapsed: 90 * time.Second, want: "1 minute ago"},
		{name: "five minutes", elapsed: 5 * time.Minute, want: "5 minutes ago"},
		{name: "one hour", elapsed: 61 * time.Minute, want: "1 hour ago"},
		{name: "two hours", elapsed: 2 * time.Hour, want: "2 hours ago"},
		{name: "one day", elapsed: 25 * time.Hour, want: "1 day ago"},
		{name: "six days", elapsed: 6 * 24 * time.Hour, want: "6 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := now.Add(-tt.elapsed).UnixMilli()
			assert.Equal(t, tt.want, formatTimestampAt(ms, now))
		})
	}
}

func TestFormatTimestampAbsoluteBeyondWeek(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	ms := now.Add(-10 * 24 * time.Hour).UnixMilli()

	got := formatTimestampAt(ms, now)
	assert.Equal(t, "Mar 5, 2025", got)
	assert.False(t, strings.HasSuffix(got, "ago"))
}

func TestGenerateNotificationIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateNotificationID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
