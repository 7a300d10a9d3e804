package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want NotificationType
	}{
		{name: "chat passes through", raw: "chat", want: NotificationTypeChat},
		{name: "subscription passes through", raw: "subscription", want: NotificationTypeSubscription},
		{name: "system passes through", raw: "system", want: NotificationTypeSystem},
		{name: "unknown defaults to system", raw: "marketing", want: NotificationTypeSystem},
		{name: "empty defaults to system", raw: "", want: NotificationTypeSystem},
		{name: "case sensitive", raw: "Chat", want: NotificationTypeSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeType(tt.raw))
		})
	}
}

func TestValidFilter(t *testing.T) {
	for _, raw := range []string{"all", "unread", "read", "chat", "subscription", "system"} {
		assert.True(t, ValidFilter(raw), raw)
	}
	assert.False(t, ValidFilter("starred"))
	assert.False(t, ValidFilter(""))
}

func TestRecordMatches(t *testing.T) {
	unreadChat := NotificationRecord{Type: NotificationTypeChat, IsRead: false}
	readSystem := NotificationRecord{Type: NotificationTypeSystem, IsRead: true}

	assert.True(t, unreadChat.Matches(FilterAll))
	assert.True(t, unreadChat.Matches(FilterUnread))
	assert.False(t, unreadChat.Matches(FilterRead))
	assert.True(t, unreadChat.Matches(FilterChat))
	assert.False(t, unreadChat.Matches(FilterSystem))

	assert.True(t, readSystem.Matches(FilterRead))
	assert.False(t, readSystem.Matches(FilterUnread))
	assert.True(t, readSystem.Matches(FilterSystem))
}
