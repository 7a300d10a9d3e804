package types

// NotificationType classifies a stored notification.
type NotificationType string

const (
	NotificationTypeChat         NotificationType = "chat"
	NotificationTypeSubscription NotificationType = "subscription"
	NotificationTypeSystem       NotificationType = "system"
)

// NormalizeType maps a sender-supplied type string onto the closed enum.
// Anything unrecognized becomes a system notification.
func NormalizeType(raw string) NotificationType {
	switch NotificationType(raw) {
	case NotificationTypeChat, NotificationTypeSubscription, NotificationTypeSystem:
		return NotificationType(raw)
	default:
		return NotificationTypeSystem
	}
}

// Filter selects a view of a user's notifications.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterUnread       Filter = "unread"
	FilterRead         Filter = "read"
	FilterChat         Filter = "chat"
	FilterSubscription Filter = "subscription"
	FilterSystem       Filter = "system"
)

// ValidFilter reports whether raw names a known filter.
func ValidFilter(raw string) bool {
	switch Filter(raw) {
	case FilterAll, FilterUnread, FilterRead, FilterChat, FilterSubscription, FilterSystem:
		return true
	default:
		return false
	}
}

// NotificationRecord is a single persisted notification entry. Records for
// every user who has signed in on this device share one stored sequence;
// queries and mutations are always scoped by UserID.
type NotificationRecord struct {
	ID      string           `json:"id"`
	UserID  string           `json:"userId"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	// Timestamp is epoch milliseconds, set at save time rather than sender time.
	Timestamp int64             `json:"timestamp"`
	IsRead    bool              `json:"isRead"`
	Data      map[string]string `json:"data,omitempty"`
}

// Matches reports whether the record belongs to the given filter view.
func (n NotificationRecord) Matches(f Filter) bool {
	switch f {
	case FilterAll:
		return true
	case FilterUnread:
		return !n.IsRead
	case FilterRead:
		return n.IsRead
	default:
		return n.Type == NotificationType(f)
	}
}

// PushMessage is the inbound payload shape delivered by the push transport.
// The transport is outside this component's control; both sections are
// optional on the wire.
type PushMessage struct {
	Notification *PushNotification `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// PushNotification carries the displayable part of an inbound push.
type PushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Well-known keys in PushMessage.Data.
const (
	DataKeyType           = "type"
	DataKeyRecipientID    = "recipientId"
	DataKeyNotificationID = "notificationId"
	DataKeyID             = "id"
	DataKeySenderID       = "senderId"
	DataKeySenderName     = "senderName"
	DataKeyConversationID = "conversationId"
)
