// Package display is the outbound side of an accepted push: showing a system
// notification to the user. Display is best-effort; the store keeps working
// when no notifier is available (degraded mode, record-only).
package display

import "go.uber.org/zap"

// Notifier shows a system notification for an accepted inbound push.
type Notifier interface {
	Display(title, body string) error
}

// LogNotifier writes notifications to the application log. It stands in for a
// desktop notifier on headless platforms.
type LogNotifier struct {
	Log *zap.SugaredLogger
}

var _ Notifier = LogNotifier{}

// Display logs the notification at info level.
func (n LogNotifier) Display(title, body string) error {
	n.Log.Infow("Notification", "title", title, "body", body)
	return nil
}
