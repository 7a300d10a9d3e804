package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateNotificationID creates a locally unique id for records whose inbound
// payload carried no stable identifier. Epoch millis plus a random suffix
// keeps ids sortable while preventing collisions across rapid arrivals.
func GenerateNotificationID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
