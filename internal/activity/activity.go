package activity

import (
	"time"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// Entry is a single recorded mutation outcome.
type Entry struct {
	ID             string                  `json:"id"`
	Timestamp      time.Time               `json:"timestamp"`
	Action         notifications.Action    `json:"action"`
	NotificationID string                  `json:"notificationId,omitempty"`
	Affected       int                     `json:"affected"`
	Success        bool                    `json:"success"`
	Message        string                  `json:"message"`
	Kind           notifications.ErrorKind `json:"kind,omitempty"`
}

// entryFromEvent converts a store event into an entry without an ID.
func entryFromEvent(ev notifications.ActionEvent) Entry {
	return Entry{
		Timestamp:      ev.At,
		Action:         ev.Action,
		NotificationID: ev.NotificationID,
		Affected:       ev.Result.Affected,
		Success:        ev.Result.Success,
		Message:        ev.Result.Message,
		Kind:           ev.Result.Kind,
	}
}
