package notification

import (
	"time"
)

// Type enumerates the notification kinds the subsystem can dispatch.
// The type of a notification is immutable after creation.
type Type string

const (
	TypeMessage        Type = "message"
	TypeCareUpdate     Type = "care_update"
	TypeAnnouncement   Type = "system_announcement"
	TypeFamilyActivity Type = "family_activity"
	TypeEmergencyAlert Type = "emergency_alert"
)

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	switch t {
	case TypeMessage, TypeCareUpdate, TypeAnnouncement, TypeFamilyActivity, TypeEmergencyAlert:
		return true
	}
	return false
}

// Notification is a durable record of one event surfaced to one user.
// Bulk and family fan-out create one record per recipient; there is no
// multi-recipient record.
type Notification struct {
	ID      string         `json:"id"`
	UserID  string         `json:"user_id"`
	Type    Type           `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"` // opaque payload forwarded to clients

	// Rich content, all optional.
	ImageURL             string `json:"image_url,omitempty"`
	ThumbnailURL         string `json:"thumbnail_url,omitempty"`
	RichMessage          string `json:"rich_message,omitempty"`
	ActionLabel          string `json:"action_label,omitempty"`
	ActionURL            string `json:"action_url,omitempty"`
	SecondaryActionLabel string `json:"secondary_action_label,omitempty"`
	SecondaryActionURL   string `json:"secondary_action_url,omitempty"`

	Actionable bool       `json:"actionable"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*n.ExpiresAt)
}

// MarkAsRead marks the notification as read. Marking an already-read
// notification is a no-op: the read flag only ever transitions false to
// true and the original ReadAt timestamp is preserved.
func (n *Notification) MarkAsRead() {
	if n.Read {
		return
	}
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}
