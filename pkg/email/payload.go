package email

import (
	"fmt"

	"github.com/famlinkhq/notifykit/pkg/notification"
)

// Context is the caller-supplied email context bag: who the email goes to
// and any extra naming the payload shapes use. Bulk dispatch resolves one
// Context per recipient; family dispatch merges member and family names into
// a shared context template.
type Context struct {
	To         string `json:"to"`
	ToName     string `json:"to_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
}

// BuilderFunc shapes the email payload for one notification type.
// Builders are pure.
type BuilderFunc func(notif notification.Notification, ectx Context) Payload

// builders maps each notification type to its payload shape. The
// announcement builder doubles as the default entry so an unrecognized type
// degrades to a generic announcement email instead of a missing shape.
var builders = map[notification.Type]BuilderFunc{
	notification.TypeMessage:        buildMessage,
	notification.TypeCareUpdate:     buildCareUpdate,
	notification.TypeEmergencyAlert: buildEmergencyAlert,
	notification.TypeAnnouncement:   buildAnnouncement,
	notification.TypeFamilyActivity: buildFamilyActivity,
}

// BuildPayload selects the type-specific payload shape for the notification,
// falling back to the announcement shape for unrecognized types.
func BuildPayload(notif notification.Notification, ectx Context) Payload {
	builder, ok := builders[notif.Type]
	if !ok {
		builder = buildAnnouncement
	}
	return builder(notif, ectx)
}

func buildMessage(notif notification.Notification, ectx Context) Payload {
	subject := notif.Title
	if ectx.SenderName != "" {
		subject = fmt.Sprintf("New message from %s", ectx.SenderName)
	}
	return Payload{
		To:       ectx.To,
		ToName:   ectx.ToName,
		Subject:  subject,
		Heading:  notif.Title,
		Body:     notif.Message,
		Preview:  notif.Message,
		CTALabel: orDefault(notif.ActionLabel, "Reply"),
		CTAURL:   notif.ActionURL,
		Tag:      string(notif.Type),
	}
}

func buildCareUpdate(notif notification.Notification, ectx Context) Payload {
	body := notif.Message
	if notif.RichMessage != "" {
		body = notif.RichMessage
	}
	return Payload{
		To:       ectx.To,
		ToName:   ectx.ToName,
		Subject:  fmt.Sprintf("Care update: %s", notif.Title),
		Heading:  notif.Title,
		Body:     body,
		Preview:  notif.Message,
		CTALabel: orDefault(notif.ActionLabel, "View Update"),
		CTAURL:   notif.ActionURL,
		Tag:      string(notif.Type),
	}
}

func buildEmergencyAlert(notif notification.Notification, ectx Context) Payload {
	// The title already carries the severity prefix from the template engine.
	return Payload{
		To:       ectx.To,
		ToName:   ectx.ToName,
		Subject:  notif.Title,
		Heading:  notif.Title,
		Body:     notif.Message,
		Preview:  notif.Message,
		CTALabel: orDefault(notif.ActionLabel, "Respond Now"),
		CTAURL:   notif.ActionURL,
		Tag:      string(notif.Type),
	}
}

func buildAnnouncement(notif notification.Notification, ectx Context) Payload {
	return Payload{
		To:       ectx.To,
		ToName:   ectx.ToName,
		Subject:  notif.Title,
		Heading:  notif.Title,
		Body:     notif.Message,
		CTALabel: orDefault(notif.ActionLabel, "View Announcement"),
		CTAURL:   notif.ActionURL,
		Tag:      string(notif.Type),
	}
}

func buildFamilyActivity(notif notification.Notification, ectx Context) Payload {
	subject := notif.Title
	if ectx.FamilyName != "" {
		subject = fmt.Sprintf("%s: %s", ectx.FamilyName, notif.Title)
	}
	return Payload{
		To:       ectx.To,
		ToName:   ectx.ToName,
		Subject:  subject,
		Heading:  notif.Title,
		Body:     notif.Message,
		CTALabel: orDefault(notif.ActionLabel, "View Activity"),
		CTAURL:   notif.ActionURL,
		Tag:      string(notif.Type),
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
