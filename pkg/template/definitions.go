package template

// PreviewBudget is the maximum number of runes of a message preview shown in
// the short message field. The rich message variant carries the full text.
const PreviewBudget = 100

// BuilderFunc shapes the variable bag for one notification type and renders
// its template. Builders stay pure: same vars in, same payload out.
type BuilderFunc func(vars Vars) Payload

var messageTemplate = Template{
	Title:       "New message from {{senderName}}",
	Message:     "{{messagePreview}}",
	RichMessage: "**{{senderName}}**: {{fullPreview}}",
	ActionLabel: "Reply",
	ActionURL:   "{{conversationUrl}}",
}

// Message renders the chat-message notification. The preview is truncated to
// PreviewBudget runes for the short message; the rich message keeps the full
// preview text.
func Message(vars Vars) Payload {
	shaped := clone(vars)
	preview := vars.Resolve("messagePreview")
	shaped["messagePreview"] = Truncate(preview, PreviewBudget)
	shaped["fullPreview"] = preview
	return Render(messageTemplate, shaped)
}

var careUpdateTemplate = Template{
	Title:        "Care update for {{careRecipientName}}",
	Message:      "{{updateSummary}}",
	RichMessage:  "{{updateDetails}}",
	ImageURL:     "{{photoUrl}}",
	ThumbnailURL: "{{photoThumbnailUrl}}",
	ActionLabel:  "View Update",
	ActionURL:    "{{updateUrl}}",
}

// CareUpdate renders a care-update notification. The summary is truncated to
// the preview budget; full details go to the rich message.
func CareUpdate(vars Vars) Payload {
	shaped := clone(vars)
	shaped["updateSummary"] = Truncate(vars.Resolve("updateSummary"), PreviewBudget)
	if shaped.Resolve("updateDetails") == "" {
		shaped["updateDetails"] = vars.Resolve("updateSummary")
	}
	return Render(careUpdateTemplate, shaped)
}

var emergencyTemplate = Template{
	Title:                "{{severityLabel}} {{alertTitle}}",
	Message:              "{{alertMessage}}",
	RichMessage:          "{{alertMessage}}\n\n{{instructions}}",
	ActionLabel:          "Respond Now",
	ActionURL:            "{{alertUrl}}",
	SecondaryActionLabel: "Call {{contactName}}",
	SecondaryActionURL:   "tel:{{contactPhone}}",
}

// EmergencyAlert renders an emergency-alert notification with a
// severity-derived title prefix.
func EmergencyAlert(vars Vars) Payload {
	shaped := clone(vars)
	shaped["severityLabel"] = severityLabel(vars.Resolve("severity"))
	return Render(emergencyTemplate, shaped)
}

func severityLabel(severity string) string {
	switch severity {
	case "critical":
		return "CRITICAL:"
	case "high":
		return "URGENT:"
	case "medium":
		return "ALERT:"
	default:
		return "Notice:"
	}
}

var announcementTemplate = Template{
	Title:       "{{announcementTitle}}",
	Message:     "{{announcementBody}}",
	ImageURL:    "{{bannerUrl}}",
	ActionLabel: "{{ctaLabel}}",
	ActionURL:   "{{announcementUrl}}",
}

// Announcement renders a system announcement. The call-to-action label is
// derived from the announcement category.
func Announcement(vars Vars) Payload {
	shaped := clone(vars)
	shaped["ctaLabel"] = announcementCTA(vars.Resolve("category"))
	shaped["announcementBody"] = Truncate(vars.Resolve("announcementBody"), PreviewBudget)
	return Render(announcementTemplate, shaped)
}

func announcementCTA(category string) string {
	switch category {
	case "update":
		return "See What's New"
	case "maintenance":
		return "View Details"
	case "feature":
		return "Try It Now"
	case "news":
		return "Read More"
	default:
		return "View Announcement"
	}
}

var familyActivityTemplate = Template{
	Title:        "{{actorName}} {{activityVerb}}",
	Message:      "{{activitySummary}}",
	ThumbnailURL: "{{actorAvatarUrl}}",
	ActionLabel:  "View Activity",
	ActionURL:    "{{activityUrl}}",
}

// FamilyActivity renders a family-feed activity notification.
func FamilyActivity(vars Vars) Payload {
	shaped := clone(vars)
	shaped["activitySummary"] = Truncate(vars.Resolve("activitySummary"), PreviewBudget)
	return Render(familyActivityTemplate, shaped)
}

// builders maps notification type names to their builder. The announcement
// builder doubles as the fallback for unrecognized types so a newly added
// type degrades to a generic rendering instead of failing.
var builders = map[string]BuilderFunc{
	"message":             Message,
	"care_update":         CareUpdate,
	"emergency_alert":     EmergencyAlert,
	"system_announcement": Announcement,
	"family_activity":     FamilyActivity,
}

// ByType returns the builder registered for the given notification type
// name, falling back to the announcement builder for unknown types.
func ByType(typ string) BuilderFunc {
	if b, ok := builders[typ]; ok {
		return b
	}
	return Announcement
}

func clone(vars Vars) Vars {
	shaped := make(Vars, len(vars)+2)
	for k, v := range vars {
		shaped[k] = v
	}
	return shaped
}
