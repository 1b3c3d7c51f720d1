package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlinkhq/notifykit/pkg/template"
)

func TestMessageBuilder(t *testing.T) {
	t.Parallel()

	t.Run("short preview untouched", func(t *testing.T) {
		t.Parallel()
		got := template.Message(template.Vars{
			"senderName":      "Sarah",
			"messagePreview":  "Dinner at 7?",
			"conversationUrl": "/conversations/42",
		})
		assert.Equal(t, "New message from Sarah", got.Title)
		assert.Equal(t, "Dinner at 7?", got.Message)
		assert.Equal(t, "**Sarah**: Dinner at 7?", got.RichMessage)
		assert.Equal(t, "Reply", got.ActionLabel)
		assert.Equal(t, "/conversations/42", got.ActionURL)
	})

	t.Run("long preview truncated in message only", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", 500)
		got := template.Message(template.Vars{
			"senderName":     "Sarah",
			"messagePreview": long,
		})
		require.True(t, strings.HasSuffix(got.Message, "..."))
		assert.Len(t, []rune(got.Message), template.PreviewBudget+3)
		// Rich message carries the untruncated text.
		assert.Equal(t, "**Sarah**: "+long, got.RichMessage)
	})
}

func TestCareUpdateBuilder(t *testing.T) {
	t.Parallel()

	t.Run("full variable set", func(t *testing.T) {
		t.Parallel()
		got := template.CareUpdate(template.Vars{
			"careRecipientName": "Grandma Rose",
			"updateSummary":     "Took morning medication",
			"updateDetails":     "Took morning medication at 8:15 with breakfast.",
			"photoUrl":          "https://cdn.example.com/p.jpg",
			"photoThumbnailUrl": "https://cdn.example.com/p_t.jpg",
			"updateUrl":         "/updates/9",
		})
		assert.Equal(t, "Care update for Grandma Rose", got.Title)
		assert.Equal(t, "Took morning medication", got.Message)
		assert.Equal(t, "Took morning medication at 8:15 with breakfast.", got.RichMessage)
		assert.Equal(t, "https://cdn.example.com/p.jpg", got.ImageURL)
		assert.Equal(t, "https://cdn.example.com/p_t.jpg", got.ThumbnailURL)
		assert.Equal(t, "View Update", got.ActionLabel)
	})

	t.Run("details default to summary", func(t *testing.T) {
		t.Parallel()
		got := template.CareUpdate(template.Vars{
			"careRecipientName": "Grandma Rose",
			"updateSummary":     "Doctor visit went well",
		})
		assert.Equal(t, "Doctor visit went well", got.RichMessage)
	})
}

func TestEmergencyAlertSeverityPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity string
		want     string
	}{
		{"critical", "CRITICAL: Fall detected"},
		{"high", "URGENT: Fall detected"},
		{"medium", "ALERT: Fall detected"},
		{"low", "Notice: Fall detected"},
		{"", "Notice: Fall detected"},
		{"bogus", "Notice: Fall detected"},
	}

	for _, tt := range tests {
		t.Run("severity "+tt.severity, func(t *testing.T) {
			t.Parallel()
			got := template.EmergencyAlert(template.Vars{
				"severity":   tt.severity,
				"alertTitle": "Fall detected",
			})
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestEmergencyAlertActions(t *testing.T) {
	t.Parallel()

	got := template.EmergencyAlert(template.Vars{
		"severity":     "critical",
		"alertTitle":   "Fall detected",
		"alertMessage": "Motion sensor triggered in the bathroom.",
		"instructions": "Call to confirm she is okay.",
		"alertUrl":     "/alerts/3",
		"contactName":  "Grandma Rose",
		"contactPhone": "+15551234567",
	})
	assert.Equal(t, "Respond Now", got.ActionLabel)
	assert.Equal(t, "/alerts/3", got.ActionURL)
	assert.Equal(t, "Call Grandma Rose", got.SecondaryActionLabel)
	assert.Equal(t, "tel:+15551234567", got.SecondaryActionURL)
	assert.Equal(t, "Motion sensor triggered in the bathroom.\n\nCall to confirm she is okay.", got.RichMessage)
}

func TestAnnouncementCTA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category string
		want     string
	}{
		{"update", "See What's New"},
		{"maintenance", "View Details"},
		{"feature", "Try It Now"},
		{"news", "Read More"},
		{"", "View Announcement"},
		{"something_else", "View Announcement"},
	}

	for _, tt := range tests {
		t.Run("category "+tt.category, func(t *testing.T) {
			t.Parallel()
			got := template.Announcement(template.Vars{
				"announcementTitle": "Scheduled maintenance",
				"announcementBody":  "We will be offline briefly.",
				"category":          tt.category,
			})
			assert.Equal(t, tt.want, got.ActionLabel)
			assert.Equal(t, "Scheduled maintenance", got.Title)
		})
	}
}

func TestFamilyActivityBuilder(t *testing.T) {
	t.Parallel()

	got := template.FamilyActivity(template.Vars{
		"actorName":       "Tom",
		"activityVerb":    "added 3 photos",
		"activitySummary": "New photos from the weekend trip",
		"actorAvatarUrl":  "https://cdn.example.com/tom.jpg",
		"activityUrl":     "/activity/17",
	})
	assert.Equal(t, "Tom added 3 photos", got.Title)
	assert.Equal(t, "New photos from the weekend trip", got.Message)
	assert.Equal(t, "https://cdn.example.com/tom.jpg", got.ThumbnailURL)
	assert.Equal(t, "View Activity", got.ActionLabel)
}

func TestByType(t *testing.T) {
	t.Parallel()

	vars := template.Vars{
		"announcementTitle": "Hello",
		"announcementBody":  "World",
	}

	t.Run("registered types resolve", func(t *testing.T) {
		t.Parallel()
		for _, typ := range []string{"message", "care_update", "emergency_alert", "system_announcement", "family_activity"} {
			require.NotNil(t, template.ByType(typ), typ)
		}
	})

	t.Run("unknown type falls back to announcement", func(t *testing.T) {
		t.Parallel()
		got := template.ByType("future_type")(vars)
		assert.Equal(t, "Hello", got.Title)
		assert.Equal(t, "View Announcement", got.ActionLabel)
	})
}
