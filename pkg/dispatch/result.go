package dispatch

import (
	"time"

	"github.com/famlinkhq/notifykit/pkg/email"
	"github.com/famlinkhq/notifykit/pkg/notification"
	"github.com/famlinkhq/notifykit/pkg/template"
)

// Content is the caller-supplied body of a notification.
type Content struct {
	Title   string
	Message string
	Data    map[string]any

	// Rich media, all optional.
	ImageURL             string
	ThumbnailURL         string
	RichMessage          string
	ActionLabel          string
	ActionURL            string
	SecondaryActionLabel string
	SecondaryActionURL   string

	Actionable bool
	ExpiresAt  *time.Time
}

// ContentFromTemplate lifts a rendered template payload into dispatchable
// content. The data map rides along unchanged for client-side use.
func ContentFromTemplate(p template.Payload, data map[string]any) Content {
	return Content{
		Title:                p.Title,
		Message:              p.Message,
		Data:                 data,
		ImageURL:             p.ImageURL,
		ThumbnailURL:         p.ThumbnailURL,
		RichMessage:          p.RichMessage,
		ActionLabel:          p.ActionLabel,
		ActionURL:            p.ActionURL,
		SecondaryActionLabel: p.SecondaryActionLabel,
		SecondaryActionURL:   p.SecondaryActionURL,
		Actionable:           p.ActionLabel != "" && p.ActionURL != "",
	}
}

// Result is the structured outcome of a single-recipient dispatch.
// Success is true unless the initial notification creation itself failed,
// in which case Dispatch returns an error instead of a result. Every
// non-fatal problem lands in Errors; the notification itself exists
// regardless.
type Result struct {
	Notification  notification.Notification `json:"notification"`
	Delivered     bool                      `json:"delivered"`      // real-time publish succeeded
	EmailSent     bool                      `json:"email_sent"`     // companion email went out
	EmailDeferred bool                      `json:"email_deferred"` // companion email scheduled past quiet hours
	DeliveryLogID string                    `json:"delivery_log_id,omitempty"`
	Success       bool                      `json:"success"`
	Errors        []string                  `json:"errors,omitempty"`
}

// Recipient is one target of a bulk dispatch, optionally carrying its own
// resolved email context.
type Recipient struct {
	UserID string
	Email  *email.Context
}

// RecipientResult pairs one recipient with their dispatch outcome. Err is
// non-empty when the dispatch call itself failed outright (including a
// recovered panic) rather than returning a soft-failure result.
type RecipientResult struct {
	UserID  string  `json:"user_id"`
	Success bool    `json:"success"`
	Result  *Result `json:"result,omitempty"`
	Err     string  `json:"error,omitempty"`
}

// BulkResult aggregates a fan-out across many recipients.
type BulkResult struct {
	SuccessCount   int               `json:"success_count"`
	FailureCount   int               `json:"failure_count"`
	DeliveredCount int               `json:"delivered_count"` // real-time publishes that succeeded
	Results        []RecipientResult `json:"results"`
}
