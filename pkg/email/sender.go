package email

import (
	"context"
	"fmt"
	"regexp"

	"github.com/famlinkhq/notifykit/pkg/notification"
)

// Payload is a fully shaped transactional email for one notification.
type Payload struct {
	To       string `json:"to"`                // recipient email address
	ToName   string `json:"to_name,omitempty"` // recipient display name
	Subject  string `json:"subject"`
	Heading  string `json:"heading"`           // top line of the email body
	Body     string `json:"body"`              // main body text
	Preview  string `json:"preview,omitempty"` // inbox preview line
	CTALabel string `json:"cta_label,omitempty"`
	CTAURL   string `json:"cta_url,omitempty"`
	Tag      string `json:"tag,omitempty"` // provider-side tag for analytics
}

// SendResult reports a successful provider send.
type SendResult struct {
	MessageID string `json:"message_id,omitempty"`
}

// Sender renders and sends the companion email for a notification.
type Sender interface {
	SendNotificationEmail(ctx context.Context, userID string, typ notification.Type, payload Payload) (SendResult, error)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the payload carries a deliverable address and a subject.
func (p Payload) Validate() error {
	if p.To == "" || !emailRegex.MatchString(p.To) {
		return fmt.Errorf("%w: recipient address %q", ErrInvalidRecipient, p.To)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidPayload)
	}
	return nil
}
