package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/famlinkhq/notifykit/pkg/notification"
)

type postmarkSender struct {
	client *postmark.Client
	config Config
}

// NewPostmarkSender creates a Postmark-backed email sender.
// Both tokens are required for runtime operation - this enforces explicit
// configuration rather than silent failures in production.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail == "" || !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}

	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNewPostmarkSender creates a Postmark sender that panics on invalid
// config, failing fast during initialization rather than at first send.
func MustNewPostmarkSender(cfg Config) Sender {
	sender, err := NewPostmarkSender(cfg)
	if err != nil {
		panic(err)
	}
	return sender
}

// SendNotificationEmail sends the payload through Postmark's transactional
// API. Tracking is enabled for opens and HTML link clicks only. Reply-To is
// set to the support address so responses reach a monitored inbox.
func (s *postmarkSender) SendNotificationEmail(ctx context.Context, userID string, typ notification.Type, payload Payload) (SendResult, error) {
	if err := payload.Validate(); err != nil {
		return SendResult{}, err
	}

	tag := payload.Tag
	if tag == "" {
		tag = string(typ)
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.config.SenderEmail,
		ReplyTo:    s.config.SupportEmail,
		To:         payload.To,
		Subject:    payload.Subject,
		Tag:        tag,
		HTMLBody:   renderHTML(payload),
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return SendResult{}, errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return SendResult{}, errors.Join(
			ErrFailedToSend,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return SendResult{MessageID: resp.MessageID}, nil
}

// renderHTML wraps the payload in a minimal HTML shell. Full template
// pipelines belong to the email provider; this keeps the subsystem's output
// readable in any client without external assets.
func renderHTML(payload Payload) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family:sans-serif;max-width:600px;margin:0 auto">`)
	if payload.ToName != "" {
		fmt.Fprintf(&b, `<p>Hi %s,</p>`, html.EscapeString(payload.ToName))
	}
	fmt.Fprintf(&b, `<h2>%s</h2>`, html.EscapeString(payload.Heading))
	fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(payload.Body))
	if payload.CTALabel != "" && payload.CTAURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`,
			html.EscapeString(payload.CTAURL), html.EscapeString(payload.CTALabel))
	}
	b.WriteString(`</body></html>`)
	return b.String()
}
