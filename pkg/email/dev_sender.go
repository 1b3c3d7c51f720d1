package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/famlinkhq/notifykit/pkg/notification"
)

// DevSender implements Sender for local development. It saves each email as
// an HTML file plus a JSON metadata file instead of sending it through an
// email provider.
type DevSender struct {
	dir string
}

// NewDevSender creates a development email sender that saves emails to disk.
// The directory is created on first send if it doesn't exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devMetadata struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (d *DevSender) SendNotificationEmail(ctx context.Context, userID string, typ notification.Type, payload Payload) (SendResult, error) {
	if err := payload.Validate(); err != nil {
		return SendResult{}, err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return SendResult{}, fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSend, err)
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(payload.Subject))

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(renderHTML(payload)), 0644); err != nil {
		return SendResult{}, fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSend, err)
	}

	meta, err := json.MarshalIndent(devMetadata{
		Timestamp: now.Format(time.RFC3339),
		UserID:    userID,
		Type:      string(typ),
		To:        payload.To,
		Subject:   payload.Subject,
		Tag:       payload.Tag,
	}, "", "  ")
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSend, err)
	}

	jsonPath := filepath.Join(d.dir, base+".json")
	if err := os.WriteFile(jsonPath, meta, 0644); err != nil {
		return SendResult{}, fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSend, err)
	}

	return SendResult{MessageID: base}, nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
