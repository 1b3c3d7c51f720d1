package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/famlinkhq/notifykit/pkg/email"
	"github.com/famlinkhq/notifykit/pkg/notification"
)

// stubPublisher records published events and lets tests inject failures.
type stubEvent struct {
	UserID  string
	Name    string
	Payload any
}

type stubPublisher struct {
	mu           sync.Mutex
	events       []stubEvent
	publishErr   error
	connected    bool
	connectedErr error
}

func (p *stubPublisher) Publish(ctx context.Context, userID, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, stubEvent{UserID: userID, Name: event, Payload: payload})
	return nil
}

func (p *stubPublisher) Connected(ctx context.Context, userID string) (bool, error) {
	return p.connected, p.connectedErr
}

func (p *stubPublisher) ConnectedUsers(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) eventsFor(userID, name string) []stubEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []stubEvent
	for _, ev := range p.events {
		if ev.UserID == userID && ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// fakeSender records companion emails and lets tests inject failures.
type sentEmail struct {
	UserID  string
	Type    notification.Type
	Payload email.Payload
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (s *fakeSender) SendNotificationEmail(ctx context.Context, userID string, typ notification.Type, payload email.Payload) (email.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return email.SendResult{}, s.err
	}
	s.sent = append(s.sent, sentEmail{UserID: userID, Type: typ, Payload: payload})
	return email.SendResult{MessageID: "msg-1"}, nil
}

func (s *fakeSender) sentTo() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, e := range s.sent {
		out[i] = e.Payload.To
	}
	return out
}

// flakyStorage wraps a working storage and injects per-user failures,
// panics, or latency in Create.
type flakyStorage struct {
	notification.Storage
	failUsers   map[string]error
	panicUsers  map[string]bool
	createDelay time.Duration
}

func (s *flakyStorage) Create(ctx context.Context, notif notification.Notification) error {
	if s.panicUsers[notif.UserID] {
		panic("storage exploded for " + notif.UserID)
	}
	if err, ok := s.failUsers[notif.UserID]; ok {
		return err
	}
	if s.createDelay > 0 {
		time.Sleep(s.createDelay)
	}
	return s.Storage.Create(ctx, notif)
}

// quietPrefs builds a preference store whose user has quiet hours from
// 22:00 to 07:00 UTC.
func quietPrefs(userID string) *notification.MemoryPreferenceStore {
	prefs := notification.NewMemoryPreferenceStore()
	p := notification.DefaultPreferences(userID)
	p.QuietHours = notification.QuietHours{
		Enabled:  true,
		Start:    "22:00",
		End:      "07:00",
		Timezone: "UTC",
	}
	prefs.Put(p)
	return prefs
}

// insideQuietHours is 23:00 UTC, inside the quietPrefs window.
var insideQuietHours = time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
