package channel

import (
	"context"
	"sync"
)

// Subscriber receives events from one user's channel.
type Subscriber interface {
	// Receive returns the channel events are delivered on. The channel is
	// closed when the subscriber is closed.
	Receive() <-chan Event

	// Close closes the subscriber and releases resources. Close is
	// idempotent and safe to call multiple times.
	Close() error
}

type subscriber struct {
	ch     chan Event
	closed bool
	mu     sync.RWMutex
}

func newSubscriber(bufferSize int) *subscriber {
	return &subscriber{ch: make(chan Event, bufferSize)}
}

func (s *subscriber) Receive() <-chan Event {
	return s.ch
}

func (s *subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send is non-blocking: a full buffer drops the event rather than delaying
// the publisher.
func (s *subscriber) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// MemoryPublisher is an in-process Publisher keeping a set of subscribers
// per user. Transport layers (SSE or WebSocket handlers) call Subscribe to
// stream a user's events; presence is derived from open subscriptions.
// All methods are safe for concurrent use.
type MemoryPublisher struct {
	users      map[string]map[*subscriber]struct{}
	bufferSize int
	closed     bool
	done       chan struct{}
	mu         sync.RWMutex
	cleanupWg  sync.WaitGroup
}

// NewMemoryPublisher creates an in-memory publisher. bufferSize sets the
// per-subscriber channel buffer; a minimum of 1 is enforced so sends stay
// non-blocking.
func NewMemoryPublisher(bufferSize int) *MemoryPublisher {
	return &MemoryPublisher{
		users:      make(map[string]map[*subscriber]struct{}),
		bufferSize: max(bufferSize, 1),
		done:       make(chan struct{}),
	}
}

// Subscribe opens a subscription to the user's channel. The subscription is
// cleaned up automatically when ctx is cancelled.
func (p *MemoryPublisher) Subscribe(ctx context.Context, userID string) Subscriber {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := newSubscriber(p.bufferSize)
	if p.closed {
		_ = sub.Close()
		return sub
	}

	subs, ok := p.users[userID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		p.users[userID] = subs
	}
	subs[sub] = struct{}{}

	if ctx.Done() != nil {
		p.cleanupWg.Add(1)
		go func() {
			defer p.cleanupWg.Done()
			select {
			case <-ctx.Done():
				p.unsubscribe(userID, sub)
			case <-p.done:
			}
		}()
	}

	return sub
}

func (p *MemoryPublisher) Publish(ctx context.Context, userID, event string, payload any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	ev := Event{Name: event, Payload: payload}
	for sub := range p.users[userID] {
		if !sub.send(ev) {
			// Drop slow or closed subscribers without blocking the publish.
			go p.unsubscribe(userID, sub)
		}
	}
	return nil
}

func (p *MemoryPublisher) Connected(ctx context.Context, userID string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users[userID]) > 0, nil
}

func (p *MemoryPublisher) ConnectedUsers(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := make([]string, 0, len(p.users))
	for userID, subs := range p.users {
		if len(subs) > 0 {
			users = append(users, userID)
		}
	}
	return users, nil
}

// Close shuts down the publisher and closes all subscribers. Safe to call
// multiple times.
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	for _, subs := range p.users {
		for sub := range subs {
			_ = sub.Close()
		}
	}
	clear(p.users)
	p.mu.Unlock()

	p.cleanupWg.Wait()
	return nil
}

func (p *MemoryPublisher) unsubscribe(userID string, sub *subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs, ok := p.users[userID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(p.users, userID)
		}
	}
	_ = sub.Close()
}
