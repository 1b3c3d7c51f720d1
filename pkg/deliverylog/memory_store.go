package deliverylog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultRecentLimit = 50

// MemoryStore is an in-memory Store implementation for development and
// testing. The optional Lookup enriches Recent entries with notification
// type and title.
type MemoryStore struct {
	logs   map[string]*Log
	lookup Lookup
	mu     sync.RWMutex
}

// NewMemoryStore creates an in-memory delivery log store. lookup may be nil,
// in which case Recent entries carry empty notification fields.
func NewMemoryStore(lookup Lookup) *MemoryStore {
	return &MemoryStore{
		logs:   make(map[string]*Log),
		lookup: lookup,
	}
}

func (s *MemoryStore) Create(ctx context.Context, input CreateInput) (Log, error) {
	if input.NotificationID == "" {
		return Log{}, ErrMissingNotificationID
	}
	if input.UserID == "" {
		return Log{}, ErrMissingUserID
	}

	now := time.Now()
	l := Log{
		ID:             uuid.New().String(),
		NotificationID: input.NotificationID,
		UserID:         input.UserID,
		Status:         StatusPending,
		WasConnected:   input.WasConnected,
		ConnectionID:   input.ConnectionID,
		CreatedAt:      now,
		DispatchedAt:   now,
	}

	s.mu.Lock()
	s.logs[l.ID] = &l
	s.mu.Unlock()

	return l, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status Status, opts UpdateOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[id]
	if !ok {
		return ErrNotFound
	}
	if err := validateUpdate(l.Status, status, opts); err != nil {
		return err
	}
	applyUpdate(l, status, opts, time.Now())
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) Metrics(ctx context.Context, since time.Time) (Metrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m Metrics
	for _, l := range s.logs {
		if l.DispatchedAt.Before(since) {
			continue
		}
		m.Total++
		switch l.Status {
		case StatusDelivered:
			m.Delivered++
		case StatusFailed:
			m.Failed++
		case StatusPolled:
			m.Polled++
		case StatusPending:
			m.Pending++
		}
		if l.LatencyMS != nil {
			lat := *l.LatencyMS
			if m.LatencySamples == 0 || lat < m.MinLatencyMS {
				m.MinLatencyMS = lat
			}
			if lat > m.MaxLatencyMS {
				m.MaxLatencyMS = lat
			}
			m.AvgLatencyMS += float64(lat)
			m.LatencySamples++
		}
	}
	if m.LatencySamples > 0 {
		m.AvgLatencyMS /= float64(m.LatencySamples)
	}
	if m.Total > 0 {
		m.SuccessRate = float64(m.Delivered+m.Polled) / float64(m.Total)
	}
	return m, nil
}

func (s *MemoryStore) Recent(ctx context.Context, opts RecentOptions) ([]Entry, error) {
	s.mu.RLock()
	logs := make([]Log, 0, len(s.logs))
	for _, l := range s.logs {
		if opts.Since != nil && l.DispatchedAt.Before(*opts.Since) {
			continue
		}
		if opts.Status != nil && l.Status != *opts.Status {
			continue
		}
		logs = append(logs, *l)
	}
	s.mu.RUnlock()

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].DispatchedAt.After(logs[j].DispatchedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}

	entries := make([]Entry, len(logs))
	for i, l := range logs {
		entries[i] = Entry{Log: l}
		if s.lookup != nil {
			// Best effort: a missing notification leaves the join fields empty.
			if typ, title, err := s.lookup(ctx, l.UserID, l.NotificationID); err == nil {
				entries[i].NotificationType = typ
				entries[i].NotificationTitle = title
			}
		}
	}
	return entries, nil
}

func (s *MemoryStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, l := range s.logs {
		if l.Status.Success() && l.DispatchedAt.Before(cutoff) {
			delete(s.logs, id)
			removed++
		}
	}
	return removed, nil
}
