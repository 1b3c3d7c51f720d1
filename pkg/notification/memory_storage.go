package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	notifications map[string][]Notification // userID -> notifications
	mu            sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		notifications: make(map[string][]Notification),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, notif Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notif.ID == "" {
		return ErrMissingID
	}
	if notif.UserID == "" {
		return ErrMissingUserID
	}

	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	s.notifications[notif.UserID] = append(s.notifications[notif.UserID], notif)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications[userID] {
		if n.ID == notifID {
			// Return a copy to prevent external mutation of stored data
			notif := n
			return &notif, nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Notification
	for _, n := range s.notifications[userID] {
		if n.IsExpired() {
			continue
		}
		if opts.OnlyUnread && n.Read {
			continue
		}
		if len(opts.Types) > 0 && !containsType(opts.Types, n.Type) {
			continue
		}
		if opts.Since != nil && n.CreatedAt.Before(*opts.Since) {
			continue
		}
		filtered = append(filtered, n)
	}

	// Newest first
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Notification{}, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]bool, len(notifIDs))
	for _, id := range notifIDs {
		idSet[id] = true
	}

	notifs := s.notifications[userID]
	for i := range notifs {
		if idSet[notifs[i].ID] {
			notifs[i].MarkAsRead()
		}
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	notifs := s.notifications[userID]
	for i := range notifs {
		if !notifs[i].Read {
			notifs[i].MarkAsRead()
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[string]bool, len(notifIDs))
	for _, id := range notifIDs {
		idSet[id] = true
	}

	var kept []Notification
	for _, n := range s.notifications[userID] {
		if !idSet[n.ID] {
			kept = append(kept, n)
		}
	}
	s.notifications[userID] = kept
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read && !n.IsExpired() {
			count++
		}
	}
	return count, nil
}

func containsType(types []Type, t Type) bool {
	for _, typ := range types {
		if typ == t {
			return true
		}
	}
	return false
}

// MemoryPreferenceStore is an in-memory PreferenceStore that creates
// default preferences on first access. Suitable for development and testing;
// tests can seed it with Put.
type MemoryPreferenceStore struct {
	prefs map[string]Preferences
	mu    sync.RWMutex
}

// NewMemoryPreferenceStore creates an empty in-memory preference store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]Preferences)}
}

// Put stores the given preferences, replacing any existing entry.
func (s *MemoryPreferenceStore) Put(prefs Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefs.UserID] = prefs
}

func (s *MemoryPreferenceStore) Get(ctx context.Context, userID string) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prefs[userID]
	if !ok {
		p = DefaultPreferences(userID)
		s.prefs[userID] = p
	}
	return p, nil
}

func (s *MemoryPreferenceStore) ShouldSend(ctx context.Context, userID string, typ Type, ch Channel) (bool, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.Allows(typ, ch), nil
}

func (s *MemoryPreferenceStore) InQuietHours(ctx context.Context, userID string, now time.Time) (bool, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.QuietHours.Contains(now), nil
}
