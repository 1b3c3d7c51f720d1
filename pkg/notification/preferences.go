package notification

import (
	"context"
	"time"
)

// Channel enumerates the delivery channels a user can opt in or out of.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
)

// QuietHours is a daily window during which email delivery is suppressed.
// Quiet hours never apply to in-app delivery, and emergency-alert email is
// exempt from suppression.
type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"`    // "HH:MM" wall clock in Timezone
	End      string `json:"end"`      // "HH:MM", may be earlier than Start (window crosses midnight)
	Timezone string `json:"timezone"` // IANA name, e.g. "America/New_York"
}

// Contains reports whether now falls inside the quiet-hours window,
// evaluated on the wall clock of the configured timezone. Invalid timezone
// or time strings fail open (not in quiet hours) so a misconfigured window
// never silently swallows email.
func (q QuietHours) Contains(now time.Time) bool {
	if !q.Enabled {
		return false
	}

	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return false
	}

	start, okStart := minuteOfDay(q.Start)
	end, okEnd := minuteOfDay(q.End)
	if !okStart || !okEnd || start == end {
		return false
	}

	local := now.In(loc)
	cur := local.Hour()*60 + local.Minute()

	if start < end {
		return cur >= start && cur < end
	}
	// Window crosses midnight, e.g. 22:00-07:00.
	return cur >= start || cur < end
}

// NextEnd returns the next moment the quiet-hours window closes, relative to
// now. The second return value is false when the window cannot be evaluated.
func (q QuietHours) NextEnd(now time.Time) (time.Time, bool) {
	if !q.Contains(now) {
		return time.Time{}, false
	}

	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.Time{}, false
	}
	end, ok := minuteOfDay(q.End)
	if !ok {
		return time.Time{}, false
	}

	local := now.In(loc)
	endToday := time.Date(local.Year(), local.Month(), local.Day(), end/60, end%60, 0, 0, loc)
	if !endToday.After(local) {
		endToday = endToday.AddDate(0, 0, 1)
	}
	return endToday, true
}

func minuteOfDay(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ChannelPreferences is the per-channel opt-in matrix for one user.
type ChannelPreferences struct {
	Enabled bool          `json:"enabled"` // master switch for the channel
	Types   map[Type]bool `json:"types"`   // per-type opt-in; missing type means opted out
}

// Allows reports whether the channel is enabled for the given type.
func (c ChannelPreferences) Allows(typ Type) bool {
	return c.Enabled && c.Types[typ]
}

// Preferences is the per-user notification configuration. It is created
// with defaults on first access and mutated only by user settings actions
// outside this subsystem; the dispatcher treats it as read-only.
type Preferences struct {
	UserID     string             `json:"user_id"`
	InApp      ChannelPreferences `json:"in_app"`
	Email      ChannelPreferences `json:"email"`
	QuietHours QuietHours         `json:"quiet_hours"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Allows reports whether the given channel is enabled for the given type.
func (p Preferences) Allows(typ Type, ch Channel) bool {
	switch ch {
	case ChannelInApp:
		return p.InApp.Allows(typ)
	case ChannelEmail:
		return p.Email.Allows(typ)
	}
	return false
}

// DefaultPreferences returns the opt-out-by-exception defaults: every type
// enabled on every channel, quiet hours disabled.
func DefaultPreferences(userID string) Preferences {
	allTypes := func() map[Type]bool {
		return map[Type]bool{
			TypeMessage:        true,
			TypeCareUpdate:     true,
			TypeAnnouncement:   true,
			TypeFamilyActivity: true,
			TypeEmergencyAlert: true,
		}
	}
	return Preferences{
		UserID:    userID,
		InApp:     ChannelPreferences{Enabled: true, Types: allTypes()},
		Email:     ChannelPreferences{Enabled: true, Types: allTypes()},
		UpdatedAt: time.Now(),
	}
}

// PreferenceStore provides read access to per-user notification preferences.
type PreferenceStore interface {
	// Get returns the user's preferences, creating defaults on first access.
	Get(ctx context.Context, userID string) (Preferences, error)

	// ShouldSend reports whether the user has the channel enabled for the type.
	ShouldSend(ctx context.Context, userID string, typ Type, ch Channel) (bool, error)

	// InQuietHours reports whether now is inside the user's quiet-hours window.
	InQuietHours(ctx context.Context, userID string, now time.Time) (bool, error)
}
