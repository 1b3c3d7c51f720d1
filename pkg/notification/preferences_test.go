package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at builds a UTC instant whose wall clock in the given zone matches the
// supplied hour and minute.
func at(t *testing.T, tz string, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, loc)
}

func TestQuietHoursContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    QuietHours
		now  time.Time
		want bool
	}{
		{
			name: "disabled window never matches",
			q:    QuietHours{Enabled: false, Start: "22:00", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 23, 0),
			want: false,
		},
		{
			name: "inside same-day window",
			q:    QuietHours{Enabled: true, Start: "13:00", End: "15:00", Timezone: "UTC"},
			now:  at(t, "UTC", 14, 0),
			want: true,
		},
		{
			name: "outside same-day window",
			q:    QuietHours{Enabled: true, Start: "13:00", End: "15:00", Timezone: "UTC"},
			now:  at(t, "UTC", 16, 0),
			want: false,
		},
		{
			name: "midnight wrap before midnight",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 23, 0),
			want: true,
		},
		{
			name: "midnight wrap after midnight",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 6, 30),
			want: true,
		},
		{
			name: "midnight wrap daytime excluded",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 12, 0),
			want: false,
		},
		{
			name: "end boundary is exclusive",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 7, 0),
			want: false,
		},
		{
			name: "start boundary is inclusive",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 22, 0),
			want: true,
		},
		{
			name: "evaluated on the configured zone wall clock",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "America/New_York"},
			now:  at(t, "America/New_York", 23, 0).UTC(),
			want: true,
		},
		{
			name: "invalid timezone fails open",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "Mars/Olympus"},
			now:  at(t, "UTC", 23, 0),
			want: false,
		},
		{
			name: "invalid start time fails open",
			q:    QuietHours{Enabled: true, Start: "25:99", End: "07:00", Timezone: "UTC"},
			now:  at(t, "UTC", 23, 0),
			want: false,
		},
		{
			name: "zero-length window fails open",
			q:    QuietHours{Enabled: true, Start: "22:00", End: "22:00", Timezone: "UTC"},
			now:  at(t, "UTC", 22, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.q.Contains(tt.now))
		})
	}
}

func TestQuietHoursNextEnd(t *testing.T) {
	t.Parallel()

	q := QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"}

	t.Run("before midnight resolves to tomorrow morning", func(t *testing.T) {
		t.Parallel()
		now := at(t, "UTC", 23, 0)
		end, ok := q.NextEnd(now)
		require.True(t, ok)
		assert.Equal(t, at(t, "UTC", 7, 0).AddDate(0, 0, 1), end)
	})

	t.Run("after midnight resolves to this morning", func(t *testing.T) {
		t.Parallel()
		now := at(t, "UTC", 6, 0)
		end, ok := q.NextEnd(now)
		require.True(t, ok)
		assert.Equal(t, at(t, "UTC", 7, 0), end)
	})

	t.Run("outside the window reports not ok", func(t *testing.T) {
		t.Parallel()
		_, ok := q.NextEnd(at(t, "UTC", 12, 0))
		assert.False(t, ok)
	})
}

func TestPreferencesAllows(t *testing.T) {
	t.Parallel()

	p := DefaultPreferences("u1")
	assert.True(t, p.Allows(TypeMessage, ChannelInApp))
	assert.True(t, p.Allows(TypeEmergencyAlert, ChannelEmail))
	assert.False(t, p.Allows(TypeMessage, Channel("sms")))

	// Disable one type on one channel only.
	p.Email.Types[TypeCareUpdate] = false
	assert.False(t, p.Allows(TypeCareUpdate, ChannelEmail))
	assert.True(t, p.Allows(TypeCareUpdate, ChannelInApp))

	// Master switch overrides the per-type matrix.
	p.Email.Enabled = false
	assert.False(t, p.Allows(TypeMessage, ChannelEmail))
}

func TestMemoryPreferenceStoreDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryPreferenceStore()

	p, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.InApp.Enabled)
	assert.True(t, p.Email.Enabled)
	assert.False(t, p.QuietHours.Enabled)

	ok, err := store.ShouldSend(ctx, "u1", TypeMessage, ChannelEmail)
	require.NoError(t, err)
	assert.True(t, ok)

	inQuiet, err := store.InQuietHours(ctx, "u1", time.Now())
	require.NoError(t, err)
	assert.False(t, inQuiet)
}

func TestMemoryPreferenceStorePut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryPreferenceStore()
	p := DefaultPreferences("u1")
	p.Email.Enabled = false
	p.QuietHours = QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "UTC"}
	store.Put(p)

	ok, err := store.ShouldSend(ctx, "u1", TypeMessage, ChannelEmail)
	require.NoError(t, err)
	assert.False(t, ok)

	inQuiet, err := store.InQuietHours(ctx, "u1", at(t, "UTC", 23, 0))
	require.NoError(t, err)
	assert.True(t, inQuiet)
}
