package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlinkhq/notifykit/pkg/deliverylog"
	"github.com/famlinkhq/notifykit/pkg/email"
	"github.com/famlinkhq/notifykit/pkg/notification"
)

type stubFamilyLookup struct {
	family *Family
	err    error
}

func (s *stubFamilyLookup) GetFamilyByID(ctx context.Context, familyID string) (*Family, error) {
	return s.family, s.err
}

func parkers() *Family {
	return &Family{
		ID:   "f1",
		Name: "The Parkers",
		Members: []FamilyMember{
			{UserID: "tom", Name: "Tom", Email: "tom@example.com"},
			{UserID: "sarah", Name: "Sarah", Email: "sarah@example.com"},
			{UserID: "junior", Name: "Junior"}, // no email
		},
	}
}

func familyContent() Content {
	return Content{Title: "Tom added 3 photos", Message: "New photos from the weekend trip"}
}

func TestDispatchToFamily(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sender := &fakeSender{}
	storage := notification.NewMemoryStorage()
	d := New(storage, notification.NewMemoryPreferenceStore(), deliverylog.NewMemoryStore(nil), &stubPublisher{},
		WithEmailSender(sender),
		WithFamilyLookup(&stubFamilyLookup{family: parkers()}),
	)

	bulk, err := d.DispatchToFamily(ctx, "f1", notification.TypeFamilyActivity, familyContent(),
		&email.Context{SenderName: "Tom"},
		FamilyOptions{ExcludeUserIDs: []string{"tom"}})
	require.NoError(t, err)

	// The actor is excluded; the other two members each get a record.
	assert.Equal(t, 2, bulk.SuccessCount)
	assert.Zero(t, bulk.FailureCount)
	require.Len(t, bulk.Results, 2)

	for _, rr := range bulk.Results {
		assert.NotEqual(t, "tom", rr.UserID)
	}
	_, err = storage.Get(ctx, "sarah", bulk.Results[0].Result.Notification.ID)
	require.NoError(t, err)

	// Only the member with an email address got the email leg, with the
	// family name merged into the subject context.
	require.Equal(t, []string{"sarah@example.com"}, sender.sentTo())
	assert.Equal(t, "The Parkers: Tom added 3 photos", sender.sent[0].Payload.Subject)
	assert.Equal(t, "Sarah", sender.sent[0].Payload.ToName)
}

func TestDispatchToFamilyWithoutLookup(t *testing.T) {
	t.Parallel()

	d := New(notification.NewMemoryStorage(), notification.NewMemoryPreferenceStore(),
		deliverylog.NewMemoryStore(nil), &stubPublisher{})

	bulk, err := d.DispatchToFamily(context.Background(), "f1", notification.TypeFamilyActivity,
		familyContent(), nil, FamilyOptions{})

	// Best-effort semantics: a synthetic failure, never an error.
	require.NoError(t, err)
	assert.Equal(t, 1, bulk.FailureCount)
	require.Len(t, bulk.Results, 1)
	assert.Contains(t, bulk.Results[0].Err, "not configured")
}

func TestDispatchToFamilyLookupFailure(t *testing.T) {
	t.Parallel()

	d := New(notification.NewMemoryStorage(), notification.NewMemoryPreferenceStore(),
		deliverylog.NewMemoryStore(nil), &stubPublisher{},
		WithFamilyLookup(&stubFamilyLookup{err: errors.New("family service down")}))

	bulk, err := d.DispatchToFamily(context.Background(), "f1", notification.TypeFamilyActivity,
		familyContent(), nil, FamilyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, bulk.FailureCount)
	assert.Contains(t, bulk.Results[0].Err, "failed to resolve family f1")
}

func TestDispatchToFamilyNilFamily(t *testing.T) {
	t.Parallel()

	d := New(notification.NewMemoryStorage(), notification.NewMemoryPreferenceStore(),
		deliverylog.NewMemoryStore(nil), &stubPublisher{},
		WithFamilyLookup(&stubFamilyLookup{}))

	bulk, err := d.DispatchToFamily(context.Background(), "f1", notification.TypeFamilyActivity,
		familyContent(), nil, FamilyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, bulk.FailureCount)
}

func TestDispatchToFamilyEveryoneExcluded(t *testing.T) {
	t.Parallel()

	d := New(notification.NewMemoryStorage(), notification.NewMemoryPreferenceStore(),
		deliverylog.NewMemoryStore(nil), &stubPublisher{},
		WithFamilyLookup(&stubFamilyLookup{family: parkers()}))

	bulk, err := d.DispatchToFamily(context.Background(), "f1", notification.TypeFamilyActivity,
		familyContent(), nil,
		FamilyOptions{ExcludeUserIDs: []string{"tom", "sarah", "junior"}})
	require.NoError(t, err)
	assert.Equal(t, 1, bulk.FailureCount)
	assert.Contains(t, bulk.Results[0].Err, "no members to notify")
}

func TestDispatchToFamilyWithoutEmailTemplate(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	d := New(notification.NewMemoryStorage(), notification.NewMemoryPreferenceStore(),
		deliverylog.NewMemoryStore(nil), &stubPublisher{},
		WithEmailSender(sender),
		WithFamilyLookup(&stubFamilyLookup{family: parkers()}))

	bulk, err := d.DispatchToFamily(context.Background(), "f1", notification.TypeFamilyActivity,
		familyContent(), nil, FamilyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, bulk.SuccessCount)

	// In-app only: no email template means no email leg for anyone.
	assert.Empty(t, sender.sent)
}
