package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/famlinkhq/notifykit/pkg/email"
	"github.com/famlinkhq/notifykit/pkg/logger"
	"github.com/famlinkhq/notifykit/pkg/notification"
)

// FamilyMember is one member of a family as resolved by the lookup
// collaborator. Members without an email address still receive the in-app
// leg of a family dispatch.
type FamilyMember struct {
	UserID string
	Name   string
	Email  string
}

// Family is the resolved member list for one family.
type Family struct {
	ID      string
	Name    string
	Members []FamilyMember
}

// FamilyLookup resolves a family's member list.
type FamilyLookup interface {
	GetFamilyByID(ctx context.Context, familyID string) (*Family, error)
}

// FamilyOptions tunes a family-wide dispatch.
type FamilyOptions struct {
	// ExcludeUserIDs are skipped entirely, typically the actor who
	// triggered the event, to avoid self-notification.
	ExcludeUserIDs []string
}

// DispatchToFamily fans the notification out to every family member except
// the excluded ones. Each member's display name and the family name are
// merged into the shared email context template before delegating to
// DispatchBulk.
//
// An unresolvable or empty family yields a single synthetic failure result
// with a nil error, so best-effort callers (activity feeds) are never
// interrupted.
func (d *Dispatcher) DispatchToFamily(ctx context.Context, familyID string, typ notification.Type, content Content, emailTmpl *email.Context, opts FamilyOptions) (*BulkResult, error) {
	fail := func(msg string) *BulkResult {
		return &BulkResult{
			FailureCount: 1,
			Results:      []RecipientResult{{Err: msg}},
		}
	}

	if d.families == nil {
		return fail("family lookup not configured"), nil
	}

	family, err := d.families.GetFamilyByID(ctx, familyID)
	if err != nil || family == nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to resolve family for dispatch",
			logger.FamilyID(familyID),
			logger.Error(err),
		)
		return fail(fmt.Sprintf("failed to resolve family %s", familyID)), nil
	}

	excluded := make(map[string]bool, len(opts.ExcludeUserIDs))
	for _, id := range opts.ExcludeUserIDs {
		excluded[id] = true
	}

	recipients := make([]Recipient, 0, len(family.Members))
	for _, member := range family.Members {
		if excluded[member.UserID] {
			continue
		}
		r := Recipient{UserID: member.UserID}
		if emailTmpl != nil && member.Email != "" {
			ectx := *emailTmpl
			ectx.To = member.Email
			ectx.ToName = member.Name
			ectx.FamilyName = family.Name
			r.Email = &ectx
		}
		recipients = append(recipients, r)
	}

	if len(recipients) == 0 {
		return fail(fmt.Sprintf("family %s has no members to notify", familyID)), nil
	}

	return d.DispatchBulk(ctx, recipients, typ, content)
}
