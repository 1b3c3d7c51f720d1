// Package dispatch orchestrates notification delivery: it persists the
// notification record, attempts real-time delivery over the channel
// publisher, records the outcome as a delivery log, republishes the unread
// counter, and optionally sends a companion email honoring per-user
// preferences and quiet hours.
//
// # Failure semantics
//
// Only a failure to persist the base notification is fatal to a dispatch
// call. Everything downstream - the publish, the delivery-log writes, the
// unread-count broadcast, the email - degrades gracefully into the
// result's Errors list, because the user-visible notification already
// exists and must not disappear due to a downstream hiccup.
//
// # Fan-out
//
// DispatchBulk runs every recipient concurrently and waits for all of them
// to settle; a panic or error in one recipient's dispatch becomes that
// recipient's failed entry and never aborts siblings. DispatchToFamily
// resolves the member list, filters exclusions, merges per-member email
// contexts, and delegates to DispatchBulk; an unresolvable family returns a
// synthetic failure result instead of an error so best-effort callers are
// never interrupted.
//
// # Construction
//
//	d := dispatch.New(storage, prefs, logs, publisher,
//	    dispatch.WithEmailSender(sender),
//	    dispatch.WithFamilyLookup(families),
//	    dispatch.WithDeferral(enqueuer),
//	)
package dispatch
