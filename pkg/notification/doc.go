// Package notification holds the notification domain model, the persistence
// contracts for notification records, and per-user delivery preferences
// including quiet hours.
//
// A Notification is a durable record of one event surfaced to one user. Its
// type is immutable after creation and the read flag only ever transitions
// from false to true. Fan-out to many recipients creates one record per
// recipient.
//
// Two Storage implementations ship with the package: MemoryStorage for
// development and tests, and PostgresStorage over a pgx connection pool.
// Preferences are read through the PreferenceStore contract; the dispatcher
// never mutates them.
package notification
