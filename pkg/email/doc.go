// Package email renders and sends the companion email for a notification.
//
// Payload shapes are resolved from a per-type builder registry
// (BuildPayload) with the announcement shape as the fallback for
// unrecognized types; the builders themselves are pure. Two Sender
// implementations are provided: a Postmark-backed transactional sender for
// production and DevSender, which writes emails to disk for local
// development.
package email
