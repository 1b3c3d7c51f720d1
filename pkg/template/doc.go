// Package template is the pure string-interpolation engine behind
// notification content. It converts a named template plus a variable bag
// into a fully rendered payload (title, message, optional rich content and
// call-to-action fields).
//
// Placeholders use the {{variableName}} form. Missing or nil variables
// render as the empty string; no rendering path performs I/O or returns an
// error, which keeps the engine trivially unit-testable.
//
// Per-type builders (Message, CareUpdate, EmergencyAlert, Announcement,
// FamilyActivity) apply content-shaping rules before interpolation: message
// previews are truncated to PreviewBudget runes, emergency titles get a
// severity-derived prefix, and announcement call-to-action labels vary by
// category. ByType resolves a builder from a type name with the
// announcement builder as the fallback for unrecognized types.
package template
