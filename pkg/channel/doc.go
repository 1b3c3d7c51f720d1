// Package channel abstracts the real-time pub/sub provider behind a small
// Publisher contract: publish an event to one user's channel and query
// best-effort presence.
//
// Two implementations ship with the package. MemoryPublisher keeps
// per-user subscriber sets in process and is what transport handlers (SSE,
// WebSocket) subscribe to directly; slow consumers have events dropped
// rather than blocking a publish. RedisPublisher fans events out through
// Redis pub/sub for multi-process deployments, with presence read from a
// Redis set maintained by the transport layer.
//
// Presence answers are advisory on both implementations; the publish
// outcome, not the presence hint, is the ground truth for delivery.
package channel
