// Package queue is a small one-shot delayed task queue used to defer
// companion emails past a recipient's quiet hours.
//
// An Enqueuer stores tasks with an absolute scheduled time; a Worker polls
// the repository for due tasks and runs the handler registered under the
// task's name. Task names are derived from the payload struct type, so the
// enqueue site and its handler stay paired through the type system.
//
// The in-memory repository keeps the original best-effort semantics: a
// deferred email does not survive a process restart. The repository
// interfaces are deliberately storage-shaped so that a durable
// implementation can be dropped in without changing the enqueuer, the
// worker, or any enqueue site.
package queue
