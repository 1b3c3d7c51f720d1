// Package deliverylog tracks the outcome of every real-time dispatch attempt
// as an auditable record with a small status state machine.
//
// Each log row is created in PENDING alongside its notification and updated
// at most once more with the terminal outcome. Legal transitions are
// PENDING to DELIVERED, FAILED or POLLED, and FAILED to POLLED (a client
// polling after a failed push still counts as received). Latency is recorded
// only on DELIVERED rows and an error string only on FAILED rows; every
// Store implementation enforces both invariants at the write boundary.
//
// The read path exposes aggregate delivery metrics since a point in time,
// the most recent rows joined with their notification's type and title, and
// a cleanup operation that purges terminal-success rows past a retention
// age while keeping FAILED and PENDING rows for diagnosis.
package deliverylog
