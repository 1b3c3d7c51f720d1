// Package pg provides the pgx connection pool used by the Postgres-backed
// notification storage, with env-driven configuration and startup retry.
package pg
