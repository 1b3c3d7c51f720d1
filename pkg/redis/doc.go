// Package redis provides connection helpers for the Redis server backing the
// real-time notification channel.
//
// The package wraps the go-redis client and adds:
//
//   - A robust Connect that retries the connection using the supplied
//     configuration before giving up.
//   - A Healthcheck helper to integrate Redis into liveness / readiness
//     probes.
//
// Configuration is described by the Config struct whose fields are populated
// from environment variables via github.com/caarlos0/env.
//
// # Usage
//
// Load configuration and connect with auto-retry:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// The connected client is typically handed to channel.NewRedisPublisher,
// which uses Redis pub/sub for cross-instance notification delivery and a
// set for online-presence tracking.
//
// # Errors
//
// The package defines sentinel errors (e.g. ErrNotReady) that wrap the
// underlying go-redis errors using errors.Join, so callers can compare with
// errors.Is and still inspect the cause.
package redis
