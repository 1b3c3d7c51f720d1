// Package config loads typed configuration structs from environment
// variables using struct tags, with an optional .env file for local
// development. Parsed configurations are cached per type so that every
// component sees the same values regardless of load order.
package config
