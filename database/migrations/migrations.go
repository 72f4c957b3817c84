// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// cmd/jaivik imports this package so every migration is registered
// before the CLI runs.
package migrations
