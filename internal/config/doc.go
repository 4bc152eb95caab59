// Package config loads and validates application settings from environment
// variables (server, database, auth, and storage sections). It gives the
// rest of the application type-safe access to configuration while keeping
// the loading mechanics out of business code.
package config
