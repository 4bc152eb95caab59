// Package store defines the persistence interfaces for users, albums,
// challenges, memories, and album completions, along with the sentinel
// errors implementations report. Keeping the interfaces here lets the
// service layer stay independent of the SQL details in platform/postgres.
package store
