package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CompletionStore defines the interface for album completion records.
type CompletionStore interface {
	// Upsert records that the user completed the album at the given time.
	// The operation is atomic on the (userID, albumID) unique pair: a
	// concurrent upsert for the same pair refreshes the timestamp rather than
	// creating a second row. It must not be implemented as a separate
	// read-then-write.
	// Returns ErrInvalidEntity if the user or album does not exist.
	Upsert(ctx context.Context, userID, albumID uuid.UUID, completedAt time.Time) error
}
