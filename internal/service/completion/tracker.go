// Package completion decides whether an album should be recorded as
// completed for a user after a correct challenge answer.
//
// The decision is a count heuristic: an album counts as completed once the
// total number of memories across all of its challenges reaches the total
// number of challenges. Memory counts are album-wide, not per user, so one
// user's uploads can complete the album for another. Existing clients depend
// on this behavior; see DESIGN.md before changing it.
package completion

import (
	"context"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
)

// Outcome describes the tracker's decision for one invocation.
type Outcome struct {
	// Completed reports whether a completion record was upserted.
	Completed bool

	// TotalChallenges and TotalMemories are the counts the decision was
	// based on, surfaced for logging.
	TotalChallenges int
	TotalMemories   int
}

// Tracker records album completion for users.
type Tracker interface {
	// MaybeMarkCompleted applies the completion heuristic to the album and,
	// if it passes, atomically upserts a completion record for the user.
	// It is invoked only after a correct answer to one of the album's
	// challenges, with the album loaded together with all challenges and
	// memories.
	//
	// Repeated invocations with the same counts are idempotent: the upsert
	// refreshes the record's timestamp without creating duplicate rows.
	//
	// The returned error reports upsert failures; callers treat the record
	// as a best-effort enhancement and must not let the error fail the
	// triggering correct-answer response.
	MaybeMarkCompleted(ctx context.Context, userID uuid.UUID, album *domain.Album) (Outcome, error)
}
