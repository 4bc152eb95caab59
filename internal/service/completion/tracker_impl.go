package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// Verify interface compliance at compile time
var _ Tracker = (*trackerImpl)(nil)

// trackerImpl implements the Tracker interface.
type trackerImpl struct {
	completions store.CompletionStore
	timeFunc    func() time.Time // Injectable for testing
	logger      *slog.Logger
}

// NewTracker creates a new Tracker backed by the given completion store.
func NewTracker(completions store.CompletionStore, logger *slog.Logger) Tracker {
	if completions == nil {
		panic("completions cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &trackerImpl{
		completions: completions,
		timeFunc:    time.Now,
		logger:      logger.With(slog.String("component", "completion_tracker")),
	}
}

// MaybeMarkCompleted implements Tracker.MaybeMarkCompleted.
func (t *trackerImpl) MaybeMarkCompleted(
	ctx context.Context,
	userID uuid.UUID,
	album *domain.Album,
) (Outcome, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	outcome := Outcome{
		TotalChallenges: album.TotalChallenges(),
		TotalMemories:   album.TotalMemories(),
	}

	// An album with no challenges can never be completed, regardless of how
	// many memories it somehow holds.
	if outcome.TotalChallenges == 0 {
		log.Debug("album has no challenges, skipping completion",
			slog.String("album_id", album.ID.String()))
		return outcome, nil
	}

	if outcome.TotalMemories < outcome.TotalChallenges {
		log.Debug("album not yet complete",
			slog.String("album_id", album.ID.String()),
			slog.Int("total_challenges", outcome.TotalChallenges),
			slog.Int("total_memories", outcome.TotalMemories))
		return outcome, nil
	}

	if userID == uuid.Nil {
		return outcome, fmt.Errorf("cannot record completion: %w", domain.ErrEmptyUserID)
	}

	// The store's upsert is atomic on the (user, album) pair, so concurrent
	// correct-answer submissions only race on which timestamp wins.
	if err := t.completions.Upsert(ctx, userID, album.ID, t.timeFunc().UTC()); err != nil {
		return outcome, fmt.Errorf("failed to record album completion: %w", err)
	}

	outcome.Completed = true
	log.Info("album marked completed for user",
		slog.String("user_id", userID.String()),
		slog.String("album_id", album.ID.String()),
		slog.Int("total_challenges", outcome.TotalChallenges),
		slog.Int("total_memories", outcome.TotalMemories))
	return outcome, nil
}
