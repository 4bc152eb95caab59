package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake-api/internal/domain"
)

// MockCompletionStore mocks the store.CompletionStore interface
type MockCompletionStore struct {
	mock.Mock
}

func (m *MockCompletionStore) Upsert(
	ctx context.Context,
	userID, albumID uuid.UUID,
	completedAt time.Time,
) error {
	args := m.Called(ctx, userID, albumID, completedAt)
	return args.Error(0)
}

// albumWithCounts builds an album carrying the given number of challenges,
// distributing memories across them round-robin.
func albumWithCounts(challenges, memories int) *domain.Album {
	album := &domain.Album{
		ID:     uuid.New(),
		UserID: uuid.New(),
	}
	for i := 0; i < challenges; i++ {
		album.Challenges = append(album.Challenges, &domain.Challenge{ID: uuid.New()})
	}
	for i := 0; i < memories; i++ {
		c := album.Challenges[i%challenges]
		c.Memories = append(c.Memories, &domain.Memory{ID: uuid.New()})
	}
	return album
}

func TestMaybeMarkCompleted(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("records completion when memories reach challenge count", func(t *testing.T) {
		t.Parallel()

		album := albumWithCounts(3, 3)
		completions := new(MockCompletionStore)
		completions.On("Upsert", mock.Anything, userID, album.ID, mock.AnythingOfType("time.Time")).
			Return(nil)

		tracker := NewTracker(completions, nil)
		outcome, err := tracker.MaybeMarkCompleted(context.Background(), userID, album)

		require.NoError(t, err)
		assert.True(t, outcome.Completed)
		assert.Equal(t, 3, outcome.TotalChallenges)
		assert.Equal(t, 3, outcome.TotalMemories)
		completions.AssertExpectations(t)
	})

	t.Run("records completion when memories exceed challenge count", func(t *testing.T) {
		t.Parallel()

		// Memory counts are global across the album, so one busy challenge
		// can push the album over the threshold.
		album := albumWithCounts(3, 5)
		completions := new(MockCompletionStore)
		completions.On("Upsert", mock.Anything, userID, album.ID, mock.AnythingOfType("time.Time")).
			Return(nil)

		tracker := NewTracker(completions, nil)
		outcome, err := tracker.MaybeMarkCompleted(context.Background(), userID, album)

		require.NoError(t, err)
		assert.True(t, outcome.Completed)
		completions.AssertExpectations(t)
	})

	t.Run("skips albums below the threshold", func(t *testing.T) {
		t.Parallel()

		album := albumWithCounts(3, 2)
		completions := new(MockCompletionStore)

		tracker := NewTracker(completions, nil)
		outcome, err := tracker.MaybeMarkCompleted(context.Background(), userID, album)

		require.NoError(t, err)
		assert.False(t, outcome.Completed)
		assert.Equal(t, 3, outcome.TotalChallenges)
		assert.Equal(t, 2, outcome.TotalMemories)
		completions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("never completes an album with zero challenges", func(t *testing.T) {
		t.Parallel()

		album := &domain.Album{ID: uuid.New(), UserID: uuid.New()}
		completions := new(MockCompletionStore)

		tracker := NewTracker(completions, nil)
		outcome, err := tracker.MaybeMarkCompleted(context.Background(), userID, album)

		require.NoError(t, err)
		assert.False(t, outcome.Completed)
		assert.Equal(t, 0, outcome.TotalChallenges)
		completions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects nil user once the threshold is met", func(t *testing.T) {
		t.Parallel()

		album := albumWithCounts(2, 2)
		completions := new(MockCompletionStore)

		tracker := NewTracker(completions, nil)
		outcome, err := tracker.MaybeMarkCompleted(context.Background(), uuid.Nil, album)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyUserID)
		assert.False(t, outcome.Completed)
		completions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		t.Parallel()

		album := albumWithCounts(1, 1)
		storeErr := errors.New("connection lost")
		completions := new(MockCompletionStore)
		completions.On("Upsert", mock.Anything, userID, album.ID, mock.AnythingOfType("time.Time")).
			Return(storeErr)

		tracker := NewTracker(completions, nil)
		outcome, err := tracker.MaybeMarkCompleted(context.Background(), userID, album)

		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, outcome.Completed)
	})

	t.Run("is idempotent across repeat calls", func(t *testing.T) {
		t.Parallel()

		album := albumWithCounts(2, 2)
		completions := new(MockCompletionStore)
		completions.On("Upsert", mock.Anything, userID, album.ID, mock.AnythingOfType("time.Time")).
			Return(nil).Twice()

		tracker := NewTracker(completions, nil)
		for i := 0; i < 2; i++ {
			outcome, err := tracker.MaybeMarkCompleted(context.Background(), userID, album)
			require.NoError(t, err)
			assert.True(t, outcome.Completed)
		}
		completions.AssertExpectations(t)
	})
}

func TestNewTrackerNilStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewTracker(nil, nil)
	})
}
