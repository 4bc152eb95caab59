package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("formats entity, operation, and cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection reset")
		err := NewStoreError("album", "create", "insert failed", cause)

		assert.Equal(t, "create operation on album failed: insert failed: connection reset", err.Error())
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection reset")
		err := NewStoreError("challenge", "update", "update failed", cause)

		require.ErrorIs(t, err, cause)

		var storeErr *StoreError
		require.ErrorAs(t, error(err), &storeErr)
		assert.Equal(t, "challenge", storeErr.Entity)
		assert.Equal(t, "update", storeErr.Operation)
	})

	t.Run("sentinel wrapped in a StoreError still matches", func(t *testing.T) {
		t.Parallel()

		err := NewStoreError("album", "get", "lookup failed", ErrAlbumNotFound)

		assert.True(t, IsNotFoundError(err))
		assert.True(t, errors.Is(err, ErrAlbumNotFound))
	})
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	t.Run("not-found family", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{ErrNotFound, ErrUserNotFound, ErrAlbumNotFound, ErrChallengeNotFound} {
			assert.True(t, IsNotFoundError(err), "%v", err)
			assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", err)), "%v", err)
		}
		assert.False(t, IsNotFoundError(ErrDuplicate))
		assert.False(t, IsNotFoundError(nil))
	})

	t.Run("duplicate family", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{ErrDuplicate, ErrEmailExists, ErrCodeExists} {
			assert.True(t, IsDuplicateError(err), "%v", err)
		}
		assert.False(t, IsDuplicateError(ErrNotFound))
		assert.False(t, IsDuplicateError(nil))
	})
}
