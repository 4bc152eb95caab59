package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
)

// ChallengeStore defines the interface for challenge data persistence.
type ChallengeStore interface {
	// Create saves a new challenge to the store.
	// Returns ErrInvalidEntity if the parent album does not exist.
	Create(ctx context.Context, challenge *domain.Challenge) error

	// GetByID retrieves a challenge by its unique ID, eager-loading its
	// memories. Returns ErrChallengeNotFound if the challenge does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)

	// Update modifies an existing challenge's question, answer kind, and
	// stored answer. Returns ErrChallengeNotFound if the challenge does not
	// exist.
	Update(ctx context.Context, challenge *domain.Challenge) error

	// Delete removes a challenge and its memories from the store.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStore defines the interface for memory data persistence.
type MemoryStore interface {
	// Create saves a new memory to the store.
	// Returns ErrInvalidEntity if the parent challenge does not exist.
	Create(ctx context.Context, memory *domain.Memory) error
}
