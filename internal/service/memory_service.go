package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// MemoryService provides memory-related operations.
type MemoryService interface {
	// CreateMemory attaches a new memory to the challenge. By caller
	// convention this happens only after a correct answer was submitted;
	// nothing at this layer deduplicates repeat submissions (see DESIGN.md).
	// Returns ErrChallengeNotFound if the challenge does not exist.
	CreateMemory(ctx context.Context, challengeID uuid.UUID, kind domain.MemoryKind, filePath, note string) (*domain.Memory, error)
}

// memoryServiceImpl implements the MemoryService interface.
type memoryServiceImpl struct {
	memories store.MemoryStore
	logger   *slog.Logger
}

// Verify interface compliance at compile time
var _ MemoryService = (*memoryServiceImpl)(nil)

// NewMemoryService creates a new MemoryService implementation.
func NewMemoryService(memories store.MemoryStore, logger *slog.Logger) MemoryService {
	if memories == nil {
		panic("memories cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &memoryServiceImpl{
		memories: memories,
		logger:   logger.With(slog.String("component", "memory_service")),
	}
}

// CreateMemory implements MemoryService.CreateMemory.
func (s *memoryServiceImpl) CreateMemory(
	ctx context.Context,
	challengeID uuid.UUID,
	kind domain.MemoryKind,
	filePath, note string,
) (*domain.Memory, error) {
	memory, err := domain.NewMemory(challengeID, kind, filePath, note)
	if err != nil {
		return nil, NewServiceError("create_memory", "invalid memory data", err)
	}

	if err := s.memories.Create(ctx, memory); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrChallengeNotFound
		}
		return nil, NewServiceError("create_memory", "failed to store memory", err)
	}

	return memory, nil
}
