package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// PostgresMemoryStore implements the store.MemoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMemoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMemoryStore creates a new PostgreSQL implementation of the MemoryStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMemoryStore(db store.DBTX, logger *slog.Logger) *PostgresMemoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMemoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_store")),
	}
}

// Ensure PostgresMemoryStore implements store.MemoryStore interface
var _ store.MemoryStore = (*PostgresMemoryStore)(nil)

// Create implements store.MemoryStore.Create
// Returns store.ErrInvalidEntity if the parent challenge doesn't exist.
func (s *PostgresMemoryStore) Create(ctx context.Context, memory *domain.Memory) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := memory.Validate(); err != nil {
		log.Warn("memory validation failed during create",
			slog.String("error", err.Error()),
			slog.String("memory_id", memory.ID.String()))
		return err
	}

	query := `
		INSERT INTO memories (id, challenge_id, type, file_path, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		memory.ID,
		memory.ChallengeID,
		memory.Kind,
		memory.FilePath,
		memory.Note,
		memory.CreatedAt,
		memory.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during memory creation",
				slog.String("memory_id", memory.ID.String()),
				slog.String("challenge_id", memory.ChallengeID.String()))
			return fmt.Errorf("%w: challenge with ID %s not found",
				store.ErrInvalidEntity, memory.ChallengeID)
		}

		log.Error("failed to create memory",
			slog.String("error", err.Error()),
			slog.String("memory_id", memory.ID.String()),
			slog.String("challenge_id", memory.ChallengeID.String()))
		return store.NewStoreError("memory", "create", "insert failed", err)
	}

	log.Info("memory created successfully",
		slog.String("memory_id", memory.ID.String()),
		slog.String("challenge_id", memory.ChallengeID.String()),
		slog.String("type", string(memory.Kind)))
	return nil
}
