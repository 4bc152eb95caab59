package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// PostgresCompletionStore implements the store.CompletionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCompletionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompletionStore creates a new PostgreSQL implementation of the CompletionStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCompletionStore(db store.DBTX, logger *slog.Logger) *PostgresCompletionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCompletionStore{
		db:     db,
		logger: logger.With(slog.String("component", "completion_store")),
	}
}

// Ensure PostgresCompletionStore implements store.CompletionStore interface
var _ store.CompletionStore = (*PostgresCompletionStore)(nil)

// Upsert implements store.CompletionStore.Upsert
// The ON CONFLICT clause makes the insert-or-refresh atomic on the
// (user_id, album_id) unique pair, so concurrent correct-answer submissions
// for the same pair cannot create duplicate rows.
func (s *PostgresCompletionStore) Upsert(ctx context.Context, userID, albumID uuid.UUID, completedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO completed_albums (user_id, album_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, album_id)
		DO UPDATE SET completed_at = EXCLUDED.completed_at
	`
	_, err := s.db.ExecContext(ctx, query, userID, albumID, completedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during completion upsert",
				slog.String("user_id", userID.String()),
				slog.String("album_id", albumID.String()))
			return fmt.Errorf("%w: user or album not found", store.ErrInvalidEntity)
		}

		log.Error("failed to upsert completion record",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("album_id", albumID.String()))
		return store.NewStoreError("completed_album", "upsert", "upsert failed", err)
	}

	log.Info("album completion recorded",
		slog.String("user_id", userID.String()),
		slog.String("album_id", albumID.String()))
	return nil
}
