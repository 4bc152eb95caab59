package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// PostgresChallengeStore implements the store.ChallengeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresChallengeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChallengeStore creates a new PostgreSQL implementation of the ChallengeStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresChallengeStore(db store.DBTX, logger *slog.Logger) *PostgresChallengeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresChallengeStore{
		db:     db,
		logger: logger.With(slog.String("component", "challenge_store")),
	}
}

// Ensure PostgresChallengeStore implements store.ChallengeStore interface
var _ store.ChallengeStore = (*PostgresChallengeStore)(nil)

// Create implements store.ChallengeStore.Create
// Returns store.ErrInvalidEntity if the parent album doesn't exist.
func (s *PostgresChallengeStore) Create(ctx context.Context, challenge *domain.Challenge) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := challenge.Validate(); err != nil {
		log.Warn("challenge validation failed during create",
			slog.String("error", err.Error()),
			slog.String("challenge_id", challenge.ID.String()))
		return err
	}

	query := `
		INSERT INTO challenges (id, album_id, question, answer_type, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		challenge.ID,
		challenge.AlbumID,
		challenge.Question,
		challenge.AnswerKind,
		challenge.Answer,
		challenge.CreatedAt,
		challenge.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during challenge creation",
				slog.String("challenge_id", challenge.ID.String()),
				slog.String("album_id", challenge.AlbumID.String()))
			return fmt.Errorf("%w: album with ID %s not found",
				store.ErrInvalidEntity, challenge.AlbumID)
		}

		log.Error("failed to create challenge",
			slog.String("error", err.Error()),
			slog.String("challenge_id", challenge.ID.String()),
			slog.String("album_id", challenge.AlbumID.String()))
		return store.NewStoreError("challenge", "create", "insert failed", err)
	}

	log.Info("challenge created successfully",
		slog.String("challenge_id", challenge.ID.String()),
		slog.String("album_id", challenge.AlbumID.String()))
	return nil
}

// GetByID implements store.ChallengeStore.GetByID
// It eager-loads the challenge's memories, which the validate operation
// returns to the caller on a correct answer.
func (s *PostgresChallengeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c domain.Challenge
	err := s.db.QueryRowContext(ctx, `
		SELECT id, album_id, question, answer_type, answer, created_at, updated_at
		FROM challenges
		WHERE id = $1
	`, id).Scan(
		&c.ID,
		&c.AlbumID,
		&c.Question,
		&c.AnswerKind,
		&c.Answer,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChallengeNotFound
		}
		log.Error("failed to get challenge by ID",
			slog.String("error", err.Error()),
			slog.String("challenge_id", id.String()))
		return nil, store.NewStoreError("challenge", "get", "query failed", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, challenge_id, type, file_path, note, created_at, updated_at
		FROM memories
		WHERE challenge_id = $1
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	c.Memories = []*domain.Memory{}
	for rows.Next() {
		var m domain.Memory
		if err := rows.Scan(
			&m.ID,
			&m.ChallengeID,
			&m.Kind,
			&m.FilePath,
			&m.Note,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan memory row: %w", err)
		}
		c.Memories = append(c.Memories, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memory rows: %w", err)
	}

	return &c, nil
}

// Update implements store.ChallengeStore.Update
// Returns store.ErrChallengeNotFound if the challenge does not exist.
func (s *PostgresChallengeStore) Update(ctx context.Context, challenge *domain.Challenge) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := challenge.Validate(); err != nil {
		log.Warn("challenge validation failed during update",
			slog.String("error", err.Error()),
			slog.String("challenge_id", challenge.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE challenges
		SET question = $2, answer_type = $3, answer = $4, updated_at = NOW()
		WHERE id = $1
	`, challenge.ID, challenge.Question, challenge.AnswerKind, challenge.Answer)
	if err != nil {
		log.Error("failed to update challenge",
			slog.String("error", err.Error()),
			slog.String("challenge_id", challenge.ID.String()))
		return store.NewStoreError("challenge", "update", "update failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return store.ErrChallengeNotFound
	}

	log.Info("challenge updated successfully",
		slog.String("challenge_id", challenge.ID.String()))
	return nil
}

// Delete implements store.ChallengeStore.Delete
// Memories cascade at the database level.
func (s *PostgresChallengeStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete challenge",
			slog.String("error", err.Error()),
			slog.String("challenge_id", id.String()))
		return store.NewStoreError("challenge", "delete", "delete failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return store.ErrChallengeNotFound
	}

	log.Info("challenge deleted successfully",
		slog.String("challenge_id", id.String()))
	return nil
}
