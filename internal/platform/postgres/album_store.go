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

// albumCodeConstraint is the unique index guarding album short codes.
const albumCodeConstraint = "albums_code_key"

// PostgresAlbumStore implements the store.AlbumStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAlbumStore struct {
	db     store.DBTX
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewPostgresAlbumStore creates a new PostgreSQL implementation of the AlbumStore interface.
// It accepts an initialized database connection managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAlbumStore(db *sql.DB, logger *slog.Logger) *PostgresAlbumStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAlbumStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "album_store")),
	}
}

// Ensure PostgresAlbumStore implements store.AlbumStore interface
var _ store.AlbumStore = (*PostgresAlbumStore)(nil)

// DB implements store.AlbumStore.DB
func (s *PostgresAlbumStore) DB() *sql.DB {
	return s.sqlDB
}

// WithTx implements store.AlbumStore.WithTx
// The returned store runs its queries on the transaction while keeping the
// original database handle for starting further transactions.
func (s *PostgresAlbumStore) WithTx(tx *sql.Tx) store.AlbumStore {
	return &PostgresAlbumStore{
		db:     tx,
		sqlDB:  s.sqlDB,
		logger: s.logger,
	}
}

// Create implements store.AlbumStore.Create
// Returns store.ErrCodeExists when the short code collides with an existing
// album, so the caller can regenerate and retry. The unique index is the
// actual guarantor of code uniqueness under concurrent creation.
func (s *PostgresAlbumStore) Create(ctx context.Context, album *domain.Album) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := album.Validate(); err != nil {
		log.Warn("album validation failed during create",
			slog.String("error", err.Error()),
			slog.String("album_id", album.ID.String()))
		return err
	}

	query := `
		INSERT INTO albums (id, user_id, title, description, category, code,
			bg_image, allow_collaborators, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		album.ID,
		album.UserID,
		album.Title,
		album.Description,
		album.Category,
		album.Code,
		album.BgImage,
		album.AllowCollaborators,
		album.CreatedAt,
		album.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, albumCodeConstraint) {
			log.Debug("album code collision, caller will retry",
				slog.String("album_id", album.ID.String()))
			return store.ErrCodeExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, album.UserID)
		}

		log.Error("failed to create album",
			slog.String("error", err.Error()),
			slog.String("album_id", album.ID.String()),
			slog.String("user_id", album.UserID.String()))
		return store.NewStoreError("album", "create", "insert failed", err)
	}

	log.Info("album created successfully",
		slog.String("album_id", album.ID.String()),
		slog.String("user_id", album.UserID.String()),
		slog.String("code", album.Code))
	return nil
}

// GetByID implements store.AlbumStore.GetByID
// Returns store.ErrAlbumNotFound if the album does not exist.
func (s *PostgresAlbumStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	album, err := s.scanAlbum(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, category, code,
			bg_image, allow_collaborators, created_at, updated_at
		FROM albums
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAlbumNotFound
		}
		log.Error("failed to get album by ID",
			slog.String("error", err.Error()),
			slog.String("album_id", id.String()))
		return nil, store.NewStoreError("album", "get", "query failed", err)
	}

	return album, nil
}

// GetByIDWithChallenges implements store.AlbumStore.GetByIDWithChallenges
// It loads the album together with all challenges and their memories, which
// the completion tracker needs for its total counts.
func (s *PostgresAlbumStore) GetByIDWithChallenges(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	album, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.loadChildren(ctx, album); err != nil {
		return nil, err
	}

	return album, nil
}

// GetByCode implements store.AlbumStore.GetByCode
// Returns store.ErrAlbumNotFound if no album has the code.
func (s *PostgresAlbumStore) GetByCode(ctx context.Context, code string) (*domain.Album, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	album, err := s.scanAlbum(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, category, code,
			bg_image, allow_collaborators, created_at, updated_at
		FROM albums
		WHERE code = $1
	`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAlbumNotFound
		}
		log.Error("failed to get album by code",
			slog.String("error", err.Error()),
			slog.String("code", code))
		return nil, store.NewStoreError("album", "get_by_code", "query failed", err)
	}

	if err := s.loadChildren(ctx, album); err != nil {
		return nil, err
	}

	return album, nil
}

// ListByOwner implements store.AlbumStore.ListByOwner
func (s *PostgresAlbumStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*store.AlbumWithCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT a.id, a.user_id, a.title, a.description, a.category, a.code,
			a.bg_image, a.allow_collaborators, a.created_at, a.updated_at,
			(SELECT COUNT(*) FROM challenges c WHERE c.album_id = a.id) AS challenge_count,
			(SELECT COUNT(*) FROM memories m
				JOIN challenges c ON m.challenge_id = c.id
				WHERE c.album_id = a.id) AS memory_count
		FROM albums a
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list albums by owner",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("album", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*store.AlbumWithCounts
	for rows.Next() {
		var (
			album  domain.Album
			counts store.AlbumWithCounts
		)
		if err := rows.Scan(
			&album.ID,
			&album.UserID,
			&album.Title,
			&album.Description,
			&album.Category,
			&album.Code,
			&album.BgImage,
			&album.AllowCollaborators,
			&album.CreatedAt,
			&album.UpdatedAt,
			&counts.ChallengeCount,
			&counts.MemoryCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		counts.Album = &album
		results = append(results, &counts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate album rows: %w", err)
	}

	return results, nil
}

// UpdateBgImage implements store.AlbumStore.UpdateBgImage
// Returns store.ErrAlbumNotFound if the album does not exist.
func (s *PostgresAlbumStore) UpdateBgImage(ctx context.Context, id uuid.UUID, bgImage string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE albums SET bg_image = $2, updated_at = NOW()
		WHERE id = $1
	`, id, bgImage)
	if err != nil {
		log.Error("failed to update album background image",
			slog.String("error", err.Error()),
			slog.String("album_id", id.String()))
		return store.NewStoreError("album", "update_bg_image", "update failed", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return store.ErrAlbumNotFound
	}

	return nil
}

// CodeExists implements store.AlbumStore.CodeExists
func (s *PostgresAlbumStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM albums WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check album code: %w", err)
	}
	return exists, nil
}

// scanAlbum scans a single album row.
func (s *PostgresAlbumStore) scanAlbum(row *sql.Row) (*domain.Album, error) {
	var album domain.Album
	err := row.Scan(
		&album.ID,
		&album.UserID,
		&album.Title,
		&album.Description,
		&album.Category,
		&album.Code,
		&album.BgImage,
		&album.AllowCollaborators,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// loadChildren populates album.Challenges and each challenge's Memories.
// Challenges are loaded even when empty so TotalChallenges reflects reality.
func (s *PostgresAlbumStore) loadChildren(ctx context.Context, album *domain.Album) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, album_id, question, answer_type, answer, created_at, updated_at
		FROM challenges
		WHERE album_id = $1
		ORDER BY created_at
	`, album.ID)
	if err != nil {
		return fmt.Errorf("failed to load challenges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	album.Challenges = []*domain.Challenge{}
	byID := make(map[uuid.UUID]*domain.Challenge)
	for rows.Next() {
		var c domain.Challenge
		if err := rows.Scan(
			&c.ID,
			&c.AlbumID,
			&c.Question,
			&c.AnswerKind,
			&c.Answer,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan challenge row: %w", err)
		}
		c.Memories = []*domain.Memory{}
		album.Challenges = append(album.Challenges, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate challenge rows: %w", err)
	}

	if len(album.Challenges) == 0 {
		return nil
	}

	memRows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.challenge_id, m.type, m.file_path, m.note, m.created_at, m.updated_at
		FROM memories m
		JOIN challenges c ON m.challenge_id = c.id
		WHERE c.album_id = $1
		ORDER BY m.created_at
	`, album.ID)
	if err != nil {
		return fmt.Errorf("failed to load memories: %w", err)
	}
	defer func() { _ = memRows.Close() }()

	for memRows.Next() {
		var m domain.Memory
		if err := memRows.Scan(
			&m.ID,
			&m.ChallengeID,
			&m.Kind,
			&m.FilePath,
			&m.Note,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan memory row: %w", err)
		}
		if parent, ok := byID[m.ChallengeID]; ok {
			parent.Memories = append(parent.Memories, &m)
		}
	}
	if err := memRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate memory rows: %w", err)
	}

	return nil
}
