package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/domain/shortcode"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// AlbumStats aggregates counts across a user's albums for the listing
// endpoint.
type AlbumStats struct {
	TotalAlbums     int `json:"total_albums"`
	TotalChallenges int `json:"total_challenges"`
	TotalMemories   int `json:"total_memories"`
}

// AlbumService provides album-related operations.
type AlbumService interface {
	// CreateAlbum creates a new album for the owner with a freshly generated
	// unique short code. Code generation retries both on the pre-check and on
	// the store's unique-violation signal, so concurrent creations converge on
	// distinct codes.
	CreateAlbum(ctx context.Context, ownerID uuid.UUID, title, description, category string) (*domain.Album, error)

	// ListAlbums retrieves the owner's albums with per-album counts plus
	// aggregate stats.
	ListAlbums(ctx context.Context, ownerID uuid.UUID) ([]*store.AlbumWithCounts, *AlbumStats, error)

	// FindByCode retrieves an album by its shareable short code, with
	// challenges and memories eager-loaded.
	// Returns ErrAlbumNotFound if no album carries the code.
	FindByCode(ctx context.Context, code string) (*domain.Album, error)

	// UpdateBgImage sets the album's background image reference.
	// Returns ErrAlbumNotFound if the album does not exist and
	// ErrNotAlbumOwner if the acting user does not own it.
	UpdateBgImage(ctx context.Context, actorID, albumID uuid.UUID, bgImage string) error
}

// albumServiceImpl implements the AlbumService interface.
type albumServiceImpl struct {
	albums    store.AlbumStore
	generator *shortcode.Generator
	logger    *slog.Logger
}

// Verify interface compliance at compile time
var _ AlbumService = (*albumServiceImpl)(nil)

// NewAlbumService creates a new AlbumService implementation.
func NewAlbumService(
	albums store.AlbumStore,
	generator *shortcode.Generator,
	logger *slog.Logger,
) AlbumService {
	if albums == nil {
		panic("albums cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &albumServiceImpl{
		albums:    albums,
		generator: generator,
		logger:    logger.With(slog.String("component", "album_service")),
	}
}

// CreateAlbum implements AlbumService.CreateAlbum.
func (s *albumServiceImpl) CreateAlbum(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description, category string,
) (*domain.Album, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	album, err := domain.NewAlbum(ownerID, title, description, category, s.generator.Generate())
	if err != nil {
		return nil, NewServiceError("create_album", "invalid album data", err)
	}

	// Generate-and-check, then insert, inside one transaction per attempt.
	// Two concurrent requests can both pass the pre-check with the same
	// code; the unique index rejects the loser, which rolls back,
	// regenerates, and retries.
	for {
		err := store.RunInTransaction(ctx, s.albums.DB(), func(ctx context.Context, tx *sql.Tx) error {
			albums := s.albums.WithTx(tx)

			code, err := s.generator.GenerateUnique(ctx, albums.CodeExists)
			if err != nil {
				return NewServiceError("create_album", "code generation failed", err)
			}
			album.Code = code

			return albums.Create(ctx, album)
		})
		if err == nil {
			log.Debug("album created",
				slog.String("album_id", album.ID.String()),
				slog.String("code", album.Code))
			return album, nil
		}
		if errors.Is(err, store.ErrCodeExists) {
			log.Debug("album code collided at insert, regenerating",
				slog.String("code", album.Code))
			continue
		}
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, NewServiceError("create_album", "failed to store album", err)
	}
}

// ListAlbums implements AlbumService.ListAlbums.
func (s *albumServiceImpl) ListAlbums(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*store.AlbumWithCounts, *AlbumStats, error) {
	albums, err := s.albums.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, NewServiceError("list_albums", "failed to list albums", err)
	}

	stats := &AlbumStats{TotalAlbums: len(albums)}
	for _, a := range albums {
		stats.TotalChallenges += a.ChallengeCount
		stats.TotalMemories += a.MemoryCount
	}

	return albums, stats, nil
}

// FindByCode implements AlbumService.FindByCode.
func (s *albumServiceImpl) FindByCode(ctx context.Context, code string) (*domain.Album, error) {
	album, err := s.albums.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, NewServiceError("find_by_code", "failed to look up album", err)
	}
	return album, nil
}

// UpdateBgImage implements AlbumService.UpdateBgImage.
func (s *albumServiceImpl) UpdateBgImage(ctx context.Context, actorID, albumID uuid.UUID, bgImage string) error {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return ErrAlbumNotFound
		}
		return NewServiceError("update_bg_image", "failed to load album", err)
	}

	if album.UserID != actorID {
		return fmt.Errorf("%w: album %s", ErrNotAlbumOwner, albumID)
	}

	if err := s.albums.UpdateBgImage(ctx, albumID, bgImage); err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return ErrAlbumNotFound
		}
		return NewServiceError("update_bg_image", "failed to update album", err)
	}

	return nil
}
