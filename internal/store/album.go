package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
)

// AlbumWithCounts pairs an album with its aggregate child counts,
// used for owner listings.
type AlbumWithCounts struct {
	Album          *domain.Album
	ChallengeCount int
	MemoryCount    int
}

// AlbumStore defines the interface for album data persistence.
type AlbumStore interface {
	// Create saves a new album to the store.
	// Returns ErrCodeExists if the short code is already taken; callers
	// regenerate the code and retry, since two concurrent creations can both
	// pass the pre-check before either commits.
	Create(ctx context.Context, album *domain.Album) error

	// GetByID retrieves an album by its unique ID without child entities.
	// Returns ErrAlbumNotFound if the album does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error)

	// GetByIDWithChallenges retrieves an album together with all of its
	// challenges and, transitively, all memories under those challenges.
	// Returns ErrAlbumNotFound if the album does not exist.
	GetByIDWithChallenges(ctx context.Context, id uuid.UUID) (*domain.Album, error)

	// GetByCode retrieves an album by its short code, eager-loading challenges
	// and memories. Returns ErrAlbumNotFound if no album has the code.
	GetByCode(ctx context.Context, code string) (*domain.Album, error)

	// ListByOwner retrieves all albums owned by the given user together with
	// per-album challenge and memory counts.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*AlbumWithCounts, error)

	// UpdateBgImage sets the album's background image reference.
	// Returns ErrAlbumNotFound if the album does not exist.
	UpdateBgImage(ctx context.Context, id uuid.UUID, bgImage string) error

	// CodeExists reports whether any album already uses the given short code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// DB returns the underlying database handle, for use with
	// RunInTransaction.
	DB() *sql.DB

	// WithTx returns an AlbumStore bound to the given transaction.
	// Pair it with RunInTransaction so the code pre-check and the insert
	// share one transaction.
	WithTx(tx *sql.Tx) AlbumStore
}
