package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CompletedAlbum validation errors
var (
	ErrCompletedUserIDEmpty  = errors.New("completed album user ID cannot be empty")
	ErrCompletedAlbumIDEmpty = errors.New("completed album album ID cannot be empty")
)

// CompletedAlbum records that a user has fully unlocked an album.
// At most one record exists per (user, album) pair; repeated completions
// refresh the timestamp via upsert rather than creating additional rows.
type CompletedAlbum struct {
	UserID      uuid.UUID `json:"user_id"`
	AlbumID     uuid.UUID `json:"album_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewCompletedAlbum creates a completion record for the given user and album.
// Returns an error if validation fails.
func NewCompletedAlbum(userID, albumID uuid.UUID, completedAt time.Time) (*CompletedAlbum, error) {
	record := &CompletedAlbum{
		UserID:      userID,
		AlbumID:     albumID,
		CompletedAt: completedAt,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the CompletedAlbum has valid data.
func (c *CompletedAlbum) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrCompletedUserIDEmpty
	}

	if c.AlbumID == uuid.Nil {
		return ErrCompletedAlbumIDEmpty
	}

	return nil
}
