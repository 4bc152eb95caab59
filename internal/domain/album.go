package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CodeLength is the length of an album's shareable short code.
const CodeLength = 6

// Album-specific validation errors
var (
	ErrAlbumIDEmpty      = errors.New("album ID cannot be empty")
	ErrAlbumUserIDEmpty  = errors.New("album user ID cannot be empty")
	ErrAlbumTitleEmpty   = errors.New("album title cannot be empty")
	ErrAlbumTitleTooLong = errors.New("album title cannot exceed 255 characters")
	ErrAlbumCodeInvalid  = errors.New("album code must be 6 uppercase alphanumeric characters")
)

// Album represents a shareable collection of challenges and memories.
// Albums are identified out-of-band by a short code that the owner shares
// with participants.
type Album struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category"`
	Code               string    `json:"code"`
	BgImage            string    `json:"bg_image,omitempty"`
	AllowCollaborators bool      `json:"allow_collaborators"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Challenges holds the album's challenges when loaded eagerly.
	// It is nil for albums loaded without their children.
	Challenges []*Challenge `json:"challenges,omitempty"`
}

// NewAlbum creates a new Album owned by the given user.
// The short code must already be generated and checked for uniqueness by the
// caller; the persistence layer's unique index remains the final guarantor.
// Returns an error if validation fails.
func NewAlbum(userID uuid.UUID, title, description, category, code string) (*Album, error) {
	album := &Album{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Category:    category,
		Code:        code,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := album.Validate(); err != nil {
		return nil, err
	}

	return album, nil
}

// Validate checks if the Album has valid data.
// Returns an error if any field fails validation.
func (a *Album) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAlbumIDEmpty
	}

	if a.UserID == uuid.Nil {
		return ErrAlbumUserIDEmpty
	}

	if a.Title == "" {
		return ErrAlbumTitleEmpty
	}

	if len(a.Title) > 255 {
		return ErrAlbumTitleTooLong
	}

	if !ValidCode(a.Code) {
		return ErrAlbumCodeInvalid
	}

	return nil
}

// TotalChallenges returns the number of challenges loaded on the album.
func (a *Album) TotalChallenges() int {
	return len(a.Challenges)
}

// TotalMemories returns the number of memories across all loaded challenges.
func (a *Album) TotalMemories() int {
	total := 0
	for _, c := range a.Challenges {
		total += len(c.Memories)
	}
	return total
}

// ValidCode reports whether s is a well-formed album short code:
// exactly CodeLength uppercase alphanumeric characters.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
