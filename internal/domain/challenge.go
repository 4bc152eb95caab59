package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AnswerKind determines how a submitted answer is compared against the
// challenge's stored answer.
type AnswerKind string

// Supported answer kinds.
const (
	// AnswerKindText compares answers case-insensitively with surrounding
	// whitespace trimmed.
	AnswerKindText AnswerKind = "text"

	// AnswerKindExact shares AnswerKindText's normalization; the two kinds
	// are distinguished only for client presentation.
	AnswerKindExact AnswerKind = "exact"

	// AnswerKindDate compares answers byte-for-byte with no normalization.
	// Format consistency is the submitting client's responsibility.
	AnswerKindDate AnswerKind = "date"
)

// IsValid reports whether the answer kind is one of the supported kinds.
func (k AnswerKind) IsValid() bool {
	switch k {
	case AnswerKindText, AnswerKindExact, AnswerKindDate:
		return true
	}
	return false
}

// Challenge-specific validation errors
var (
	ErrChallengeIDEmpty          = errors.New("challenge ID cannot be empty")
	ErrChallengeAlbumIDEmpty     = errors.New("challenge album ID cannot be empty")
	ErrChallengeQuestionTooShort = errors.New("challenge question must be at least 5 characters")
	ErrChallengeAnswerEmpty      = errors.New("challenge answer cannot be empty")
)

// Challenge represents a question gating access to memories.
// A correct answer unlocks the challenge's memories for the submitting user.
type Challenge struct {
	ID         uuid.UUID  `json:"id"`
	AlbumID    uuid.UUID  `json:"album_id"`
	Question   string     `json:"question"`
	AnswerKind AnswerKind `json:"answer_type"`
	Answer     string     `json:"-"` // Never expose the stored answer in JSON
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Memories holds the challenge's memories when loaded eagerly.
	Memories []*Memory `json:"memories,omitempty"`
}

// NewChallenge creates a new Challenge under the given album.
// Returns an error if validation fails.
func NewChallenge(albumID uuid.UUID, question string, kind AnswerKind, answer string) (*Challenge, error) {
	challenge := &Challenge{
		ID:         uuid.New(),
		AlbumID:    albumID,
		Question:   question,
		AnswerKind: kind,
		Answer:     answer,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := challenge.Validate(); err != nil {
		return nil, err
	}

	return challenge, nil
}

// Validate checks if the Challenge has valid data.
// Returns an error if any field fails validation.
func (c *Challenge) Validate() error {
	if c.ID == uuid.Nil {
		return ErrChallengeIDEmpty
	}

	if c.AlbumID == uuid.Nil {
		return ErrChallengeAlbumIDEmpty
	}

	if len(c.Question) < 5 {
		return ErrChallengeQuestionTooShort
	}

	if !c.AnswerKind.IsValid() {
		return ErrInvalidAnswerKind
	}

	if c.Answer == "" {
		return ErrChallengeAnswerEmpty
	}

	return nil
}

// CheckAnswer reports whether the submitted answer matches the challenge's
// stored answer under the challenge's answer kind rules.
func (c *Challenge) CheckAnswer(submitted any) bool {
	return EvaluateAnswer(c.AnswerKind, c.Answer, submitted)
}
