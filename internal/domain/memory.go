package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MemoryKind identifies the type of artifact a memory holds.
type MemoryKind string

// Supported memory kinds.
const (
	MemoryKindPhoto MemoryKind = "photo"
	MemoryKindVideo MemoryKind = "video"
	MemoryKindNote  MemoryKind = "note"
)

// IsValid reports whether the memory kind is one of the supported kinds.
func (k MemoryKind) IsValid() bool {
	switch k {
	case MemoryKindPhoto, MemoryKindVideo, MemoryKindNote:
		return true
	}
	return false
}

// Memory-specific validation errors
var (
	ErrMemoryIDEmpty          = errors.New("memory ID cannot be empty")
	ErrMemoryChallengeIDEmpty = errors.New("memory challenge ID cannot be empty")
	ErrMemoryContentEmpty     = errors.New("memory must have a file reference or a note")
)

// Memory represents an unlocked artifact (photo, video, or note) attached to
// a challenge. Memories are created only after a correct answer is submitted;
// that convention is enforced by the caller, not by the data layer.
type Memory struct {
	ID          uuid.UUID  `json:"id"`
	ChallengeID uuid.UUID  `json:"challenge_id"`
	Kind        MemoryKind `json:"type"`
	FilePath    string     `json:"file_path,omitempty"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewMemory creates a new Memory under the given challenge.
// Returns an error if validation fails.
func NewMemory(challengeID uuid.UUID, kind MemoryKind, filePath, note string) (*Memory, error) {
	memory := &Memory{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		Kind:        kind,
		FilePath:    filePath,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := memory.Validate(); err != nil {
		return nil, err
	}

	return memory, nil
}

// Validate checks if the Memory has valid data.
// Returns an error if any field fails validation.
func (m *Memory) Validate() error {
	if m.ID == uuid.Nil {
		return ErrMemoryIDEmpty
	}

	if m.ChallengeID == uuid.Nil {
		return ErrMemoryChallengeIDEmpty
	}

	if !m.Kind.IsValid() {
		return ErrInvalidMemoryKind
	}

	if m.FilePath == "" && m.Note == "" {
		return ErrMemoryContentEmpty
	}

	return nil
}
