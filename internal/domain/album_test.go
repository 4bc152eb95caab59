package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewAlbum(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	album, err := NewAlbum(userID, "Summer 2020", "Our trip", "travel", "AB12CD")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if album.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if album.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, album.UserID)
	}

	if album.Code != "AB12CD" {
		t.Errorf("Expected code AB12CD, got %s", album.Code)
	}

	if album.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test invalid userID
	if _, err := NewAlbum(uuid.Nil, "Title", "", "travel", "AB12CD"); err != ErrAlbumUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrAlbumUserIDEmpty, err)
	}

	// Test empty title
	if _, err := NewAlbum(userID, "", "", "travel", "AB12CD"); err != ErrAlbumTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrAlbumTitleEmpty, err)
	}

	// Test overlong title
	longTitle := strings.Repeat("a", 256)
	if _, err := NewAlbum(userID, longTitle, "", "travel", "AB12CD"); err != ErrAlbumTitleTooLong {
		t.Errorf("Expected error %v, got %v", ErrAlbumTitleTooLong, err)
	}

	// Test invalid code
	if _, err := NewAlbum(userID, "Title", "", "travel", "ab12cd"); err != ErrAlbumCodeInvalid {
		t.Errorf("Expected error %v, got %v", ErrAlbumCodeInvalid, err)
	}
}

func TestValidCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{"AB12CD", true},
		{"ZZZZZZ", true},
		{"000000", true},
		{"ab12cd", false},
		{"AB12C", false},
		{"AB12CDE", false},
		{"AB 2CD", false},
		{"AB-2CD", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := ValidCode(tc.code); got != tc.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestAlbumCounts(t *testing.T) {
	t.Parallel()

	album := &Album{ID: uuid.New()}

	if album.TotalChallenges() != 0 {
		t.Errorf("Expected 0 challenges, got %d", album.TotalChallenges())
	}
	if album.TotalMemories() != 0 {
		t.Errorf("Expected 0 memories, got %d", album.TotalMemories())
	}

	album.Challenges = []*Challenge{
		{ID: uuid.New(), Memories: []*Memory{{ID: uuid.New()}, {ID: uuid.New()}}},
		{ID: uuid.New(), Memories: []*Memory{{ID: uuid.New()}}},
		{ID: uuid.New()},
	}

	if album.TotalChallenges() != 3 {
		t.Errorf("Expected 3 challenges, got %d", album.TotalChallenges())
	}
	if album.TotalMemories() != 3 {
		t.Errorf("Expected 3 memories, got %d", album.TotalMemories())
	}
}
