package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// UserResponse is the public shape of a user account. The hashed password
// never appears here.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateAlbumRequest defines the payload for album creation.
type CreateAlbumRequest struct {
	Title       string `json:"title"       validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category"    validate:"required,max=100"`
}

// AlbumResponse represents a single album in API responses.
type AlbumResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	Code           string    `json:"code"`
	BgImage        string    `json:"bg_image,omitempty"`
	ShareURL       string    `json:"share_url,omitempty"`
	ChallengeCount int       `json:"challenge_count"`
	MemoryCount    int       `json:"memory_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListAlbumsResponse defines the owner album listing payload.
type ListAlbumsResponse struct {
	Albums []AlbumResponse     `json:"albums"`
	Stats  *service.AlbumStats `json:"stats"`
}

// UpdateBgImageRequest defines the payload for setting an album background image.
type UpdateBgImageRequest struct {
	BgImage string `json:"bg_image" validate:"required,max=1024"`
}

// FindByCodeRequest defines the payload for looking an album up by short code.
type FindByCodeRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// CreateChallengeRequest defines the payload for challenge creation and update.
type CreateChallengeRequest struct {
	Question   string `json:"question"    validate:"required,min=5"`
	AnswerKind string `json:"answer_type" validate:"required,oneof=text date exact"`
	Answer     string `json:"answer"      validate:"required"`
}

// ChallengeResponse represents a challenge in API responses.
// The stored answer is never included.
type ChallengeResponse struct {
	ID         uuid.UUID        `json:"id"`
	AlbumID    uuid.UUID        `json:"album_id"`
	Question   string           `json:"question"`
	AnswerKind string           `json:"answer_type"`
	CreatedAt  time.Time        `json:"created_at"`
	Memories   []MemoryResponse `json:"memories,omitempty"`
}

// ValidateAnswerRequest defines the payload for answer validation.
// The answer may be any JSON scalar; coercion happens in the domain layer.
type ValidateAnswerRequest struct {
	Answer any `json:"answer"`
}

// ValidateAnswerResponse defines the answer validation payload.
// Challenge and Memories appear only on a correct answer.
type ValidateAnswerResponse struct {
	Correct   bool               `json:"correct"`
	Challenge *ChallengeResponse `json:"challenge,omitempty"`
	Memories  []MemoryResponse   `json:"memories,omitempty"`
}

// CreateMemoryRequest defines the payload for memory creation.
type CreateMemoryRequest struct {
	Kind     string `json:"type"      validate:"required,oneof=photo video note"`
	FilePath string `json:"file_path" validate:"max=1024"`
	Note     string `json:"note"      validate:"max=5000"`
}

// MemoryResponse represents a memory in API responses.
type MemoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"type"`
	FilePath  string    `json:"file_path,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SignUploadRequest defines the payload for requesting a signed upload URL.
type SignUploadRequest struct {
	Name        string `json:"name"         validate:"max=255"`
	ContentType string `json:"content_type" validate:"max=255"`
}

// challengeToResponse converts a domain.Challenge to a ChallengeResponse.
func challengeToResponse(c *domain.Challenge) *ChallengeResponse {
	resp := &ChallengeResponse{
		ID:         c.ID,
		AlbumID:    c.AlbumID,
		Question:   c.Question,
		AnswerKind: string(c.AnswerKind),
		CreatedAt:  c.CreatedAt,
	}
	for _, m := range c.Memories {
		resp.Memories = append(resp.Memories, memoryToResponse(m))
	}
	return resp
}

// userToResponse converts a domain.User to a UserResponse.
func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// memoryToResponse converts a domain.Memory to a MemoryResponse.
func memoryToResponse(m *domain.Memory) MemoryResponse {
	return MemoryResponse{
		ID:        m.ID,
		Kind:      string(m.Kind),
		FilePath:  m.FilePath,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}
