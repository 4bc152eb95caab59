package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/service/completion"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// ValidateResult is the outcome of an answer validation.
// Challenge and Memories are populated only when the answer was correct.
type ValidateResult struct {
	Correct   bool
	Challenge *domain.Challenge
	Memories  []*domain.Memory
}

// ChallengeSummary aggregates per-kind challenge counts for an album,
// returned alongside album challenge listings.
type ChallengeSummary struct {
	TotalChallenges int `json:"total_challenges"`
	TotalMemories   int `json:"total_memories"`
	TotalText       int `json:"total_text"`
	TotalDate       int `json:"total_date"`
	TotalExact      int `json:"total_exact"`
}

// ChallengeService provides challenge-related operations.
type ChallengeService interface {
	// CreateChallenge creates a new challenge under the album.
	CreateChallenge(ctx context.Context, albumID uuid.UUID, question string, kind domain.AnswerKind, answer string) (*domain.Challenge, error)

	// GetChallenge retrieves a challenge with its memories.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)

	// UpdateChallenge replaces the challenge's question, answer kind, and answer.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	UpdateChallenge(ctx context.Context, id uuid.UUID, question string, kind domain.AnswerKind, answer string) (*domain.Challenge, error)

	// DeleteChallenge removes a challenge and its memories.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	DeleteChallenge(ctx context.Context, id uuid.UUID) error

	// ListAlbumChallenges retrieves an album with challenges and memories
	// loaded, plus summary counts.
	// Returns ErrAlbumNotFound if the album does not exist.
	ListAlbumChallenges(ctx context.Context, albumID uuid.UUID) (*domain.Album, *ChallengeSummary, error)

	// ValidateAnswer evaluates a submitted answer against the challenge.
	// Evaluation is total: a wrong, missing, or malformed answer yields
	// Correct=false, never an error. On a correct answer the completion
	// tracker runs as a best-effort side effect for the acting user; tracker
	// failures are logged and swallowed so they can never fail the response.
	// An unauthenticated caller (actorID = uuid.Nil) skips nothing: the
	// tracker still evaluates the counts and reports the unresolvable user
	// as a swallowed failure.
	// Returns ErrChallengeNotFound if the challenge does not exist.
	ValidateAnswer(ctx context.Context, challengeID uuid.UUID, submitted any, actorID uuid.UUID) (*ValidateResult, error)
}

// challengeServiceImpl implements the ChallengeService interface.
type challengeServiceImpl struct {
	challenges store.ChallengeStore
	albums     store.AlbumStore
	tracker    completion.Tracker
	logger     *slog.Logger
}

// Verify interface compliance at compile time
var _ ChallengeService = (*challengeServiceImpl)(nil)

// NewChallengeService creates a new ChallengeService implementation.
func NewChallengeService(
	challenges store.ChallengeStore,
	albums store.AlbumStore,
	tracker completion.Tracker,
	logger *slog.Logger,
) ChallengeService {
	if challenges == nil {
		panic("challenges cannot be nil")
	}
	if albums == nil {
		panic("albums cannot be nil")
	}
	if tracker == nil {
		panic("tracker cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &challengeServiceImpl{
		challenges: challenges,
		albums:     albums,
		tracker:    tracker,
		logger:     logger.With(slog.String("component", "challenge_service")),
	}
}

// CreateChallenge implements ChallengeService.CreateChallenge.
func (s *challengeServiceImpl) CreateChallenge(
	ctx context.Context,
	albumID uuid.UUID,
	question string,
	kind domain.AnswerKind,
	answer string,
) (*domain.Challenge, error) {
	challenge, err := domain.NewChallenge(albumID, question, kind, answer)
	if err != nil {
		return nil, NewServiceError("create_challenge", "invalid challenge data", err)
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrAlbumNotFound
		}
		return nil, NewServiceError("create_challenge", "failed to store challenge", err)
	}

	return challenge, nil
}

// GetChallenge implements ChallengeService.GetChallenge.
func (s *challengeServiceImpl) GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	challenge, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, NewServiceError("get_challenge", "failed to load challenge", err)
	}
	return challenge, nil
}

// UpdateChallenge implements ChallengeService.UpdateChallenge.
func (s *challengeServiceImpl) UpdateChallenge(
	ctx context.Context,
	id uuid.UUID,
	question string,
	kind domain.AnswerKind,
	answer string,
) (*domain.Challenge, error) {
	challenge, err := s.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}

	challenge.Question = question
	challenge.AnswerKind = kind
	challenge.Answer = answer

	if err := s.challenges.Update(ctx, challenge); err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, NewServiceError("update_challenge", "failed to update challenge", err)
	}

	return challenge, nil
}

// DeleteChallenge implements ChallengeService.DeleteChallenge.
func (s *challengeServiceImpl) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	if err := s.challenges.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			return ErrChallengeNotFound
		}
		return NewServiceError("delete_challenge", "failed to delete challenge", err)
	}
	return nil
}

// ListAlbumChallenges implements ChallengeService.ListAlbumChallenges.
func (s *challengeServiceImpl) ListAlbumChallenges(
	ctx context.Context,
	albumID uuid.UUID,
) (*domain.Album, *ChallengeSummary, error) {
	album, err := s.albums.GetByIDWithChallenges(ctx, albumID)
	if err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return nil, nil, ErrAlbumNotFound
		}
		return nil, nil, NewServiceError("list_album_challenges", "failed to load album", err)
	}

	summary := &ChallengeSummary{
		TotalChallenges: album.TotalChallenges(),
		TotalMemories:   album.TotalMemories(),
	}
	for _, c := range album.Challenges {
		switch c.AnswerKind {
		case domain.AnswerKindText:
			summary.TotalText++
		case domain.AnswerKindDate:
			summary.TotalDate++
		case domain.AnswerKindExact:
			summary.TotalExact++
		}
	}

	return album, summary, nil
}

// ValidateAnswer implements ChallengeService.ValidateAnswer.
func (s *challengeServiceImpl) ValidateAnswer(
	ctx context.Context,
	challengeID uuid.UUID,
	submitted any,
	actorID uuid.UUID,
) (*ValidateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, store.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, NewServiceError("validate_answer", "failed to load challenge", err)
	}

	if !challenge.CheckAnswer(submitted) {
		log.Debug("incorrect answer submitted",
			slog.String("challenge_id", challengeID.String()))
		return &ValidateResult{Correct: false}, nil
	}

	// Completion tracking is a best-effort enhancement: any failure here is
	// logged and swallowed so the correct-answer response stays intact.
	s.trackCompletion(ctx, actorID, challenge.AlbumID)

	return &ValidateResult{
		Correct:   true,
		Challenge: challenge,
		Memories:  challenge.Memories,
	}, nil
}

// trackCompletion loads the album with its counts and runs the completion
// tracker for the acting user. All failures are logged, never returned.
func (s *challengeServiceImpl) trackCompletion(ctx context.Context, actorID, albumID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	album, err := s.albums.GetByIDWithChallenges(ctx, albumID)
	if err != nil {
		log.Warn("could not load album for completion tracking",
			slog.String("error", err.Error()),
			slog.String("album_id", albumID.String()))
		return
	}

	outcome, err := s.tracker.MaybeMarkCompleted(ctx, actorID, album)
	if err != nil {
		log.Warn("could not mark album as completed",
			slog.String("error", err.Error()),
			slog.String("album_id", albumID.String()),
			slog.Int("total_challenges", outcome.TotalChallenges),
			slog.Int("total_memories", outcome.TotalMemories))
	}
}
