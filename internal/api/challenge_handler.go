package api

import (
	"log/slog"
	"net/http"

	"github.com/keepsakehq/keepsake-api/internal/api/shared"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/service"
)

// ChallengeHandler handles challenge-related HTTP requests, including
// answer validation.
type ChallengeHandler struct {
	challengeService service.ChallengeService
	logger           *slog.Logger
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(
	challengeService service.ChallengeService,
	logger *slog.Logger,
) *ChallengeHandler {
	if challengeService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("challengeService cannot be nil for ChallengeHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChallengeHandler{
		challengeService: challengeService,
		logger:           logger.With(slog.String("component", "challenge_handler")),
	}
}

// CreateChallenge handles POST /albums/{id}/challenges requests.
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, albumID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	req, ok := h.decodeChallengeRequest(w, r)
	if !ok {
		return
	}

	challenge, err := h.challengeService.CreateChallenge(
		r.Context(), albumID, req.Question, domain.AnswerKind(req.AnswerKind), req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("challenge created",
		slog.String("challenge_id", challenge.ID.String()),
		slog.String("album_id", albumID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, challengeToResponse(challenge))
}

// ListAlbumChallenges handles GET /albums/{id}/challenges requests.
// It returns the album with its challenges and per-kind summary counts.
func (h *ChallengeHandler) ListAlbumChallenges(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, albumID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	album, summary, err := h.challengeService.ListAlbumChallenges(r.Context(), albumID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	challenges := make([]*ChallengeResponse, 0, len(album.Challenges))
	for _, c := range album.Challenges {
		challenges = append(challenges, challengeToResponse(c))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Challenges []*ChallengeResponse      `json:"challenges"`
		Summary    *service.ChallengeSummary `json:"summary"`
	}{
		Challenges: challenges,
		Summary:    summary,
	})
}

// GetChallenge handles GET /challenges/{id} requests.
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, challengeID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	challenge, err := h.challengeService.GetChallenge(r.Context(), challengeID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, challengeToResponse(challenge))
}

// UpdateChallenge handles PUT /challenges/{id} requests.
func (h *ChallengeHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, challengeID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	req, ok := h.decodeChallengeRequest(w, r)
	if !ok {
		return
	}

	challenge, err := h.challengeService.UpdateChallenge(
		r.Context(), challengeID, req.Question, domain.AnswerKind(req.AnswerKind), req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("challenge updated", slog.String("challenge_id", challengeID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, challengeToResponse(challenge))
}

// DeleteChallenge handles DELETE /challenges/{id} requests.
func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, challengeID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.challengeService.DeleteChallenge(r.Context(), challengeID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("challenge deleted", slog.String("challenge_id", challengeID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ValidateAnswer handles POST /challenges/{id}/validate requests.
// A wrong or malformed answer yields a 200 with correct=false, never an
// error status. The endpoint accepts anonymous callers: only the challenge
// lookup can fail.
func (h *ChallengeHandler) ValidateAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	challengeID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ValidateAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Anonymous callers validate with a nil actor; completion tracking then
	// has nothing to record.
	actorID, _ := getUserIDFromContext(r)

	result, err := h.challengeService.ValidateAnswer(r.Context(), challengeID, req.Answer, actorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := ValidateAnswerResponse{Correct: result.Correct}
	if result.Correct {
		response.Challenge = challengeToResponse(result.Challenge)
		for _, m := range result.Memories {
			response.Memories = append(response.Memories, memoryToResponse(m))
		}
	}

	log.Debug("answer validated",
		slog.String("challenge_id", challengeID.String()),
		slog.Bool("correct", result.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// decodeChallengeRequest parses and validates the shared create/update
// challenge payload, writing the error response on failure.
func (h *ChallengeHandler) decodeChallengeRequest(
	w http.ResponseWriter,
	r *http.Request,
) (CreateChallengeRequest, bool) {
	var req CreateChallengeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return req, false
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return req, false
	}

	return req, true
}
