package api

import (
	"log/slog"
	"net/http"

	"github.com/keepsakehq/keepsake-api/internal/api/shared"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/service"
)

// AlbumHandler handles album-related HTTP requests.
type AlbumHandler struct {
	albumService service.AlbumService
	shareBaseURL string
	logger       *slog.Logger
}

// NewAlbumHandler creates a new AlbumHandler.
// shareBaseURL, when set, is prefixed to album codes to build shareable links.
func NewAlbumHandler(
	albumService service.AlbumService,
	shareBaseURL string,
	logger *slog.Logger,
) *AlbumHandler {
	if albumService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("albumService cannot be nil for AlbumHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AlbumHandler{
		albumService: albumService,
		shareBaseURL: shareBaseURL,
		logger:       logger.With(slog.String("component", "album_handler")),
	}
}

// CreateAlbum handles POST /albums requests.
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateAlbumRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	album, err := h.albumService.CreateAlbum(r.Context(), userID, req.Title, req.Description, req.Category)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to create album", err)
		return
	}

	log.Debug("album created",
		slog.String("album_id", album.ID.String()),
		slog.String("code", album.Code))
	shared.RespondWithJSON(w, r, http.StatusCreated, h.albumToResponse(album, 0, 0))
}

// ListAlbums handles GET /albums requests.
// It returns the authenticated user's albums with per-album counts and
// aggregate stats.
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	albums, stats, err := h.albumService.ListAlbums(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list albums", err)
		return
	}

	response := ListAlbumsResponse{
		Albums: make([]AlbumResponse, 0, len(albums)),
		Stats:  stats,
	}
	for _, a := range albums {
		response.Albums = append(response.Albums, h.albumToResponse(a.Album, a.ChallengeCount, a.MemoryCount))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// FindByCode handles POST /albums/find requests.
// It looks an album up by its shareable short code, with challenges and
// memories included. The endpoint is public: guests resolve shared codes
// without an account.
func (h *AlbumHandler) FindByCode(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req FindByCodeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	album, err := h.albumService.FindByCode(r.Context(), req.Code)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("album resolved by code", slog.String("album_id", album.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, album)
}

// UpdateBgImage handles PATCH /albums/{id}/bg-image requests.
func (h *AlbumHandler) UpdateBgImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, albumID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateBgImageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.albumService.UpdateBgImage(r.Context(), userID, albumID, req.BgImage); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("album background updated", slog.String("album_id", albumID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// albumToResponse converts a domain.Album plus counts into an AlbumResponse.
func (h *AlbumHandler) albumToResponse(a *domain.Album, challenges, memories int) AlbumResponse {
	resp := AlbumResponse{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		Category:       a.Category,
		Code:           a.Code,
		BgImage:        a.BgImage,
		ChallengeCount: challenges,
		MemoryCount:    memories,
		CreatedAt:      a.CreatedAt,
	}
	if h.shareBaseURL != "" {
		resp.ShareURL = h.shareBaseURL + "/" + a.Code
	}
	return resp
}
