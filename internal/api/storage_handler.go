package api

import (
	"log/slog"
	"net/http"

	"github.com/keepsakehq/keepsake-api/internal/api/shared"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/platform/supabase"
)

// StorageHandler handles signed-upload HTTP requests.
type StorageHandler struct {
	storage *supabase.Client
	logger  *slog.Logger
}

// NewStorageHandler creates a new StorageHandler.
func NewStorageHandler(storage *supabase.Client, logger *slog.Logger) *StorageHandler {
	if storage == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("storage cannot be nil for StorageHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StorageHandler{
		storage: storage,
		logger:  logger.With(slog.String("component", "storage_handler")),
	}
}

// SignUpload handles POST /storage/sign-upload requests.
// It returns a short-lived signed URL the client uploads the file to
// directly, plus the object's eventual public URL. The file itself never
// passes through this server.
func (h *StorageHandler) SignUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := getUserIDFromContext(r); !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req SignUploadRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	signed, err := h.storage.SignUpload(r.Context(), req.Name)
	if err != nil {
		log.Error("failed to sign upload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadGateway, "Failed to prepare upload")
		return
	}

	log.Debug("upload signed", slog.String("path", signed.Path))
	shared.RespondWithJSON(w, r, http.StatusOK, signed)
}
