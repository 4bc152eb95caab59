package api

import (
	"log/slog"
	"net/http"

	"github.com/keepsakehq/keepsake-api/internal/api/shared"
	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
	"github.com/keepsakehq/keepsake-api/internal/service"
)

// MemoryHandler handles memory-related HTTP requests.
type MemoryHandler struct {
	memoryService service.MemoryService
	logger        *slog.Logger
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(memoryService service.MemoryService, logger *slog.Logger) *MemoryHandler {
	if memoryService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("memoryService cannot be nil for MemoryHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryHandler{
		memoryService: memoryService,
		logger:        logger.With(slog.String("component", "memory_handler")),
	}
}

// CreateMemory handles POST /challenges/{id}/memories requests.
// Clients call this after a correct answer unlocked the challenge; the file
// referenced by file_path must already be uploaded via the storage endpoint.
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, challengeID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CreateMemoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	memory, err := h.memoryService.CreateMemory(
		r.Context(), challengeID, domain.MemoryKind(req.Kind), req.FilePath, req.Note)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("memory created",
		slog.String("memory_id", memory.ID.String()),
		slog.String("challenge_id", challengeID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, memoryToResponse(memory))
}
