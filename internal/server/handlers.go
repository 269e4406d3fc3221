package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/solerv/socialvid-api/internal/blurhash"
	"github.com/solerv/socialvid-api/internal/download"
	"github.com/solerv/socialvid-api/internal/media"
	"github.com/solerv/socialvid-api/internal/pipeline"
	"github.com/solerv/socialvid-api/internal/platform"
	"github.com/solerv/socialvid-api/internal/scrape"
	"github.com/solerv/socialvid-api/internal/storage"
)

// VideoProcessor is the pipeline operation consumed by the HTTP layer.
type VideoProcessor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   VideoProcessor
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service VideoProcessor, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// DownloadVideo handles POST /api/v1/social-media/download requests.
// The caller blocks until the pipeline completes or fails.
func (h *Handlers) DownloadVideo(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "a valid url is required")
		return
	}

	result, err := h.service.Process(r.Context(), pipeline.Request{OriginalURL: req.URL})
	if err != nil {
		h.writePipelineError(w, req.URL, err)
		return
	}

	writeJSON(w, http.StatusOK, DownloadResponse{
		Success: true,
		Data:    result,
	})
}

// writePipelineError maps a pipeline failure to an HTTP status. Unanticipated
// failures become a generic internal error without leaking internal detail.
func (h *Handlers) writePipelineError(w http.ResponseWriter, url string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "a valid url is required")
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		writeError(w, http.StatusBadRequest, "unsupported or invalid social media URL")
	case errors.Is(err, scrape.ErrNoVideoURL):
		writeError(w, http.StatusNotFound, "no direct video URL found for this post")
	case errors.Is(err, scrape.ErrUpstreamMetadata):
		writeError(w, http.StatusBadGateway, "failed to fetch video metadata")
	case errors.Is(err, download.ErrDownloadFailed):
		writeError(w, http.StatusInternalServerError, "failed to download video")
	case errors.Is(err, media.ErrExtractionFailed):
		writeError(w, http.StatusInternalServerError, "failed to extract thumbnail")
	case errors.Is(err, blurhash.ErrHashFailed):
		writeError(w, http.StatusInternalServerError, "failed to generate blur hash")
	case errors.Is(err, storage.ErrUploadFailed):
		writeError(w, http.StatusInternalServerError, "failed to upload file to storage")
	default:
		h.logger.Error("pipeline failed",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Message: message,
	})
}
