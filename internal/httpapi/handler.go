package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forPelevin/hlgrab/internal/platform/logger"
	"github.com/forPelevin/hlgrab/internal/platform/metrics"
	"github.com/forPelevin/hlgrab/internal/types"
	"github.com/forPelevin/hlgrab/internal/usecase"
)

const maxBodyBytes = 1 << 16

// Extractor is the pipeline entry point the handler needs.
type Extractor interface {
	ExtractHighlights(ctx context.Context, sourceURL string) (types.Result, error)
}

type Handler struct {
	ex      Extractor
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler. Metrics may be nil to disable metric
// recording (e.g. in tests).
func NewHandler(ex Extractor, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{ex: ex, log: log, metrics: m}
}

type extractRequest struct {
	URL string `json:"url"`
}

type extractResponse struct {
	ClipPaths []string `json:"clipPaths"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ExtractHighlights handles POST /api/highlights.
// Body: { "url": "https://..." }.
func (h *Handler) ExtractHighlights(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.log.Debug("invalid extract body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url is required"})
		return
	}

	var done func(string)
	if h.metrics != nil {
		done = h.metrics.ExtractionStarted()
	}
	res, err := h.ex.ExtractHighlights(r.Context(), req.URL)
	kind := usecase.Kind(err)
	if done != nil {
		done(kind)
	}

	if err != nil {
		h.log.Error("extract highlights failed",
			slog.String("request_id", logger.RequestID(r.Context())),
			slog.String("source", req.URL),
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		writeJSON(w, statusFor(err), errorResponse{
			Error:   "failed to process video",
			Details: err.Error(),
		})
		return
	}

	h.log.Info("highlights ready",
		slog.String("request_id", logger.RequestID(r.Context())),
		slog.String("source", req.URL),
		slog.Int("clips", len(res.Clips)),
	)
	writeJSON(w, http.StatusOK, extractResponse{ClipPaths: res.ClipPaths()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrSourceUnavailable), errors.Is(err, usecase.ErrArtifactMissing):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrProbeFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrClipGeneration):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
