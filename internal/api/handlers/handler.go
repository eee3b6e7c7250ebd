package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/agent"
	"github.com/Siddiha/Amp/internal/cache"
	apperror "github.com/Siddiha/Amp/internal/error"
	"github.com/Siddiha/Amp/internal/history"
)

// ChatRequest is the inbound payload for a conversation turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply payload.
type ChatResponse struct {
	Response string `json:"response"`
}

// Handler serves the HTTP and WebSocket surface. The agent requires
// serialized turns, so every Process call goes through one mutex; the cache
// and history store are safe to read concurrently.
type Handler struct {
	mu       sync.Mutex
	agent    *agent.Agent
	store    *cache.Cache
	plays    *history.Store // optional
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// ------------------------------------------------------------------------------------------------------
func NewHandler(a *agent.Agent, store *cache.Cache, plays *history.Store, logger *zap.Logger) *Handler {
	return &Handler{
		agent:  a,
		store:  store,
		plays:  plays,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ------------------------------------------------------------------------------------------------------
// process runs one serialized conversation turn.
func (h *Handler) process(r *http.Request, message string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.agent.Process(r.Context(), message)
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// ------------------------------------------------------------------------------------------------------
// CacheStatsHandler exposes the shared cache counters as a read-only
// diagnostic.
func (h *Handler) CacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(h.store.Stats()); err != nil {
		h.logger.Error("Failed to encode cache stats", zap.Error(err))
	}
}

// ------------------------------------------------------------------------------------------------------
// HistoryHandler returns the most recent plays.
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if h.plays == nil {
		h.sendErrorResponse(w, apperror.NewNotFoundError("play history is not enabled", nil))
		return
	}

	plays, err := h.plays.Recent(20)
	if err != nil {
		h.logger.Error("Failed to load play history", zap.Error(err))
		h.sendErrorResponse(w, apperror.NewInternalError("failed to load play history", err))
		return
	}
	if plays == nil {
		plays = []history.Play{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(plays); err != nil {
		h.logger.Error("Failed to encode play history", zap.Error(err))
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) sendErrorResponse(w http.ResponseWriter, err error) {
	statusCode := apperror.GetHTTPStatusCode(err)
	errorResponse := apperror.NewErrorResponse(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(errorResponse); encodeErr != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(encodeErr),
			zap.Error(err),
		)
	}
}
