package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperror "github.com/Siddiha/Amp/internal/error"
)

// ----------------------------------------------------------------------------------------------------------------
// ChatHandler runs one conversation turn over plain JSON.
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		h.sendErrorResponse(w, apperror.NewValidationError("Invalid JSON in request body", err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.sendErrorResponse(w, apperror.NewValidationError("Message cannot be empty", apperror.ErrEmptyInput))
		return
	}

	reply := h.process(r, req.Message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ChatResponse{Response: reply}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
