package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperror "github.com/Siddiha/Amp/internal/error"
)

// WebSocketHandler keeps one conversation open over a socket: each inbound
// JSON message is a turn, each outbound one a full reply. No token
// streaming; replies are sent whole.
func (h *Handler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			h.logger.Debug("WebSocket closed", zap.Error(err))
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			errorResponse := apperror.NewErrorResponse(
				apperror.NewValidationError("Message cannot be empty", apperror.ErrEmptyInput),
			)
			if err := conn.WriteJSON(errorResponse); err != nil {
				return
			}
			continue
		}

		reply := h.process(r, req.Message)

		if err := conn.WriteJSON(ChatResponse{Response: reply}); err != nil {
			h.logger.Error("Failed to write WebSocket response", zap.Error(err))
			return
		}
	}
}
