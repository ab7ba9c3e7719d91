package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"b2b-catalog/internal/chat"
	"b2b-catalog/internal/middleware"
	"b2b-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatMessageRequest represents an outgoing chat message
type ChatMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// chatStreamLine is one NDJSON line of a streamed assistant response.
type chatStreamLine struct {
	service.StreamUpdate
	Error string `json:"error,omitempty"`
}

// ChatHandler handles HTTP requests for the assistant chat. Responses
// stream as NDJSON: one JSON object per line, the last one final.
type ChatHandler struct {
	chatService service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// RegisterRoutes registers all chat routes
func (h *ChatHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/messages", h.History)
		r.Post("/messages", h.Send)
	})
}

// History returns the conversation so far, opening a session with the
// assistant greeting if none exists yet
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.chatService.Open(r.Context(), user)
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "chat is not configured")
			return
		}
		h.logger.Error("Failed to open chat session", zap.String("user_id", user.ID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to open chat")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messages)
}

// Send streams the assistant's response to a message as NDJSON
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChatMessageRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("Response writer does not support streaming")
		middleware.RespondWithError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// Establish the session before committing to a streamed 200 so a
	// bridge failure still gets a real status code.
	if _, err := h.chatService.Open(r.Context(), user); err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "chat is not configured")
			return
		}
		h.logger.Error("Failed to open chat session", zap.String("user_id", user.ID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to open chat")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	err := h.chatService.Send(r.Context(), user, req.Text, func(update service.StreamUpdate) {
		line := chatStreamLine{StreamUpdate: update}
		if update.Err != nil {
			line.Error = update.Err.Error()
		}
		if err := encoder.Encode(line); err != nil {
			h.logger.Debug("Chat stream write failed", zap.Error(err))
			return
		}
		flusher.Flush()
	})
	if err != nil {
		// Headers are gone; the error can only be a terminal line.
		h.logger.Error("Chat send failed", zap.String("user_id", user.ID), zap.Error(err))
		encoder.Encode(chatStreamLine{
			StreamUpdate: service.StreamUpdate{Final: true},
			Error:        "failed to send message",
		})
		flusher.Flush()
	}
}
