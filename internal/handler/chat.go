// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mindfulchat/mindfulchat/internal/middleware"
	"github.com/mindfulchat/mindfulchat/internal/model"
	"github.com/mindfulchat/mindfulchat/internal/service"
	"github.com/mindfulchat/mindfulchat/internal/store"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
)

// ChatHandler handles conversation endpoints.
type ChatHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ConversationService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// Start handles POST /api/v1/conversations/start
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	resp, err := h.service.Begin(ctx, userID)
	if err != nil {
		h.logger.Error("failed to start conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to start conversation. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Message handles POST /api/v1/conversations/message
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Send(ctx, userID, req.Message, req.ConversationID)
	if err != nil {
		var invalid *service.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Reason)
			return
		}
		h.logger.Error("failed to process message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process message. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/v1/conversations
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	summaries, err := h.service.History(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch chat history.")
		return
	}

	writeJSON(w, http.StatusOK, &model.ListConversationsResponse{Conversations: summaries})
}

// Get handles GET /api/v1/conversations/:id
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Get(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found.")
			return
		}
		h.logger.Error("failed to get conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch chat.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Conversation{"conversation": conv})
}

// Delete handles DELETE /api/v1/conversations/:id
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(ctx, userID, conversationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found.")
			return
		}
		h.logger.Error("failed to delete conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete chat.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully."})
}
