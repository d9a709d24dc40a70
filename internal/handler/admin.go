package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mindfulchat/mindfulchat/internal/middleware"
	"github.com/mindfulchat/mindfulchat/internal/service"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
)

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc *service.ConversationService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  log,
	}
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics.")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// DeleteUserConversations handles DELETE /api/v1/admin/users/:id/conversations.
// It is the cascade invoked when an account is removed.
func (h *AdminHandler) DeleteUserConversations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.service.DeleteAllForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to delete user conversations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete user conversations.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Deleted %d conversations.", n),
	})
}
