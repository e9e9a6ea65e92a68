package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/usecase"
)

// NotificationHandler handles per-account notifications.
type NotificationHandler struct {
	notificationUC *usecase.NotificationUseCase
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationUC *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{notificationUC: notificationUC}
}

// List lists the authenticated account's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	notifications, err := h.notificationUC.List(r.Context(), claims.AccountID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notifications", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationsFromDomain(notifications))
}

// MarkRead marks one of the authenticated account's notifications read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing notification ID", "")
		return
	}

	if err := h.notificationUC.MarkRead(r.Context(), id, claims.AccountID); err != nil {
		writeError(w, mapDomainError(err), "failed to mark notification read", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
