package handler

import (
	"net/http"

	"github.com/comanda-pos/api/internal/store"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler exposes the single-slot notification mailbox.
type NotificationHandler struct {
	mailbox *store.Mailbox
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(mailbox *store.Mailbox) *NotificationHandler {
	return &NotificationHandler{mailbox: mailbox}
}

// RegisterRoutes registers notification endpoints on the given Chi router.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/current", h.Current)
	r.Delete("/current", h.Dismiss)
}

// Current returns the pending notification, or 204 if there is none.
func (h *NotificationHandler) Current(w http.ResponseWriter, r *http.Request) {
	n := h.mailbox.Current()
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Dismiss clears the pending notification.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.mailbox.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
