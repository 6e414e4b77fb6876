package handler_test

import (
	"net/http"
	"testing"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/handler"
	"github.com/comanda-pos/api/internal/store"
	"github.com/go-chi/chi/v5"
)

func newNotificationRouter(mailbox *store.Mailbox) http.Handler {
	r := chi.NewRouter()
	r.Route("/notifications", func(r chi.Router) {
		handler.NewNotificationHandler(mailbox).RegisterRoutes(r)
	})
	return r
}

func TestNotificationCurrentAndDismiss(t *testing.T) {
	mailbox := store.NewMailbox()
	r := newNotificationRouter(mailbox)

	rr := doJSON(t, r, "GET", "/notifications/current", "", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("empty mailbox: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	mailbox.Notify("Order #1 created", enum.SeveritySuccess)
	mailbox.Notify("Order #2 created", enum.SeveritySuccess)

	rr = doJSON(t, r, "GET", "/notifications/current", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	n := decodeJSON[store.Notification](t, rr)
	if n.Message != "Order #2 created" {
		t.Errorf("last write wins: got %q", n.Message)
	}

	rr = doJSON(t, r, "DELETE", "/notifications/current", "", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("dismiss: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doJSON(t, r, "GET", "/notifications/current", "", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("after dismiss: got %d, want %d", rr.Code, http.StatusNoContent)
	}
}
