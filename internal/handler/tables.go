package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/comanda-pos/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TableStore defines the store methods needed by table handlers.
// Satisfied by *store.TableStore.
type TableStore interface {
	Add(ctx context.Context, params store.AddTableParams) (store.Table, error)
	Update(ctx context.Context, id uuid.UUID, upd store.TableUpdate) (store.Table, error)
	Remove(ctx context.Context, id uuid.UUID) error
	ToggleAvailability(ctx context.Context, id uuid.UUID) (store.Table, error)
	List() []store.Table
	ListAvailable() []store.Table
}

// TableHandler handles seating CRUD endpoints.
type TableHandler struct {
	store    TableStore
	notifier store.Notifier
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(s TableStore, notifier store.Notifier) *TableHandler {
	return &TableHandler{store: s, notifier: notifier}
}

// RegisterRoutes registers table CRUD endpoints on the given Chi router.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/availability", h.Toggle)
}

// --- Request / Response types ---

type createTableRequest struct {
	Number   int `json:"number"`
	Capacity int `json:"capacity"`
}

type updateTableRequest struct {
	Number    *int  `json:"number"`
	Capacity  *int  `json:"capacity"`
	Available *bool `json:"available"`
}

type tableResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    int       `json:"number"`
	Capacity  int       `json:"capacity"`
	Available bool      `json:"available"`
}

func toTableResponse(t store.Table) tableResponse {
	return tableResponse{
		ID:        t.ID,
		Number:    t.Number,
		Capacity:  t.Capacity,
		Available: t.Available,
	}
}

// --- Handlers ---

// List returns all tables; ?available=true filters to free ones.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	var tables []store.Table
	if r.URL.Query().Get("available") == "true" {
		tables = h.store.ListAvailable()
	} else {
		tables = h.store.List()
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new table.
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	t, err := h.store.Add(r.Context(), store.AddTableParams{
		Number:   req.Number,
		Capacity: req.Capacity,
	})
	if !committed("create table", h.notifier, err) {
		writeStoreError(w, "create table", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTableResponse(t))
}

// Update modifies an existing table. Absent fields keep their values.
func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	var req updateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	t, err := h.store.Update(r.Context(), id, store.TableUpdate{
		Number:    req.Number,
		Capacity:  req.Capacity,
		Available: req.Available,
	})
	if !committed("update table", h.notifier, err) {
		writeStoreError(w, "update table", err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(t))
}

// Delete removes a table.
func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	if err := h.store.Remove(r.Context(), id); !committed("delete table", h.notifier, err) {
		writeStoreError(w, "delete table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle flips the table between free and occupied.
func (h *TableHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	t, err := h.store.ToggleAvailability(r.Context(), id)
	if !committed("toggle table", h.notifier, err) {
		writeStoreError(w, "toggle table", err)
		return
	}
	writeJSON(w, http.StatusOK, toTableResponse(t))
}
