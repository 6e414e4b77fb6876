package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/comanda-pos/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DishStore defines the store methods needed by dish handlers.
// Satisfied by *store.DishStore; narrow interface for testability.
type DishStore interface {
	Add(ctx context.Context, params store.AddDishParams) (store.Dish, error)
	Update(ctx context.Context, id uuid.UUID, upd store.DishUpdate) (store.Dish, error)
	Remove(ctx context.Context, id uuid.UUID) error
	ToggleAvailability(ctx context.Context, id uuid.UUID) (store.Dish, error)
	List() []store.Dish
	ListAvailable() []store.Dish
}

// DishHandler handles menu CRUD endpoints.
type DishHandler struct {
	store    DishStore
	notifier store.Notifier
}

// NewDishHandler creates a new DishHandler.
func NewDishHandler(s DishStore, notifier store.Notifier) *DishHandler {
	return &DishHandler{store: s, notifier: notifier}
}

// RegisterRoutes registers dish CRUD endpoints on the given Chi router.
func (h *DishHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/availability", h.Toggle)
}

// --- Request / Response types ---

type createDishRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Available   *bool  `json:"available"`
}

type updateDishRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Available   *bool   `json:"available"`
}

type dishResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Available   bool      `json:"available"`
}

func toDishResponse(d store.Dish) dishResponse {
	return dishResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
		Available:   d.Available,
	}
}

// --- Handlers ---

// List returns the menu; ?available=true filters to available dishes.
func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	var dishes []store.Dish
	if r.URL.Query().Get("available") == "true" {
		dishes = h.store.ListAvailable()
	} else {
		dishes = h.store.List()
	}

	resp := make([]dishResponse, len(dishes))
	for i, d := range dishes {
		resp[i] = toDishResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new dish to the menu.
func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	d, err := h.store.Add(r.Context(), store.AddDishParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Available:   req.Available,
	})
	if !committed("create dish", h.notifier, err) {
		writeStoreError(w, "create dish", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDishResponse(d))
}

// Update modifies an existing dish. Absent fields keep their values.
func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dish ID"})
		return
	}

	var req updateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	upd := store.DishUpdate{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
			return
		}
		upd.Price = &price
	}

	d, err := h.store.Update(r.Context(), id, upd)
	if !committed("update dish", h.notifier, err) {
		writeStoreError(w, "update dish", err)
		return
	}
	writeJSON(w, http.StatusOK, toDishResponse(d))
}

// Delete removes a dish. Orders that snapshotted it are unaffected.
func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dish ID"})
		return
	}

	if err := h.store.Remove(r.Context(), id); !committed("delete dish", h.notifier, err) {
		writeStoreError(w, "delete dish", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle flips the dish's availability flag.
func (h *DishHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dish ID"})
		return
	}

	d, err := h.store.ToggleAvailability(r.Context(), id)
	if !committed("toggle dish", h.notifier, err) {
		writeStoreError(w, "toggle dish", err)
		return
	}
	writeJSON(w, http.StatusOK, toDishResponse(d))
}
