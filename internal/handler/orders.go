package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/comanda-pos/api/internal/middleware"
	"github.com/comanda-pos/api/internal/store"
	"github.com/comanda-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderStore defines the store methods needed by order handlers.
// Satisfied by *store.OrderStore.
type OrderStore interface {
	Create(ctx context.Context, params store.CreateOrderParams) (store.Order, error)
	SetStatus(ctx context.Context, id int64, status string) (store.Order, error)
	Cancel(ctx context.Context, id int64) (store.Order, error)
	List() []store.Order
	ListByStatus(status string) []store.Order
	ListExcludingCancelled() []store.Order
	ByID(id int64) (store.Order, bool)
	ByWaiter(waiterID uuid.UUID) []store.Order
}

// Broadcaster pushes order events to connected dashboards. Satisfied by
// *ws.Hub; nil disables push.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// OrderHandler handles the order lifecycle endpoints. The catalog and
// seating views feed the read-only join fields of the response (table
// number, current dish availability).
type OrderHandler struct {
	store    OrderStore
	catalog  store.Catalog
	seating  store.Seating
	notifier store.Notifier
	events   Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(s OrderStore, catalog store.Catalog, seating store.Seating, notifier store.Notifier, events Broadcaster) *OrderHandler {
	return &OrderHandler{store: s, catalog: catalog, seating: seating, notifier: notifier, events: events}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Cancel)
}

// --- Request / Response types ---

type createOrderRequest struct {
	TableID string                   `json:"table_id"`
	Items   []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type lineItemResponse struct {
	DishID    uuid.UUID `json:"dish_id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Available bool      `json:"available"`
}

type orderResponse struct {
	ID          int64              `json:"id"`
	TableID     uuid.UUID          `json:"table_id"`
	TableNumber *int               `json:"table_number"`
	WaiterID    uuid.UUID          `json:"waiter_id"`
	Items       []lineItemResponse `json:"items"`
	Status      string             `json:"status"`
	Total       string             `json:"total"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (h *OrderHandler) toOrderResponse(o store.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		TableID:   o.TableID,
		WaiterID:  o.WaiterID,
		Status:    o.Status,
		Total:     o.Total.StringFixed(2),
		CreatedAt: o.CreatedAt,
	}

	// Join fields come from the read-only views; the table may have
	// been deleted since the order was created.
	if num, ok := store.TableNumberFor(o, h.seating); ok {
		resp.TableNumber = &num
	}

	resp.Items = make([]lineItemResponse, len(o.Items))
	for i, item := range o.Items {
		resp.Items[i] = lineItemResponse{
			DishID:    item.DishID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Available: store.DishAvailabilityFor(item, h.catalog),
		}
	}
	return resp
}

func (h *OrderHandler) broadcast(eventType string, o store.Order) {
	if h.events == nil {
		return
	}
	payload, err := json.Marshal(h.toOrderResponse(o))
	if err != nil {
		return
	}
	h.events.Broadcast(ws.Event{Type: eventType, Payload: payload})
}

// --- Handlers ---

// List returns orders. Filters: ?status=, ?mine=true (caller's own,
// minus cancelled), ?exclude_cancelled=true / ?active=true.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var orders []store.Order
	switch {
	case q.Get("status") != "":
		status := q.Get("status")
		if !store.IsValidStatus(status) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		orders = h.store.ListByStatus(status)
	case q.Get("mine") == "true":
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		orders = h.store.ByWaiter(claims.UserID)
	case q.Get("exclude_cancelled") == "true", q.Get("active") == "true":
		orders = h.store.ListExcludingCancelled()
	default:
		orders = h.store.List()
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = h.toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single order by id.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	o, ok := h.store.ByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}

// Create opens a new PENDING order for a table. The caller becomes the
// order's waiter.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table_id"})
		return
	}

	items := make([]store.CreateOrderItem, len(req.Items))
	for i, it := range req.Items {
		dishID, err := uuid.Parse(it.DishID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dish_id"})
			return
		}
		items[i] = store.CreateOrderItem{DishID: dishID, Quantity: it.Quantity}
	}

	o, err := h.store.Create(r.Context(), store.CreateOrderParams{
		TableID:  tableID,
		WaiterID: claims.UserID,
		Items:    items,
	})
	if !committed("create order", h.notifier, err) {
		writeStoreError(w, "create order", err)
		return
	}

	h.broadcast("order.created", o)
	writeJSON(w, http.StatusCreated, h.toOrderResponse(o))
}

// UpdateStatus moves an order along the lifecycle. Transitions outside
// the state machine answer 409 and leave the order unchanged.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	o, err := h.store.SetStatus(r.Context(), id, req.Status)
	if !committed("update order status", h.notifier, err) {
		writeStoreError(w, "update order status", err)
		return
	}

	h.broadcast("order.status_changed", o)
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}

// Cancel moves an order to CANCELLED. Served or already-cancelled
// orders answer 409.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	o, err := h.store.Cancel(r.Context(), id)
	if !committed("cancel order", h.notifier, err) {
		writeStoreError(w, "cancel order", err)
		return
	}

	h.broadcast("order.cancelled", o)
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}
