package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is an immutable copy of a dish at order-creation time.
// Dish edits and deletes after creation never reach it.
type LineItem struct {
	DishID    uuid.UUID       `json:"dish_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order tracks a table's order through its lifecycle. Total is frozen
// at creation (sum of unit price × quantity over Items) and never
// recomputed; CreatedAt is set once.
type Order struct {
	ID        int64           `json:"id"`
	TableID   uuid.UUID       `json:"table_id"`
	WaiterID  uuid.UUID       `json:"waiter_id"`
	Items     []LineItem      `json:"items"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// transitions lists the permitted status changes. SERVED and CANCELLED
// are terminal.
var transitions = map[string][]string{
	enum.OrderStatusPending:       {enum.OrderStatusInPreparation, enum.OrderStatusCancelled},
	enum.OrderStatusInPreparation: {enum.OrderStatusServed, enum.OrderStatusCancelled},
	enum.OrderStatusServed:        nil,
	enum.OrderStatusCancelled:     nil,
}

// IsValidStatus reports whether s names a known order status.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Catalog is the read-only dish view the order store needs at creation
// time. Satisfied by *DishStore.
type Catalog interface {
	DishByID(id uuid.UUID) (Dish, bool)
}

// Seating is the read-only table view. Satisfied by *TableStore.
type Seating interface {
	TableByID(id uuid.UUID) (Table, bool)
}

// CreateOrderParams is the input for OrderStore.Create.
type CreateOrderParams struct {
	TableID  uuid.UUID
	WaiterID uuid.UUID
	Items    []CreateOrderItem
}

// CreateOrderItem references a dish on the current menu.
type CreateOrderItem struct {
	DishID   uuid.UUID
	Quantity int
}

// OrderStore owns the order collection and enforces the status state
// machine. Identifiers come from a monotonic counter, so two orders
// created in the same instant still get distinct, order-preserving ids.
type OrderStore struct {
	mu       sync.RWMutex
	orders   []Order
	seq      int64
	catalog  Catalog
	seating  Seating
	persist  Persistence
	notifier Notifier
}

// NewOrderStore creates an empty OrderStore reading dish and table data
// through the given narrow views.
func NewOrderStore(catalog Catalog, seating Seating, persist Persistence, notifier Notifier) *OrderStore {
	return &OrderStore{catalog: catalog, seating: seating, persist: persist, notifier: notifier}
}

// LoadFrom replaces the in-memory collection with the persisted
// snapshot and resumes the id sequence past the highest loaded id.
func (s *OrderStore) LoadFrom(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []Order
	if err := s.persist.Load(ctx, CollectionOrders, &orders); err != nil {
		return &IOError{Collection: CollectionOrders, Err: err}
	}
	s.orders = orders
	for _, o := range orders {
		if o.ID > s.seq {
			s.seq = o.ID
		}
	}
	return nil
}

// Create validates the request, snapshots the referenced dishes into
// line items, computes the frozen total and appends a PENDING order.
// On *IOError the returned order is valid and already committed in memory.
func (s *OrderStore) Create(ctx context.Context, params CreateOrderParams) (Order, error) {
	if _, ok := s.seating.TableByID(params.TableID); !ok {
		return Order{}, &ValidationError{Field: "table_id", Reason: "unknown table"}
	}
	if len(params.Items) == 0 {
		return Order{}, &ValidationError{Field: "items", Reason: "at least one item is required"}
	}

	items := make([]LineItem, 0, len(params.Items))
	total := decimal.Zero
	for i, it := range params.Items {
		if it.Quantity < 1 {
			return Order{}, &ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", i),
				Reason: "must be at least 1",
			}
		}
		dish, ok := s.catalog.DishByID(it.DishID)
		if !ok {
			return Order{}, &ValidationError{
				Field:  fmt.Sprintf("items[%d].dish_id", i),
				Reason: "unknown dish",
			}
		}
		if !dish.Available {
			return Order{}, &ValidationError{
				Field:  fmt.Sprintf("items[%d].dish_id", i),
				Reason: "dish is not available",
			}
		}
		items = append(items, LineItem{
			DishID:    dish.ID,
			Name:      dish.Name,
			UnitPrice: dish.Price,
			Quantity:  it.Quantity,
		})
		total = total.Add(dish.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	o := Order{
		ID:        s.seq,
		TableID:   params.TableID,
		WaiterID:  params.WaiterID,
		Items:     items,
		Status:    enum.OrderStatusPending,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	s.orders = append(s.orders, o)
	s.notifier.Notify(fmt.Sprintf("Order #%d created", o.ID), enum.SeveritySuccess)
	return o, s.save(ctx)
}

// SetStatus moves an order along the transition table. Unknown statuses
// fail validation, missing ids fail with ErrNotFound and disallowed
// moves fail with *InvalidTransitionError, leaving the order untouched.
func (s *OrderStore) SetStatus(ctx context.Context, id int64, status string) (Order, error) {
	return s.transition(ctx, id, status, enum.SeverityInfo)
}

// Cancel moves an order to CANCELLED. Only PENDING and IN_PREPARATION
// orders can be cancelled; a second Cancel on the same order fails.
func (s *OrderStore) Cancel(ctx context.Context, id int64) (Order, error) {
	return s.transition(ctx, id, enum.OrderStatusCancelled, enum.SeverityWarning)
}

func (s *OrderStore) transition(ctx context.Context, id int64, status, severity string) (Order, error) {
	if !IsValidStatus(status) {
		return Order{}, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Order{}, ErrNotFound
	}
	if !canTransition(s.orders[i].Status, status) {
		return Order{}, &InvalidTransitionError{From: s.orders[i].Status, To: status}
	}

	s.orders[i].Status = status
	o := s.orders[i]
	if status == enum.OrderStatusCancelled {
		s.notifier.Notify(fmt.Sprintf("Order #%d cancelled", o.ID), severity)
	} else {
		s.notifier.Notify(fmt.Sprintf("Order #%d is now %s", o.ID, status), severity)
	}
	return o, s.save(ctx)
}

// List returns a copy of all orders in creation order.
func (s *OrderStore) List() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ListByStatus returns the orders currently in the given status.
func (s *OrderStore) ListByStatus(status string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// ListActive returns orders that have not been cancelled. The name
// matches the dashboards' "active orders" view; it is the same filter
// as ListExcludingCancelled.
func (s *OrderStore) ListActive() []Order {
	return s.ListExcludingCancelled()
}

// ListExcludingCancelled returns every order except CANCELLED ones.
func (s *OrderStore) ListExcludingCancelled() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for _, o := range s.orders {
		if o.Status != enum.OrderStatusCancelled {
			out = append(out, o)
		}
	}
	return out
}

// ByID returns the order with the given id, if present.
func (s *OrderStore) ByID(id int64) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.orders[i], true
	}
	return Order{}, false
}

// ByWaiter returns the not-cancelled orders created by the given waiter.
func (s *OrderStore) ByWaiter(waiterID uuid.UUID) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for _, o := range s.orders {
		if o.WaiterID == waiterID && o.Status != enum.OrderStatusCancelled {
			out = append(out, o)
		}
	}
	return out
}

func (s *OrderStore) indexOf(id int64) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *OrderStore) save(ctx context.Context) error {
	snapshot := make([]Order, len(s.orders))
	copy(snapshot, s.orders)
	if err := s.persist.Save(ctx, CollectionOrders, snapshot); err != nil {
		return &IOError{Collection: CollectionOrders, Err: err}
	}
	return nil
}

// TableNumberFor resolves the display number of the order's table
// through the read-only seating view, so presentation code never
// reaches into the table store directly.
func TableNumberFor(o Order, seating Seating) (int, bool) {
	t, ok := seating.TableByID(o.TableID)
	if !ok {
		return 0, false
	}
	return t.Number, true
}

// DishAvailabilityFor reports whether the dish behind a line item is
// still on the menu and available.
func DishAvailabilityFor(item LineItem, catalog Catalog) bool {
	d, ok := catalog.DishByID(item.DishID)
	return ok && d.Available
}
