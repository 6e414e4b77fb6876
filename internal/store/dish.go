package store

import (
	"context"
	"strings"
	"sync"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dish is a menu item. Order line items copy its name and price at
// order-creation time, so later edits and deletes never touch
// historical orders.
type Dish struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
}

// AddDishParams is the input for DishStore.Add. Available defaults to
// true when nil.
type AddDishParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Available   *bool
}

// DishUpdate carries the mutable dish fields for Update. Nil fields are
// left unchanged.
type DishUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Available   *bool
}

// DishStore owns the menu collection. All mutations run under a single
// lock; the persistence save happens inside the critical section, after
// the in-memory change commits.
type DishStore struct {
	mu       sync.RWMutex
	dishes   []Dish
	persist  Persistence
	notifier Notifier
}

// NewDishStore creates an empty DishStore.
func NewDishStore(persist Persistence, notifier Notifier) *DishStore {
	return &DishStore{persist: persist, notifier: notifier}
}

// LoadFrom replaces the in-memory collection with the persisted snapshot.
func (s *DishStore) LoadFrom(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dishes []Dish
	if err := s.persist.Load(ctx, CollectionDishes, &dishes); err != nil {
		return &IOError{Collection: CollectionDishes, Err: err}
	}
	s.dishes = dishes
	return nil
}

func validateDish(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if price.Sign() <= 0 {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	return nil
}

// Add validates and appends a new dish with a fresh identifier.
// On *IOError the returned dish is valid and already committed in memory.
func (s *DishStore) Add(ctx context.Context, params AddDishParams) (Dish, error) {
	if err := validateDish(params.Name, params.Price); err != nil {
		return Dish{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := Dish{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Price:       params.Price,
		Available:   true,
	}
	if params.Available != nil {
		d.Available = *params.Available
	}
	s.dishes = append(s.dishes, d)
	s.notifier.Notify("Dish added", enum.SeveritySuccess)
	return d, s.save(ctx)
}

// Update merges the non-nil fields into the matching dish.
func (s *DishStore) Update(ctx context.Context, id uuid.UUID, upd DishUpdate) (Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Dish{}, ErrNotFound
	}

	d := s.dishes[i]
	if upd.Name != nil {
		d.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		d.Description = *upd.Description
	}
	if upd.Price != nil {
		d.Price = *upd.Price
	}
	if upd.Available != nil {
		d.Available = *upd.Available
	}
	if err := validateDish(d.Name, d.Price); err != nil {
		return Dish{}, err
	}

	s.dishes[i] = d
	s.notifier.Notify("Dish updated", enum.SeveritySuccess)
	return d, s.save(ctx)
}

// Remove deletes a dish. Historical order line items keep their copies.
func (s *DishStore) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.dishes = append(s.dishes[:i], s.dishes[i+1:]...)
	s.notifier.Notify("Dish removed", enum.SeverityInfo)
	return s.save(ctx)
}

// ToggleAvailability flips the availability flag and nothing else.
func (s *DishStore) ToggleAvailability(ctx context.Context, id uuid.UUID) (Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Dish{}, ErrNotFound
	}
	s.dishes[i].Available = !s.dishes[i].Available
	d := s.dishes[i]
	if d.Available {
		s.notifier.Notify("Dish enabled", enum.SeverityInfo)
	} else {
		s.notifier.Notify("Dish disabled", enum.SeverityInfo)
	}
	return d, s.save(ctx)
}

// List returns a copy of the full collection in insertion order.
func (s *DishStore) List() []Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Dish, len(s.dishes))
	copy(out, s.dishes)
	return out
}

// ListAvailable returns only the dishes currently marked available.
func (s *DishStore) ListAvailable() []Dish {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Dish
	for _, d := range s.dishes {
		if d.Available {
			out = append(out, d)
		}
	}
	return out
}

// DishByID returns the dish with the given id, if present.
func (s *DishStore) DishByID(id uuid.UUID) (Dish, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.dishes[i], true
	}
	return Dish{}, false
}

func (s *DishStore) indexOf(id uuid.UUID) int {
	for i, d := range s.dishes {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *DishStore) save(ctx context.Context) error {
	snapshot := make([]Dish, len(s.dishes))
	copy(snapshot, s.dishes)
	if err := s.persist.Save(ctx, CollectionDishes, snapshot); err != nil {
		return &IOError{Collection: CollectionDishes, Err: err}
	}
	return nil
}
