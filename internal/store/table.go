package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
)

// Table is a seating unit. Number is the display label shown to staff
// and must be unique among active tables.
type Table struct {
	ID        uuid.UUID `json:"id"`
	Number    int       `json:"number"`
	Capacity  int       `json:"capacity"`
	Available bool      `json:"available"`
}

// AddTableParams is the input for TableStore.Add. New tables always
// start available.
type AddTableParams struct {
	Number   int
	Capacity int
}

// TableUpdate carries the mutable table fields for Update. Nil fields
// are left unchanged.
type TableUpdate struct {
	Number    *int
	Capacity  *int
	Available *bool
}

// TableStore owns the seating collection.
type TableStore struct {
	mu       sync.RWMutex
	tables   []Table
	persist  Persistence
	notifier Notifier
}

// NewTableStore creates an empty TableStore.
func NewTableStore(persist Persistence, notifier Notifier) *TableStore {
	return &TableStore{persist: persist, notifier: notifier}
}

// LoadFrom replaces the in-memory collection with the persisted snapshot.
func (s *TableStore) LoadFrom(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tables []Table
	if err := s.persist.Load(ctx, CollectionTables, &tables); err != nil {
		return &IOError{Collection: CollectionTables, Err: err}
	}
	s.tables = tables
	return nil
}

func validateTable(number, capacity int) error {
	if number <= 0 {
		return &ValidationError{Field: "number", Reason: "must be a positive integer"}
	}
	if capacity <= 0 {
		return &ValidationError{Field: "capacity", Reason: "must be a positive integer"}
	}
	return nil
}

// Add validates and appends a new table, available by default.
// The display number must not collide with another table's.
func (s *TableStore) Add(ctx context.Context, params AddTableParams) (Table, error) {
	if err := validateTable(params.Number, params.Capacity); err != nil {
		return Table{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.numberTaken(params.Number, uuid.Nil) {
		return Table{}, &ValidationError{Field: "number", Reason: "already in use"}
	}

	t := Table{
		ID:        uuid.New(),
		Number:    params.Number,
		Capacity:  params.Capacity,
		Available: true,
	}
	s.tables = append(s.tables, t)
	s.notifier.Notify("Table added", enum.SeveritySuccess)
	return t, s.save(ctx)
}

// Update merges the non-nil fields into the matching table.
func (s *TableStore) Update(ctx context.Context, id uuid.UUID, upd TableUpdate) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Table{}, ErrNotFound
	}

	t := s.tables[i]
	if upd.Number != nil {
		t.Number = *upd.Number
	}
	if upd.Capacity != nil {
		t.Capacity = *upd.Capacity
	}
	if upd.Available != nil {
		t.Available = *upd.Available
	}
	if err := validateTable(t.Number, t.Capacity); err != nil {
		return Table{}, err
	}
	if s.numberTaken(t.Number, id) {
		return Table{}, &ValidationError{Field: "number", Reason: "already in use"}
	}

	s.tables[i] = t
	s.notifier.Notify("Table updated", enum.SeveritySuccess)
	return t, s.save(ctx)
}

// Remove deletes a table.
func (s *TableStore) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tables = append(s.tables[:i], s.tables[i+1:]...)
	s.notifier.Notify("Table removed", enum.SeverityInfo)
	return s.save(ctx)
}

// ToggleAvailability flips the availability flag and nothing else.
// Available true→false reads as "occupied", false→true as "freed".
func (s *TableStore) ToggleAvailability(ctx context.Context, id uuid.UUID) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Table{}, ErrNotFound
	}
	s.tables[i].Available = !s.tables[i].Available
	t := s.tables[i]
	if t.Available {
		s.notifier.Notify(fmt.Sprintf("Table %d freed", t.Number), enum.SeverityInfo)
	} else {
		s.notifier.Notify(fmt.Sprintf("Table %d occupied", t.Number), enum.SeverityInfo)
	}
	return t, s.save(ctx)
}

// List returns a copy of the full collection in insertion order.
func (s *TableStore) List() []Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// ListAvailable returns only the tables currently free to seat.
func (s *TableStore) ListAvailable() []Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Table
	for _, t := range s.tables {
		if t.Available {
			out = append(out, t)
		}
	}
	return out
}

// TableByID returns the table with the given id, if present.
func (s *TableStore) TableByID(id uuid.UUID) (Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tables[i], true
	}
	return Table{}, false
}

func (s *TableStore) indexOf(id uuid.UUID) int {
	for i, t := range s.tables {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TableStore) numberTaken(number int, self uuid.UUID) bool {
	for _, t := range s.tables {
		if t.Number == number && t.ID != self {
			return true
		}
	}
	return false
}

func (s *TableStore) save(ctx context.Context) error {
	snapshot := make([]Table, len(s.tables))
	copy(snapshot, s.tables)
	if err := s.persist.Save(ctx, CollectionTables, snapshot); err != nil {
		return &IOError{Collection: CollectionTables, Err: err}
	}
	return nil
}
