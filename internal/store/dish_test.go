package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newDishStore(t *testing.T) (*store.DishStore, *store.Mailbox) {
	t.Helper()
	mailbox := store.NewMailbox()
	return store.NewDishStore(newMemPersistence(), mailbox), mailbox
}

func addDish(t *testing.T, s *store.DishStore, name string, price string) store.Dish {
	t.Helper()
	d, err := s.Add(context.Background(), store.AddDishParams{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("add dish: %v", err)
	}
	return d
}

func TestDishAdd_DefaultsToAvailable(t *testing.T) {
	s, mailbox := newDishStore(t)

	d := addDish(t, s, "Soup", "5.00")

	if !d.Available {
		t.Error("new dish should default to available")
	}
	if d.ID == uuid.Nil {
		t.Error("new dish should get a fresh identifier")
	}

	n := mailbox.Current()
	if n == nil || n.Severity != enum.SeveritySuccess {
		t.Errorf("expected success notification, got %+v", n)
	}
}

func TestDishAdd_ExplicitUnavailable(t *testing.T) {
	s, _ := newDishStore(t)

	unavailable := false
	d, err := s.Add(context.Background(), store.AddDishParams{
		Name:      "Seasonal Special",
		Price:     decimal.RequireFromString("9.00"),
		Available: &unavailable,
	})
	if err != nil {
		t.Fatalf("add dish: %v", err)
	}
	if d.Available {
		t.Error("explicit available=false should be honored")
	}
}

func TestDishAdd_Validation(t *testing.T) {
	s, _ := newDishStore(t)

	tests := []struct {
		name   string
		params store.AddDishParams
	}{
		{"empty name", store.AddDishParams{Name: "  ", Price: decimal.RequireFromString("5.00")}},
		{"zero price", store.AddDishParams{Name: "Soup", Price: decimal.Zero}},
		{"negative price", store.AddDishParams{Name: "Soup", Price: decimal.RequireFromString("-1.00")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(context.Background(), tt.params)
			var vErr *store.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	if len(s.List()) != 0 {
		t.Error("rejected dishes must not be stored")
	}
}

func TestDishUpdate_MergesFields(t *testing.T) {
	s, _ := newDishStore(t)
	d := addDish(t, s, "Soup", "5.00")

	newPrice := decimal.RequireFromString("6.50")
	updated, err := s.Update(context.Background(), d.ID, store.DishUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("update dish: %v", err)
	}

	if updated.Name != "Soup" {
		t.Errorf("name should be untouched, got %q", updated.Name)
	}
	if !updated.Price.Equal(newPrice) {
		t.Errorf("price: got %s, want %s", updated.Price, newPrice)
	}
}

func TestDishUpdate_NotFound(t *testing.T) {
	s, _ := newDishStore(t)

	_, err := s.Update(context.Background(), uuid.New(), store.DishUpdate{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDishRemove(t *testing.T) {
	s, mailbox := newDishStore(t)
	d := addDish(t, s, "Soup", "5.00")

	if err := s.Remove(context.Background(), d.ID); err != nil {
		t.Fatalf("remove dish: %v", err)
	}
	if len(s.List()) != 0 {
		t.Error("dish should be gone")
	}
	if n := mailbox.Current(); n == nil || n.Severity != enum.SeverityInfo {
		t.Errorf("expected info notification, got %+v", n)
	}

	if err := s.Remove(context.Background(), d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second remove: expected ErrNotFound, got %v", err)
	}
}

func TestDishToggleAvailability(t *testing.T) {
	s, _ := newDishStore(t)
	d := addDish(t, s, "Soup", "5.00")

	toggled, err := s.ToggleAvailability(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Available {
		t.Error("toggle should flip available to false")
	}
	// Everything else untouched
	if toggled.Name != d.Name || !toggled.Price.Equal(d.Price) || toggled.ID != d.ID {
		t.Errorf("toggle changed more than the flag: %+v", toggled)
	}

	toggled, err = s.ToggleAvailability(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if !toggled.Available {
		t.Error("second toggle should flip back to true")
	}
}

func TestDishToggleAvailability_NotFound(t *testing.T) {
	s, _ := newDishStore(t)

	_, err := s.ToggleAvailability(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDishListAvailable(t *testing.T) {
	s, _ := newDishStore(t)
	addDish(t, s, "Soup", "5.00")
	hidden := addDish(t, s, "Stew", "7.00")
	if _, err := s.ToggleAvailability(context.Background(), hidden.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	available := s.ListAvailable()
	if len(available) != 1 || available[0].Name != "Soup" {
		t.Errorf("listAvailable: got %+v", available)
	}
	if len(s.List()) != 2 {
		t.Errorf("list should still return both dishes")
	}
}

func TestDishAdd_SaveFailureStillCommits(t *testing.T) {
	persist := newMemPersistence()
	persist.failSave = true
	s := store.NewDishStore(persist, store.NewMailbox())

	d, err := s.Add(context.Background(), store.AddDishParams{
		Name:  "Soup",
		Price: decimal.RequireFromString("5.00"),
	})

	var ioErr *store.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("dish should be returned despite the save failure")
	}
	if len(s.List()) != 1 {
		t.Error("in-memory mutation must not be rolled back on save failure")
	}
}

func TestMailboxLastWriteWins(t *testing.T) {
	mailbox := store.NewMailbox()
	mailbox.Notify("first", enum.SeverityInfo)
	mailbox.Notify("second", enum.SeverityWarning)

	n := mailbox.Current()
	if n == nil || n.Message != "second" || n.Severity != enum.SeverityWarning {
		t.Errorf("expected last notification, got %+v", n)
	}

	mailbox.Dismiss()
	if mailbox.Current() != nil {
		t.Error("dismiss should clear the slot")
	}
}
