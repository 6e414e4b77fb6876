package handler_test

import (
	"net/http"
	"testing"

	"github.com/comanda-pos/api/internal/handler"
	"github.com/go-chi/chi/v5"
)

func newDishRouter(env *testEnv) http.Handler {
	r := chi.NewRouter()
	r.Route("/dishes", func(r chi.Router) {
		handler.NewDishHandler(env.dishes, env.mailbox).RegisterRoutes(r)
	})
	return r
}

type dishJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Available   bool   `json:"available"`
}

func TestDishCreate(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)

	rr := doJSON(t, r, "POST", "/dishes", "", map[string]any{
		"name":        "Tomato Soup",
		"description": "with basil",
		"price":       "5.00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	d := decodeJSON[dishJSON](t, rr)
	if d.Name != "Tomato Soup" || d.Price != "5.00" || !d.Available {
		t.Errorf("unexpected dish: %+v", d)
	}
}

func TestDishCreate_Invalid(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"price": "5.00"}},
		{"bad price string", map[string]any{"name": "Soup", "price": "five"}},
		{"zero price", map[string]any{"name": "Soup", "price": "0"}},
		{"negative price", map[string]any{"name": "Soup", "price": "-1.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, r, "POST", "/dishes", "", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDishList_AvailableFilter(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)

	env.addDish(t, "Soup", "5.00")
	salad := env.addDish(t, "Salad", "8.00")

	rr := doJSON(t, r, "PATCH", "/dishes/"+salad.ID.String()+"/availability", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle status: got %d (body: %s)", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, r, "GET", "/dishes", "", nil)
	if got := len(decodeJSON[[]dishJSON](t, rr)); got != 2 {
		t.Errorf("full menu: got %d dishes, want 2", got)
	}

	rr = doJSON(t, r, "GET", "/dishes?available=true", "", nil)
	available := decodeJSON[[]dishJSON](t, rr)
	if len(available) != 1 || available[0].Name != "Soup" {
		t.Errorf("available menu: got %+v", available)
	}
}

func TestDishUpdate(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)
	d := env.addDish(t, "Soup", "5.00")

	rr := doJSON(t, r, "PUT", "/dishes/"+d.ID.String(), "", map[string]any{
		"price": "6.50",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rr.Code, rr.Body.String())
	}

	got := decodeJSON[dishJSON](t, rr)
	if got.Price != "6.50" {
		t.Errorf("price: got %s, want 6.50", got.Price)
	}
	if got.Name != "Soup" {
		t.Errorf("name must be unchanged: got %s", got.Name)
	}
}

func TestDishUpdate_NotFound(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)

	rr := doJSON(t, r, "PUT", "/dishes/6f1c63e5-97b0-4d8a-a6a3-3710c1f1cbb3", "", map[string]any{
		"name": "Ghost",
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDishDelete(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)
	d := env.addDish(t, "Soup", "5.00")

	rr := doJSON(t, r, "DELETE", "/dishes/"+d.ID.String(), "", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doJSON(t, r, "DELETE", "/dishes/"+d.ID.String(), "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDishBadID(t *testing.T) {
	env := newTestEnv(t)
	r := newDishRouter(env)

	rr := doJSON(t, r, "DELETE", "/dishes/not-a-uuid", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
