package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/comanda-pos/api/internal/auth"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/storage"
	"github.com/comanda-pos/api/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret"

// testEnv wires real stores on top of file storage in a temp dir, the
// same shape main assembles in local mode.
type testEnv struct {
	dishes  *store.DishStore
	tables  *store.TableStore
	orders  *store.OrderStore
	users   *store.UserStore
	mailbox *store.Mailbox
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	persist, err := storage.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}

	mailbox := store.NewMailbox()
	dishes := store.NewDishStore(persist, mailbox)
	tables := store.NewTableStore(persist, mailbox)
	orders := store.NewOrderStore(dishes, tables, persist, mailbox)
	users := store.NewUserStore(persist)

	return &testEnv{dishes: dishes, tables: tables, orders: orders, users: users, mailbox: mailbox}
}

func (e *testEnv) addDish(t *testing.T, name, price string) store.Dish {
	t.Helper()
	p, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	d, err := e.dishes.Add(context.Background(), store.AddDishParams{Name: name, Price: p})
	if err != nil {
		t.Fatalf("add dish: %v", err)
	}
	return d
}

func (e *testEnv) addTable(t *testing.T, number, capacity int) store.Table {
	t.Helper()
	tbl, err := e.tables.Add(context.Background(), store.AddTableParams{Number: number, Capacity: capacity})
	if err != nil {
		t.Fatalf("add table: %v", err)
	}
	return tbl
}

func tokenFor(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func waiterToken(t *testing.T) string {
	t.Helper()
	return tokenFor(t, uuid.New(), enum.UserRoleWaiter)
}

// doJSON sends a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
	return v
}
