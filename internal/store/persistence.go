package store

import "context"

// Collection names used with the persistence port.
const (
	CollectionDishes = "dishes"
	CollectionTables = "tables"
	CollectionOrders = "orders"
	CollectionUsers  = "users"
)

// Persistence is the save/load port behind every store. Save runs after
// the in-memory mutation commits and is best-effort: a failure is
// reported as *IOError but never rolls the mutation back.
type Persistence interface {
	// Load reads a collection snapshot into v. A missing collection is
	// not an error; v is left untouched.
	Load(ctx context.Context, collection string, v any) error

	// Save writes the full collection snapshot.
	Save(ctx context.Context, collection string, v any) error
}
