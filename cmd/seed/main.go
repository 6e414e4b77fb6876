package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/comanda-pos/api/internal/config"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/storage"
	"github.com/comanda-pos/api/internal/store"
	"github.com/shopspring/decimal"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin full name")
	demo := flag.Bool("demo", true, "Seed demo dishes and tables")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "admin@comanda.local"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Admin"
	}

	cfg := config.Load()
	ctx := context.Background()

	var persist store.Persistence
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to open postgres persistence: %v", err)
		}
		defer pg.Close()
		persist = pg
	} else {
		f, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			log.Fatalf("Unable to open file persistence: %v", err)
		}
		persist = f
	}

	mailbox := store.NewMailbox()

	users := store.NewUserStore(persist)
	if err := users.LoadFrom(ctx); err != nil {
		log.Fatalf("load users: %v", err)
	}

	if _, ok := users.ByEmail(*email); ok {
		log.Printf("Admin %s already exists, skipping", *email)
	} else {
		u, err := users.Register(ctx, store.RegisterUserParams{
			FullName: *name,
			Email:    *email,
			Password: *password,
			Role:     enum.UserRoleAdmin,
		})
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		log.Printf("Seeded admin %s (%s)", u.Email, u.ID)
	}

	if !*demo {
		return
	}

	seedStaff(ctx, users, *password)

	dishes := store.NewDishStore(persist, mailbox)
	if err := dishes.LoadFrom(ctx); err != nil {
		log.Fatalf("load dishes: %v", err)
	}
	if len(dishes.List()) == 0 {
		seedDishes(ctx, dishes)
	}

	tables := store.NewTableStore(persist, mailbox)
	if err := tables.LoadFrom(ctx); err != nil {
		log.Fatalf("load tables: %v", err)
	}
	if len(tables.List()) == 0 {
		seedTables(ctx, tables)
	}
}

func seedStaff(ctx context.Context, users *store.UserStore, password string) {
	staff := []store.RegisterUserParams{
		{FullName: "Demo Waiter", Email: "waiter@comanda.local", Role: enum.UserRoleWaiter},
		{FullName: "Demo Cook", Email: "cook@comanda.local", Role: enum.UserRoleCook},
	}
	for _, params := range staff {
		if _, ok := users.ByEmail(params.Email); ok {
			continue
		}
		params.Password = password
		u, err := users.Register(ctx, params)
		if err != nil {
			log.Fatalf("seed %s: %v", params.Email, err)
		}
		log.Printf("Seeded %s %s", u.Role, u.Email)
	}
}

func seedDishes(ctx context.Context, dishes *store.DishStore) {
	demo := []store.AddDishParams{
		{Name: "Tomato Soup", Description: "With garlic croutons", Price: decimal.NewFromFloat(5.00)},
		{Name: "Grilled Chicken", Description: "Served with rice", Price: decimal.NewFromFloat(12.50)},
		{Name: "Caesar Salad", Description: "Romaine, parmesan, anchovy dressing", Price: decimal.NewFromFloat(8.00)},
		{Name: "Lemonade", Description: "", Price: decimal.NewFromFloat(3.25)},
	}
	for _, params := range demo {
		if _, err := dishes.Add(ctx, params); err != nil {
			log.Fatalf("seed dish %q: %v", params.Name, err)
		}
	}
	log.Printf("Seeded %d dishes", len(demo))
}

func seedTables(ctx context.Context, tables *store.TableStore) {
	capacities := []int{2, 2, 4, 4, 6, 8}
	for i, capacity := range capacities {
		if _, err := tables.Add(ctx, store.AddTableParams{Number: i + 1, Capacity: capacity}); err != nil {
			log.Fatalf("seed table %d: %v", i+1, err)
		}
	}
	log.Printf("Seeded %d tables", len(capacities))
}
