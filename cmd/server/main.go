package main

import (
	"context"
	"log"
	"net/http"

	"github.com/comanda-pos/api/internal/config"
	"github.com/comanda-pos/api/internal/router"
	"github.com/comanda-pos/api/internal/storage"
	"github.com/comanda-pos/api/internal/store"
	"github.com/comanda-pos/api/internal/ws"
)

func main() {
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
		log.Println("Persistence: postgres")
	} else {
		f, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			log.Fatalf("Unable to open file persistence: %v", err)
		}
		persist = f
		log.Printf("Persistence: local files in %s", cfg.DataDir)
	}

	hub := ws.NewHub()
	go hub.Run()

	// Store notifications land in the mailbox for polling clients and
	// are pushed to connected dashboards at the same time.
	mailbox := store.NewMailbox()
	notifier := store.MultiNotifier{mailbox, hub}

	users := store.NewUserStore(persist)
	dishes := store.NewDishStore(persist, notifier)
	tables := store.NewTableStore(persist, notifier)
	orders := store.NewOrderStore(dishes, tables, persist, notifier)

	if err := users.LoadFrom(ctx); err != nil {
		log.Fatalf("load users: %v", err)
	}
	if err := dishes.LoadFrom(ctx); err != nil {
		log.Fatalf("load dishes: %v", err)
	}
	if err := tables.LoadFrom(ctx); err != nil {
		log.Fatalf("load tables: %v", err)
	}
	if err := orders.LoadFrom(ctx); err != nil {
		log.Fatalf("load orders: %v", err)
	}

	r := router.New(cfg, router.Stores{
		Users:  users,
		Dishes: dishes,
		Tables: tables,
		Orders: orders,
	}, mailbox, notifier, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
