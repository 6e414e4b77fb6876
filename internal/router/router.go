package router

import (
	"log"
	"net/http"

	"github.com/comanda-pos/api/internal/config"
	"github.com/comanda-pos/api/internal/enum"
	"github.com/comanda-pos/api/internal/handler"
	mw "github.com/comanda-pos/api/internal/middleware"
	"github.com/comanda-pos/api/internal/store"
	"github.com/comanda-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Stores bundles the store instances the router wires into handlers.
// They are constructed once at startup and passed by reference; there
// are no package-level singletons.
type Stores struct {
	Users  *store.UserStore
	Dishes *store.DishStore
	Tables *store.TableStore
	Orders *store.OrderStore
}

// New creates a Chi router with all application routes wired up.
// Authentication and role gating follow the dashboard split: menu and
// seating management belong to admins, order creation and cancellation
// to waiters, kitchen status updates to cooks.
func New(cfg *config.Config, stores Stores, mailbox *store.Mailbox, notifier store.Notifier, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(stores.Users, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Menu
		dishHandler := handler.NewDishHandler(stores.Dishes, notifier)
		r.Route("/dishes", func(r chi.Router) {
			r.Get("/", dishHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				r.Post("/", dishHandler.Create)
				r.Put("/{id}", dishHandler.Update)
				r.Delete("/{id}", dishHandler.Delete)
				r.Patch("/{id}/availability", dishHandler.Toggle)
			})
		})

		// Seating
		tableHandler := handler.NewTableHandler(stores.Tables, notifier)
		r.Route("/tables", func(r chi.Router) {
			r.Get("/", tableHandler.List)
			// Waiters seat and free tables; structural changes are admin-only.
			r.With(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleWaiter)).
				Patch("/{id}/availability", tableHandler.Toggle)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				r.Post("/", tableHandler.Create)
				r.Put("/{id}", tableHandler.Update)
				r.Delete("/{id}", tableHandler.Delete)
			})
		})

		// Orders
		orderHandler := handler.NewOrderHandler(stores.Orders, stores.Dishes, stores.Tables, notifier, hub)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
			r.With(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleWaiter)).
				Post("/", orderHandler.Create)
			r.With(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleCook)).
				Patch("/{id}/status", orderHandler.UpdateStatus)
			r.With(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleWaiter)).
				Delete("/{id}", orderHandler.Cancel)
		})

		// Notifications
		notificationHandler := handler.NewNotificationHandler(mailbox)
		r.Route("/notifications", notificationHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
