package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/braseiro-pdv/api/internal/config"
	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/handler"
	mw "github.com/braseiro-pdv/api/internal/middleware"
	"github.com/braseiro-pdv/api/internal/service"
	"github.com/braseiro-pdv/api/internal/session"
	"github.com/braseiro-pdv/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, sessions *session.Manager) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"https://pdv.braseiro.com.br",
			"https://stg-pdv.braseiro.com.br",
		},
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
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/terminals/{tid}/events", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Users
		userHandler := handler.NewUserHandler(queries)
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.Me)
			r.With(mw.RequireRole("ADMIN")).Post("/", userHandler.Create)
		})

		// Catalog
		categoryHandler := handler.NewCategoryHandler(queries)
		r.Route("/categories", categoryHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(queries)
		r.Route("/products", productHandler.RegisterRoutes)

		// Registries
		customerHandler := handler.NewCustomerHandler(queries)
		r.Route("/customers", customerHandler.RegisterRoutes)

		courierHandler := handler.NewCourierHandler(queries)
		r.Route("/couriers", courierHandler.RegisterRoutes)

		couponHandler := handler.NewCouponHandler(queries)
		r.Route("/coupons", couponHandler.RegisterRoutes)

		// Order browsing (orders are created through the PDV finalize flow)
		orderHandler := handler.NewOrderHandler(queries)
		r.Route("/orders", orderHandler.RegisterRoutes)

		// PDV sessions
		orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
			return database.New(db)
		})
		finalizer := service.NewFinalizer(orderService, hub)
		pdvHandler := handler.NewPDVHandler(sessions, queries, finalizer)
		r.Route("/pdv/sessions", pdvHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
