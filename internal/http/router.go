package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Orders             *OrderHandler
	Foods              *FoodHandler
	Metrics            http.Handler
	JWTSecret          []byte
	AllowedOrigins     []string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "token", "X-Request-ID"},
		MaxAge:         300,
	}))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	auth := AuthMiddleware(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/order", func(r chi.Router) {
			r.With(auth).Post("/place", cfg.Orders.PlaceOrder)
			r.With(auth).Post("/userorders", cfg.Orders.UserOrders)
			r.Post("/verify", cfg.Orders.VerifyOrder)
			r.Get("/list", cfg.Orders.ListOrders)
			r.Post("/status", cfg.Orders.UpdateStatus)
		})
		if cfg.Foods != nil {
			r.Get("/food/list", cfg.Foods.ListFoods)
		}
	})

	return r
}
