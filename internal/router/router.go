package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dpereira/go-product-api/internal/api/auth"
	"github.com/dpereira/go-product-api/internal/api/product"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler            *auth.AuthHandler
	ProductHandler         *product.ProductHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (request ID, logger, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)

			r.Get("/products", cfg.ProductHandler.ListProducts)
			r.Get("/products/search/{name}", cfg.ProductHandler.SearchProducts)
			r.Get("/products/{productID}", cfg.ProductHandler.GetProduct)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Post("/products", cfg.ProductHandler.CreateProduct)
			r.Put("/products/{productID}", cfg.ProductHandler.UpdateProduct)
			r.Patch("/products/{productID}", cfg.ProductHandler.PatchProduct)
			r.Delete("/products/{productID}", cfg.ProductHandler.DeleteProduct)
		})
	})

	return r
}
