package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmarconi/threadline-backend/api/controllers"
	"github.com/rmarconi/threadline-backend/api/middleware"
	authsvc "github.com/rmarconi/threadline-backend/internal/auth"
	"github.com/rmarconi/threadline-backend/internal/catalog"
	"github.com/rmarconi/threadline-backend/internal/categories"
	"github.com/rmarconi/threadline-backend/internal/inventory"
	"github.com/rmarconi/threadline-backend/internal/search"
	"github.com/rmarconi/threadline-backend/pkg/auth/session"
	"github.com/rmarconi/threadline-backend/pkg/config"
	"github.com/rmarconi/threadline-backend/pkg/logger"
	"github.com/rmarconi/threadline-backend/pkg/metrics"
)

// Params bundles everything the router wires together.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	MongoPinger controllers.Pinger
	RedisPinger controllers.Pinger

	AuthService      authsvc.Service
	ProductService   catalog.ProductService
	VariantService   catalog.VariantService
	CategoryService  categories.Service
	SearchService    search.Service
	InventoryService inventory.Service
}

func NewRouter(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, map[string]controllers.Pinger{
			"mongo": p.MongoPinger,
			"redis": p.RedisPinger,
		}))
	})

	metricsHandler := p.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(p.AuthService, p.Logger))
		r.Post("/login", controllers.Login(p.AuthService, p.Logger))
		r.With(middleware.Auth(p.Config.JWT, p.SessionChecker, p.Logger)).
			Post("/logout", controllers.Logout(p.AuthService, p.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(p.Config.JWT, p.SessionChecker, p.Logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/mine", controllers.ListMyProducts(p.ProductService, p.Logger))
			r.Post("/", controllers.CreateProduct(p.ProductService, p.Logger))

			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(p.ProductService, p.Logger))
				r.Put("/", controllers.UpdateProduct(p.ProductService, p.Logger))
				r.Delete("/", controllers.DeleteProduct(p.ProductService, p.Logger))

				r.Post("/variants", controllers.AddVariant(p.VariantService, p.Logger))
				r.Put("/variants/{variantID}", controllers.UpdateVariant(p.VariantService, p.Logger))
				r.Delete("/variants/{variantID}", controllers.DeleteVariant(p.VariantService, p.Logger))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(p.CategoryService, p.Logger))
			r.Get("/", controllers.ListCategories(p.CategoryService, p.Logger))
			r.Get("/{categoryID}", controllers.GetCategory(p.CategoryService, p.Logger))
			r.Put("/{categoryID}", controllers.UpdateCategory(p.CategoryService, p.Logger))
			r.Delete("/{categoryID}", controllers.DeleteCategory(p.CategoryService, p.Logger))
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/name", controllers.SearchByName(p.SearchService, p.Logger))
			r.Get("/category", controllers.SearchByCategory(p.SearchService, p.Logger))
			r.Get("/created", controllers.SearchByCreated(p.SearchService, p.Logger))
			r.Get("/size", controllers.SearchBySize(p.SearchService, p.Logger))
			r.Get("/color", controllers.SearchByColor(p.SearchService, p.Logger))
		})

		r.Get("/inventory", controllers.InventoryReport(p.InventoryService, p.Logger))
	})

	return r
}
