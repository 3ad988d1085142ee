package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/plastyfilm/go-backend/docs" // регистрация swagger-спецификации
	"github.com/plastyfilm/go-backend/internal/metrics"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/logger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// UseCases: зависимости HTTP-слоя.
type UseCases struct {
	Products   usecase.ProductUC
	Offers     usecase.OfferUC
	Categories usecase.CategoryUC
	Contact    usecase.ContactUC
	Auth       usecase.AuthUC
	Images     usecase.ImageUC
}

type Router struct {
	router  *chi.Mux
	logger  logger.Logger
	access  *zap.Logger
	metrics *metrics.Metrics
	ready   map[string]Check
}

func NewRouter(router *chi.Mux, logger logger.Logger, access *zap.Logger) *Router {
	return &Router{router: router, logger: logger, access: access}
}

// WithMetrics включает сбор HTTP-метрик и эндпоинт /metrics.
func (r *Router) WithMetrics(m *metrics.Metrics) *Router {
	r.metrics = m
	return r
}

// WithReadiness задаёт проверки для /readyz.
func (r *Router) WithReadiness(checks map[string]Check) *Router {
	r.ready = checks
	return r
}

// Init регистрирует middleware и маршруты. swaggerURL указывает на doc.json для Swagger UI.
func (r *Router) Init(uc UseCases, swaggerURL string, maxImageSize int64) http.Handler {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	if r.access != nil {
		r.router.Use(accessLog(r.access))
	}
	if r.metrics != nil {
		r.router.Use(r.metrics.Middleware)
	}
	r.router.Use(middleware.Recoverer)

	if r.metrics != nil {
		r.router.Method(http.MethodGet, "/metrics", r.metrics.Handler())
	}

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL),
	))

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.router.Get("/readyz", readyz(r.ready, r.logger))

	var (
		categories = NewCategoryHandler(uc.Categories, r.logger)
		products   = NewProductHandler(uc.Products, r.logger)
		offers     = NewOfferHandler(uc.Offers, r.logger)
		contact    = NewContactHandler(uc.Contact, r.logger)
		auth       = NewAuthHandler(uc.Auth, r.logger)
		images     = NewImageHandler(uc.Images, maxImageSize, r.logger)
	)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerStoreRoutes(v1, categories, products, offers, contact)

		v1.Route("/admin", func(admin chi.Router) {
			admin.Post("/sessions", auth.signIn)

			admin.Group(func(protected chi.Router) {
				protected.Use(adminOnly(uc.Auth, r.logger))
				registerAdminRoutes(protected, auth, products, offers, images)
			})
		})
	})

	return r.router
}

func registerStoreRoutes(router chi.Router, categories *CategoryHandler, products *ProductHandler,
	offers *OfferHandler, contact *ContactHandler) {
	router.Get("/categories", categories.listCategories)
	router.Get("/categories/{id}", categories.getCategory)

	router.Get("/products", products.listProducts)
	router.Get("/products/{id}", products.getProduct)

	router.Get("/offers/active", offers.listActiveOffers)

	router.Post("/contact", contact.submitContact)
}

func registerAdminRoutes(router chi.Router, auth *AuthHandler, products *ProductHandler,
	offers *OfferHandler, images *ImageHandler) {
	router.Get("/sessions/current", auth.currentSession)
	router.Delete("/sessions", auth.signOut)

	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", products.createProduct)
		pr.Put("/{id}", products.updateProduct)
		pr.Delete("/{id}", products.deleteProduct)
	})

	router.Route("/offers", func(of chi.Router) {
		of.Get("/", offers.listOffers)
		of.Post("/", offers.createOffer)
		of.Get("/{id}", offers.getOffer)
		of.Put("/{id}", offers.updateOffer)
		of.Delete("/{id}", offers.deleteOffer)
		of.Post("/{id}/toggle", offers.toggleOffer)
	})

	router.Post("/images", images.uploadImage)
}
