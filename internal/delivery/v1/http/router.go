package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/go-recommender/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	cfg    *cfg.HTTPConfig
	logger logger.Logger
}

func NewRouter(router *chi.Mux, cfg *cfg.HTTPConfig, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, logger: logger}
}

// Init навешивает middleware и регистрирует маршруты. variant попадает в метки метрик.
func (r *Router) Init(uc usecase.RecommendationUC, variant string) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Recoverer)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.router.Get("/healthz", healthz)
	r.router.Handle("/metrics", promhttp.Handler())
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.cfg.SwaggerURL), // ссылка на JSON
	))

	recHandler := NewRecommendationHandler(uc, variant, r.logger)
	prefHandler := NewPreferencesHandler(uc, r.logger)
	catHandler := NewCatalogHandler(uc, r.logger)

	r.router.Group(func(api chi.Router) {
		if r.cfg.RateLimit > 0 {
			api.Use(httprate.LimitByIP(r.cfg.RateLimit, r.cfg.RateWindow))
		}

		// Маршрут, который вызывают существующие клиенты магазина
		api.Post("/recommend", recHandler.legacyRecommend)

		api.Route("/api/v1", func(v1 chi.Router) {
			registerRecommendationRoutes(v1, recHandler)
			registerPreferencesRoutes(v1, prefHandler)
			registerCatalogRoutes(v1, catHandler)
		})
	})
}

func registerRecommendationRoutes(router chi.Router, h *RecommendationHandler) {
	router.Post("/recommendations", h.recommendByBody)
	router.Get("/users/{userID}/recommendations", h.recommendForUser)
}

func registerPreferencesRoutes(router chi.Router, h *PreferencesHandler) {
	router.Route("/users/{userID}/preferences", func(pr chi.Router) {
		pr.Get("/", h.getPreferences)
		pr.Put("/", h.upsertPreferences)
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Post("/catalog/snapshot", h.exportSnapshot)
}

// requestLogger пишет одну строку на запрос: метод, путь, статус и длительность.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.With("request_id", middleware.GetReqID(r.Context())).
				Debugf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
