package api

import (
	"net/http"
	"time"

	"github.com/Harshitk-cp/homesense/internal/api/handlers"
	mw "github.com/Harshitk-cp/homesense/internal/api/middleware"
	"github.com/Harshitk-cp/homesense/internal/buildconfig"
	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/llm"
	"github.com/Harshitk-cp/homesense/internal/metrics"
	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/Harshitk-cp/homesense/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options configures the HTTP surface.
type Options struct {
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
}

// App holds the router and the collaborators it serves.
type App struct {
	Router    *chi.Mux
	Sessions  *service.SessionManager
	Metrics   *metrics.Metrics
	startTime time.Time
}

func NewApp(mgr *service.SessionManager, m *metrics.Metrics, logger *zap.Logger, opts Options) *App {
	recommendHandler := handlers.NewRecommendHandler(mgr, logger)
	sessionHandler := handlers.NewSessionHandler(mgr, logger)
	profileHandler := handlers.NewProfileHandler(mgr, logger)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Sessions:  mgr,
		Metrics:   m,
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(m))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)

	// Health and metrics (no auth, no rate limit)
	r.Get("/health", app.healthHandler())
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/v1", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(mw.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
		}
		r.Use(mw.APIKeyAuth(opts.APIKey))

		r.Post("/recommend", recommendHandler.Recommend)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/turns", sessionHandler.Turn)
				r.Post("/scene/end", sessionHandler.EndScene)
			})
		})

		r.Route("/profiles/{id}", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Put)
		})
	})

	return app
}

type healthResponse struct {
	Status string `json:"status"`
	buildconfig.Info
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:        "ok",
			Info:          buildconfig.Current(),
			UptimeSeconds: time.Since(app.startTime).Seconds(),
		})
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.ProfileStore = (*store.FileProfileStore)(nil)
	_ domain.ProfileStore = (*store.PostgresProfileStore)(nil)
	_ domain.SessionStore = (*store.MemorySessionStore)(nil)
	_ domain.SessionStore = (*store.RedisSessionStore)(nil)
	_ domain.LLMClient    = (*llm.SparkClient)(nil)
	_ domain.LLMClient    = (*llm.QianfanClient)(nil)
	_ domain.LLMClient    = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient    = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient    = (*llm.MockClient)(nil)
)
