package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "imperium/internal/adapters/storage/memory"
	pg "imperium/internal/adapters/storage/postgres"
	"imperium/internal/domain/analysis"
	"imperium/internal/domain/usage"
	"imperium/internal/metrics"
	"imperium/internal/middleware"
	"imperium/internal/platform/logger"
	"imperium/internal/ports/llm"
	"imperium/internal/ratelimit"
	"imperium/internal/sanitizer"

	_ "imperium/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Model puede ser nil o no configurado: /api/analyze responde 503.
	Model     llm.ChatModel
	Params    analysis.ModelParams
	Schema    analysis.Schema // zero value => Strict
	Sanitizer *sanitizer.Sanitizer

	// Limiter opcional; si no viene se usa un FixedWindow con los defaults.
	Limiter  analysis.Limiter
	Fallback middleware.FallbackMode

	Metrics *metrics.Metrics

	// Usage opcional; si no viene se arma con NewUsageService(DB, 0).
	Usage *usage.Service
	// Opcional: si viene, el ledger de uso va a Postgres. Si no, in-memory.
	DB *sql.DB
}

// NewUsageService elige el repo del ledger: Postgres si hay db, si no
// in-memory acotado a retention.
func NewUsageService(db *sql.DB, retention time.Duration) *usage.Service {
	if db != nil {
		return usage.NewService(pg.NewUsageRepo(db))
	}
	return usage.NewService(mem.NewUsageRepo(mem.WithUsageRetention(retention)))
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	schema := opts.Schema
	if schema.Name == "" {
		schema = analysis.Strict
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewFixedWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.ClientKey(opts.Fallback))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	usageSvc := opts.Usage
	if usageSvc == nil {
		usageSvc = NewUsageService(opts.DB, 0)
	}
	analysisSvc := analysis.NewService(opts.Model, opts.Sanitizer, schema, opts.Params, analysis.WithMetrics(m))

	// Rutas por módulo
	analysis.RegisterRoutes(r, analysisSvc, analysis.Deps{
		Limiter: limiter,
		Usage:   usageSvc,
		Metrics: m,
		Logger:  log,
	})
	usage.RegisterRoutes(r, usageSvc)

	return r
}
