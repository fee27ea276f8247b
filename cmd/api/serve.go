package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"imperium/internal/adapters/llm/gemini"
	"imperium/internal/adapters/llm/openai"
	pg "imperium/internal/adapters/storage/postgres"
	"imperium/internal/config"
	"imperium/internal/domain/analysis"
	"imperium/internal/metrics"
	"imperium/internal/platform/logger"
	"imperium/internal/ports/llm"
	"imperium/internal/ratelimit"
	"imperium/internal/router"
	"imperium/internal/sanitizer"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute

	usagePruneInterval = 10 * time.Minute
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, App: cfg.AppName})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	san, err := loadSanitizer(cfg.PIIPatternsFile)
	if err != nil {
		return err
	}

	model, err := buildModel(ctx, cfg)
	if err != nil {
		return err
	}
	if !model.Configured() {
		// No es fatal: /api/analyze responde 503 hasta que haya key.
		log.Warn("llm provider not configured", map[string]any{"provider": cfg.Provider})
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		if err := pg.EnsureUsageSchema(ctx, db); err != nil {
			return fmt.Errorf("usage schema: %w", err)
		}
	}

	m := metrics.New(nil)
	limiter := ratelimit.NewFixedWindow(cfg.RateLimit, cfg.RateWindow)
	usageSvc := router.NewUsageService(db, cfg.UsageRetention)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Logger: log,
			Model:  model,
			Params: analysis.ModelParams{
				Model:       cfg.Model,
				Temperature: cfg.Temperature,
				MaxTokens:   cfg.MaxTokens,
			},
			Schema:    cfg.Schema,
			Sanitizer: san,
			Limiter:   limiter,
			Fallback:  cfg.RateLimitFallback,
			Metrics:   m,
			Usage:     usageSvc,
			DB:        db,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Tiene que cubrir la llamada al modelo.
		WriteTimeout: cfg.ModelTimeout + 10*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter.Run(gctx, sweepInterval, func(evicted, live int) {
			m.SetRateLimitKeys(live)
			if evicted > 0 {
				log.Debug("rate limiter sweep", map[string]any{"evicted": evicted, "live": live})
			}
		})
		return nil
	})

	g.Go(func() error {
		usageSvc.Run(gctx, usagePruneInterval, cfg.UsageRetention, func(pruned int, err error) {
			if err != nil {
				log.Warn("usage prune failed", map[string]any{"error": err})
				return
			}
			if pruned > 0 {
				log.Debug("usage prune", map[string]any{"pruned": pruned})
			}
		})
		return nil
	})

	g.Go(func() error {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"provider": cfg.Provider,
			"model":    cfg.Model,
			"preset":   cfg.Schema.Name,
			"has_key":  cfg.APIKey() != "",
			"storage":  storageName(db),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildModel arma el adapter del proveedor elegido. Sin key devuelve un
// cliente no configurado en lugar de error.
func buildModel(ctx context.Context, cfg config.Config) (llm.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiKey,
			Model:   cfg.Model,
			Timeout: cfg.ModelTimeout,
		})
	default:
		return openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.Model,
			Timeout: cfg.ModelTimeout,
		})
	}
}

func loadSanitizer(path string) (*sanitizer.Sanitizer, error) {
	if path == "" {
		return sanitizer.New(nil, ""), nil
	}
	s, err := sanitizer.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load pii patterns: %w", err)
	}
	return s, nil
}

func storageName(db *sql.DB) string {
	if db != nil {
		return "postgres"
	}
	return "memory"
}
