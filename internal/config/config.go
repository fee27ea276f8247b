// Package config lee la configuración del proceso desde variables de entorno
// (y un .env opcional en el directorio de trabajo).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"imperium/internal/adapters/llm/gemini"
	"imperium/internal/adapters/llm/openai"
	"imperium/internal/domain/analysis"
	"imperium/internal/domain/usage"
	"imperium/internal/middleware"
	"imperium/internal/platform/logger"
	"imperium/internal/ratelimit"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultPort         = "8080"
	DefaultModelTimeout = 60 * time.Second
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port string

	LogLevel  logger.Level
	LogFormat logger.Format
	AppName   string

	Provider      string
	OpenAIKey     string
	OpenAIBaseURL string
	GeminiKey     string
	Model         string
	Temperature   float64
	MaxTokens     int
	ModelTimeout  time.Duration

	Schema analysis.Schema

	RateLimit         int
	RateWindow        time.Duration
	RateLimitFallback middleware.FallbackMode

	PIIPatternsFile string

	DBDSN          string
	UsageRetention time.Duration
}

// Load carga .env (si existe) sin pisar variables ya seteadas y lee el entorno.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup arma la config desde una función tipo os.LookupEnv (tests).
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}

	var errs []error

	cfg := Config{
		Port:              get("PORT"),
		LogLevel:          logger.ParseLevel(get("LOG_LEVEL")),
		LogFormat:         logger.ParseFormat(get("LOG_FORMAT")),
		AppName:           get("APP_NAME"),
		Provider:          strings.ToLower(get("LLM_PROVIDER")),
		OpenAIKey:         get("OPENAI_API_KEY"),
		OpenAIBaseURL:     get("OPENAI_BASE_URL"),
		GeminiKey:         get("GEMINI_API_KEY"),
		Model:             get("LLM_MODEL"),
		RateLimitFallback: middleware.ParseFallbackMode(get("RATE_LIMIT_FALLBACK")),
		PIIPatternsFile:   get("PII_PATTERNS_FILE"),
		DBDSN:             get("DB_DSN"),
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.AppName == "" {
		cfg.AppName = "imperium"
	}

	switch cfg.Provider {
	case "", ProviderOpenAI:
		cfg.Provider = ProviderOpenAI
		if cfg.Model == "" {
			cfg.Model = openai.DefaultModel
		}
	case ProviderGemini:
		if cfg.Model == "" {
			cfg.Model = gemini.DefaultModel
		}
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER: unknown provider %q", cfg.Provider))
	}

	var err error
	if cfg.Temperature, err = floatOr(get("LLM_TEMPERATURE"), analysis.DefaultTemperature); err != nil {
		errs = append(errs, fmt.Errorf("LLM_TEMPERATURE: %w", err))
	}
	if cfg.MaxTokens, err = intOr(get("LLM_MAX_TOKENS"), analysis.DefaultMaxTokens); err != nil {
		errs = append(errs, fmt.Errorf("LLM_MAX_TOKENS: %w", err))
	}
	if cfg.ModelTimeout, err = durationOr(get("MODEL_TIMEOUT"), DefaultModelTimeout); err != nil {
		errs = append(errs, fmt.Errorf("MODEL_TIMEOUT: %w", err))
	}
	if cfg.RateLimit, err = intOr(get("RATE_LIMIT"), ratelimit.DefaultLimit); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT: %w", err))
	}
	if cfg.RateWindow, err = durationOr(get("RATE_WINDOW"), ratelimit.DefaultWindow); err != nil {
		errs = append(errs, fmt.Errorf("RATE_WINDOW: %w", err))
	}
	if cfg.UsageRetention, err = durationOr(get("USAGE_RETENTION"), usage.DefaultRetention); err != nil {
		errs = append(errs, fmt.Errorf("USAGE_RETENTION: %w", err))
	}
	if cfg.Schema, err = analysis.SchemaByName(get("SCHEMA_PRESET")); err != nil {
		errs = append(errs, fmt.Errorf("SCHEMA_PRESET: %w", err))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return cfg, nil
}

// APIKey devuelve la key del proveedor elegido ("" => no configurado).
func (c Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func intOr(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func floatOr(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 2 {
		return 0, fmt.Errorf("must be between 0 and 2, got %v", f)
	}
	return f, nil
}

func durationOr(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
