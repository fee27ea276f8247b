package analysis

import (
	"context"
	"time"

	"imperium/internal/metrics"
	"imperium/internal/ports/llm"
	"imperium/internal/sanitizer"
)

// ModelParams son los parámetros fijos de cada llamada al modelo.
type ModelParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

const (
	DefaultTemperature = 0.4
	DefaultMaxTokens   = 4096
)

type Service struct {
	model        llm.ChatModel
	sanitizer    *sanitizer.Sanitizer
	schema       Schema
	systemPrompt string
	params       ModelParams
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService arma el pipeline. model puede ser nil (equivale a "no configurado");
// san nil usa las reglas por defecto.
func NewService(model llm.ChatModel, san *sanitizer.Sanitizer, schema Schema, params ModelParams, opts ...Option) *Service {
	if san == nil {
		san = sanitizer.New(nil, "")
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = DefaultMaxTokens
	}

	s := &Service{
		model:        model,
		sanitizer:    san,
		schema:       schema,
		systemPrompt: SystemPrompt(schema),
		params:       params,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Schema() Schema { return s.schema }

// Provider devuelve el nombre del proveedor, o "" si no hay modelo.
func (s *Service) Provider() string {
	if s.model == nil {
		return ""
	}
	return s.model.Name()
}

func (s *Service) Configured() bool {
	return s.model != nil && s.model.Configured()
}

// Analyze corre validate → sanitize → check provider → model → parse.
// raw es el body ya decodificado como JSON genérico.
func (s *Service) Analyze(ctx context.Context, raw any) (MedicalOutput, error) {
	in, err := ValidateInput(raw, s.schema)
	if err != nil {
		return MedicalOutput{}, err
	}

	clean := SanitizeInput(s.sanitizer, in)

	if !s.Configured() {
		return MedicalOutput{}, ErrNotConfigured
	}

	start := s.now()
	text, err := s.model.Complete(ctx, llm.Request{
		System:      s.systemPrompt,
		User:        BuildUserPrompt(clean),
		Model:       s.params.Model,
		Temperature: s.params.Temperature,
		MaxTokens:   s.params.MaxTokens,
	})
	s.metrics.ObserveModelCall(s.model.Name(), err, s.now().Sub(start))
	if err != nil {
		return MedicalOutput{}, &ModelRequestError{Err: err}
	}

	return ParseOutput(text, s.schema)
}
