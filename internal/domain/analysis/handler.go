package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"imperium/internal/domain/usage"
	"imperium/internal/metrics"
	"imperium/internal/middleware"
	"imperium/internal/platform/logger"
)

// maxBodyBytes acota el body de /api/analyze. Los campos de texto tienen
// topes de pocos KB, así que 1 MB es holgado.
const maxBodyBytes = 1 << 20

const (
	msgRateLimited    = "Too many requests. Please wait a moment and try again."
	msgInvalidJSON    = "Invalid JSON body."
	msgInvalidInput   = "Invalid input."
	msgNotConfigured  = "Service is not configured. Please contact the administrator."
	msgModelFailed    = "Model request failed: "
	msgUnparseable    = "Failed to parse structured output from model. Please try again."
	msgSchemaMismatch = "Model output did not meet the required structure. Please try again."
	msgInternal       = "internal error"
)

// Limiter decide si una clave de caller puede pasar. ratelimit.FixedWindow lo implementa.
type Limiter interface {
	Admit(key string) bool
}

// Deps agrupa los colaboradores opcionales del handler.
type Deps struct {
	Limiter Limiter
	Usage   *usage.Service
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	r.Post("/api/analyze", analyzeHandler(svc, deps))
}

type errorResponse struct {
	Error   string      `json:"error"`
	Details FieldErrors `json:"details,omitempty"`
}

// analyzeHandler godoc
// @Summary Análisis educativo de una presentación clínica
// @Description Valida el formulario, redacta PII, consulta al modelo y devuelve consideraciones educativas validadas. No es un diagnóstico.
// @Tags analysis
// @Accept json
// @Produce json
// @Param X-Forwarded-For header string false "IP del caller (clave del rate limit)"
// @Param body body MedicalInput true "Presentación clínica"
// @Success 200 {object} MedicalOutput
// @Failure 400 {object} errorResponse "JSON inválido, input inválido o salida del modelo inválida"
// @Failure 429 {object} errorResponse "rate limit"
// @Failure 502 {object} errorResponse "falla del proveedor"
// @Failure 503 {object} errorResponse "proveedor sin configurar"
// @Router /api/analyze [post]
func analyzeHandler(svc *Service, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		outcome := usage.OutcomeInternalError
		status := http.StatusInternalServerError

		defer func() {
			elapsed := time.Since(start)
			deps.Metrics.ObserveAnalyze(string(outcome), status, elapsed)
			if deps.Usage != nil {
				// Sin cancelación: el ledger se escribe aunque el cliente haya cortado.
				_, err := deps.Usage.Record(context.WithoutCancel(r.Context()), usage.RecordInput{
					Outcome:    outcome,
					StatusCode: status,
					Provider:   svc.Provider(),
					Preset:     svc.Schema().Name,
					Duration:   elapsed,
				})
				if err != nil {
					deps.Logger.Warn("usage record failed", map[string]any{"error": err})
				}
			}
		}()

		key := middleware.GetClientKey(r.Context())
		if deps.Limiter != nil && !deps.Limiter.Admit(key) {
			outcome, status = usage.OutcomeRateLimited, http.StatusTooManyRequests
			writeJSON(w, status, errorResponse{Error: msgRateLimited})
			return
		}

		raw, err := decodeBody(w, r)
		if err != nil {
			outcome, status = usage.OutcomeInvalidJSON, http.StatusBadRequest
			writeJSON(w, status, errorResponse{Error: msgInvalidJSON})
			return
		}

		out, err := svc.Analyze(r.Context(), raw)
		if err != nil {
			var resp errorResponse
			outcome, status, resp = classify(err)
			fields := map[string]any{
				"outcome": string(outcome),
				"status":  status,
			}
			// Sólo el mensaje del proveedor; nunca prompt ni contenido clínico.
			var mre *ModelRequestError
			if errors.As(err, &mre) {
				fields["error"] = mre.Err
			}
			if status >= http.StatusInternalServerError {
				deps.Logger.Error("analyze failed", fields)
			} else {
				deps.Logger.Info("analyze rejected", fields)
			}
			writeJSON(w, status, resp)
			return
		}

		outcome, status = usage.OutcomeSuccess, http.StatusOK
		writeJSON(w, status, out)
	}
}

// decodeBody lee el body completo como un único valor JSON genérico.
// Basura después del valor cuenta como JSON inválido.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

// classify traduce un error del pipeline a outcome, status y body.
func classify(err error) (usage.Outcome, int, errorResponse) {
	var verr *ValidationError
	var mre *ModelRequestError

	switch {
	case errors.As(err, &verr) && errors.Is(verr.Kind, ErrInvalidInput):
		return usage.OutcomeInvalidInput, http.StatusBadRequest, errorResponse{Error: msgInvalidInput, Details: verr.Fields}
	case errors.Is(err, ErrNotConfigured):
		return usage.OutcomeNotConfigured, http.StatusServiceUnavailable, errorResponse{Error: msgNotConfigured}
	case errors.As(err, &mre):
		return usage.OutcomeModelFailed, http.StatusBadGateway, errorResponse{Error: msgModelFailed + mre.Error()}
	case errors.Is(err, ErrNoJSONFound), errors.Is(err, ErrMalformedJSON):
		return usage.OutcomeUnparseableOutput, http.StatusBadRequest, errorResponse{Error: msgUnparseable}
	case errors.As(err, &verr) && errors.Is(verr.Kind, ErrSchemaViolation):
		return usage.OutcomeSchemaViolation, http.StatusBadRequest, errorResponse{Error: msgSchemaMismatch, Details: verr.Fields}
	default:
		return usage.OutcomeInternalError, http.StatusInternalServerError, errorResponse{Error: msgInternal}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
