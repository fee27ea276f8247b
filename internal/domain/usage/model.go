package usage

import "time"

// Outcome es el resultado terminal de una request a /api/analyze.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeInvalidJSON       Outcome = "invalid_json"
	OutcomeInvalidInput      Outcome = "invalid_input"
	OutcomeNotConfigured     Outcome = "not_configured"
	OutcomeModelFailed       Outcome = "model_failed"
	OutcomeUnparseableOutput Outcome = "unparseable_output"
	OutcomeSchemaViolation   Outcome = "schema_violation"
	OutcomeInternalError     Outcome = "internal_error"
)

var Outcomes = []Outcome{
	OutcomeSuccess,
	OutcomeRateLimited,
	OutcomeInvalidJSON,
	OutcomeInvalidInput,
	OutcomeNotConfigured,
	OutcomeModelFailed,
	OutcomeUnparseableOutput,
	OutcomeSchemaViolation,
	OutcomeInternalError,
}

// Record es una fila del ledger de uso. Nunca guarda contenido clínico,
// ni la clave del caller, ni nada del prompt o de la respuesta.
type Record struct {
	ID         string
	Outcome    Outcome
	StatusCode int
	Provider   string
	Preset     string
	Duration   time.Duration
	OccurredAt time.Time
}

// Summary agrega conteos por outcome.
type Summary struct {
	Since     *time.Time
	Total     int
	ByOutcome map[Outcome]int
}
