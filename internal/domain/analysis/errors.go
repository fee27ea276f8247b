package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotConfigured   = errors.New("service not configured")
	ErrNoJSONFound     = errors.New("no valid JSON object found in model output")
	ErrMalformedJSON   = errors.New("malformed JSON in model output")
	ErrSchemaViolation = errors.New("model output did not meet the required structure")
)

// FieldErrors: nombre de campo => mensajes legibles.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// ValidationError lleva el reporte por campo. Kind es ErrInvalidInput o ErrSchemaViolation.
type ValidationError struct {
	Kind   error
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// ModelRequestError envuelve cualquier falla del gateway (transporte, proveedor, vacío).
type ModelRequestError struct {
	Err error
}

func (e *ModelRequestError) Error() string {
	if e.Err == nil {
		return "model request failed"
	}
	return e.Err.Error()
}

func (e *ModelRequestError) Unwrap() error { return e.Err }
