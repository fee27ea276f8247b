package llm

import (
	"context"
	"errors"
)

var (
	// ErrEmptyCompletion: el proveedor respondió sin contenido.
	ErrEmptyCompletion = errors.New("model returned empty content")
	// ErrNotConfigured: falta la API key del proveedor.
	ErrNotConfigured = errors.New("model provider not configured")
)

// Request es una llamada stateless: un mensaje system y uno user, sin historial.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatModel es el gateway hacia el proveedor LLM.
// Complete devuelve el texto crudo de la primera opción. Sin reintentos ni streaming.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (string, error)
	Configured() bool
	Name() string
}
