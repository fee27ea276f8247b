// Package ratelimit implementa un contador de ventana fija por clave, en memoria.
//
// Es una aproximación gruesa: en el borde entre ventanas se pueden colar
// hasta ~2x el cupo. Alcanza para disuadir abuso, no para facturar.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

type bucket struct {
	count int
	reset time.Time
}

// FixedWindow es seguro para uso concurrente.
type FixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *FixedWindow) Limit() int                    { return l.limit }
func (l *FixedWindow) Window() time.Duration         { return l.window }
func (l *FixedWindow) SetClock(now func() time.Time) { l.now = now }

// Admit devuelve false si la clave ya agotó su cupo en la ventana actual.
// La primera request (o la primera tras vencer la ventana) reinicia el contador.
func (l *FixedWindow) Admit(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.reset) {
		l.buckets[key] = &bucket{count: 1, reset: now.Add(l.window)}
		return true
	}

	b.count++
	return b.count <= l.limit
}

// Sweep elimina los buckets cuya ventana ya venció. Borrarlos no cambia
// ninguna decisión futura: la próxima request los reinicia igual.
func (l *FixedWindow) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	n := 0
	for k, b := range l.buckets {
		if now.After(b.reset) {
			delete(l.buckets, k)
			n++
		}
	}
	return n
}

// Len es la cantidad de claves vivas en memoria.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Run barre periódicamente hasta que ctx se cancela. onSweep es opcional.
func (l *FixedWindow) Run(ctx context.Context, every time.Duration, onSweep func(evicted, live int)) {
	if every <= 0 {
		every = l.window
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			evicted := l.Sweep()
			if onSweep != nil {
				onSweep(evicted, l.Len())
			}
		}
	}
}
