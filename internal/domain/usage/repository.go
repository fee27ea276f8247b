package usage

import (
	"context"
	"time"
)

// BucketSize es la granularidad del ledger: los registros se agregan en
// contadores por minuto y outcome, nunca se guardan uno por uno.
const BucketSize = time.Minute

// DefaultRetention es cuánto historial se conserva antes de podar.
const DefaultRetention = 24 * time.Hour

// BucketStart es el inicio del bucket al que pertenece t.
func BucketStart(t time.Time) time.Time {
	return t.UTC().Truncate(BucketSize)
}

type Repository interface {
	// Create suma el registro al contador de su bucket.
	Create(ctx context.Context, rec Record) error
	// Summarize cuenta registros de buckets que empiezan en o después del
	// bucket de since (nil = todos).
	Summarize(ctx context.Context, since *time.Time) (Summary, error)
	// Prune borra los buckets que empiezan antes de before. Devuelve cuántos.
	Prune(ctx context.Context, before time.Time) (int, error)
}
