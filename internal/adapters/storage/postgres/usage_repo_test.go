package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imperium/internal/domain/usage"
)

// Requiere una base real: IMPERIUM_TEST_DB_DSN=postgres://...
func openTestDB(t *testing.T) *UsageRepo {
	t.Helper()
	dsn := os.Getenv("IMPERIUM_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("IMPERIUM_TEST_DB_DSN not set")
	}

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, EnsureUsageSchema(ctx, db))
	// Idempotente.
	require.NoError(t, EnsureUsageSchema(ctx, db))

	return NewUsageRepo(db)
}

func TestUsageRepo_CreateAndSummarize(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	// Ventana propia en el futuro para no mezclar con corridas anteriores.
	since := usage.BucketStart(time.Now().Add(24 * time.Hour))
	for i, o := range []usage.Outcome{usage.OutcomeSuccess, usage.OutcomeSuccess, usage.OutcomeModelFailed} {
		require.NoError(t, repo.Create(ctx, usage.Record{
			ID:         uuid.NewString(),
			Outcome:    o,
			StatusCode: 200,
			Provider:   "openai",
			Preset:     "strict",
			Duration:   time.Duration(i+1) * time.Second,
			OccurredAt: since.Add(time.Duration(i) * time.Second),
		}))
	}

	sum, err := repo.Summarize(ctx, &since)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Total, 3)
	assert.GreaterOrEqual(t, sum.ByOutcome[usage.OutcomeSuccess], 2)
	assert.GreaterOrEqual(t, sum.ByOutcome[usage.OutcomeModelFailed], 1)

	// Los tres caen en el mismo minuto: dos filas (una por outcome), no tres.
	var rows int
	require.NoError(t, repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analyze_usage_minutely WHERE bucket_start = $1`, since).Scan(&rows))
	assert.Equal(t, 2, rows)

	// Nada anterior al 2000: no toca datos de otras corridas.
	_, err = repo.Prune(ctx, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sum, err = repo.Summarize(ctx, &since)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Total, 3)
}
