package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"imperium/internal/domain/usage"
)

type UsageRepo struct {
	db *sql.DB
}

func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// Create es un upsert sobre la fila del bucket: una sentencia por request,
// sin filas nuevas mientras el bucket siga abierto.
func (r *UsageRepo) Create(ctx context.Context, rec usage.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analyze_usage_minutely (
			bucket_start, outcome, provider, preset,
			count, duration_ms
		) VALUES ($1,$2,$3,$4,1,$5)
		ON CONFLICT (bucket_start, outcome, provider, preset)
		DO UPDATE SET
			count = analyze_usage_minutely.count + 1,
			duration_ms = analyze_usage_minutely.duration_ms + EXCLUDED.duration_ms
	`,
		usage.BucketStart(rec.OccurredAt),
		string(rec.Outcome),
		rec.Provider,
		rec.Preset,
		rec.Duration.Milliseconds(),
	)
	return err
}

func (r *UsageRepo) Summarize(ctx context.Context, since *time.Time) (usage.Summary, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT outcome, COALESCE(SUM(count), 0)
		FROM analyze_usage_minutely
	`)

	args := []any{}
	if since != nil {
		sb.WriteString(" WHERE bucket_start >= $1")
		args = append(args, usage.BucketStart(*since))
	}
	sb.WriteString(" GROUP BY outcome")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return usage.Summary{}, err
	}
	defer rows.Close()

	sum := usage.Summary{ByOutcome: map[usage.Outcome]int{}}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return usage.Summary{}, err
		}
		sum.ByOutcome[usage.Outcome(outcome)] = n
		sum.Total += n
	}

	return sum, rows.Err()
}

func (r *UsageRepo) Prune(ctx context.Context, before time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM analyze_usage_minutely
		WHERE bucket_start < $1
	`, usage.BucketStart(before))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
