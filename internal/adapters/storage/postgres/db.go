package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// analyze_usage_minutely guarda contadores por minuto, outcome, proveedor y preset.
// Las filas crecen con el tiempo, no con el tráfico, y Prune las recorta.
var usageSchema = []string{`
	CREATE TABLE IF NOT EXISTS analyze_usage_minutely (
		bucket_start TIMESTAMPTZ NOT NULL,
		outcome      TEXT NOT NULL,
		provider     TEXT NOT NULL DEFAULT '',
		preset       TEXT NOT NULL DEFAULT '',
		count        BIGINT NOT NULL DEFAULT 0,
		duration_ms  BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (bucket_start, outcome, provider, preset)
	)`,
}

// EnsureUsageSchema crea la tabla del ledger si no existe. Idempotente.
func EnsureUsageSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range usageSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
