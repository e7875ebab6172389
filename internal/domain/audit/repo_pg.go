package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type repoPG struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewRepo returns the pgx-backed audit log. The zerolog logger is the console
// fallback when the database write fails.
func NewRepo(pool *pgxpool.Pool, log zerolog.Logger) Repository {
	return &repoPG{pool: pool, log: log}
}

const entryCols = `id, nivel, componente, mensaje, excepcion, datos_adicionales,
	usuario_id, endpoint, fecha_registro`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Level, &e.Component, &e.Message, &e.Detail,
		&e.Extra, &e.ActorID, &e.Endpoint, &e.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Record writes an entry to log_sistema. Failures never propagate: the entry
// is downgraded to a console log so the primary operation proceeds untouched.
func (r *repoPG) Record(ctx context.Context, level, component, message string, opts ...Option) {
	e := &Entry{
		ID:        uuid.New(),
		Level:     level,
		Component: component,
		Message:   message,
	}
	for _, opt := range opts {
		opt(e)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO log_sistema (id, nivel, componente, mensaje, excepcion, datos_adicionales, usuario_id, endpoint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Level, e.Component, e.Message, e.Detail, e.Extra, e.ActorID, e.Endpoint)
	if err != nil {
		r.log.Warn().Err(err).
			Str("level", e.Level).
			Str("component", e.Component).
			Str("message", e.Message).
			Msg("audit write failed, entry logged to console only")
	}
}

func (r *repoPG) Recent(ctx context.Context, limit int, level string) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`SELECT %s FROM log_sistema`, entryCols)
	args := []interface{}{}
	if level != "" {
		query += ` WHERE nivel = $1 ORDER BY fecha_registro DESC LIMIT $2`
		args = append(args, level, limit)
	} else {
		query += ` ORDER BY fecha_registro DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent logs: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *repoPG) RecentErrors(ctx context.Context, within time.Duration) ([]*Entry, error) {
	since := time.Now().UTC().Add(-within)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM log_sistema
		WHERE nivel = $1 AND fecha_registro >= $2
		ORDER BY fecha_registro DESC`, entryCols), LevelError, since)
	if err != nil {
		return nil, fmt.Errorf("query recent errors: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *repoPG) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM log_sistema WHERE fecha_registro < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectEntries(rows pgx.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return entries, nil
}
