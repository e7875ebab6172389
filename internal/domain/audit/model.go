// Package audit is the best-effort system log collaborator. Every engine
// operation records its progress here; a failed write must never abort the
// operation that produced it, so the pgx implementation swallows its own
// errors and falls back to console logging.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Log levels stored in the nivel column.
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Entry maps to the log_sistema table.
type Entry struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Level      string     `db:"nivel" json:"level"`
	Component  string     `db:"componente" json:"component"`
	Message    string     `db:"mensaje" json:"message"`
	Detail     *string    `db:"excepcion" json:"detail,omitempty"`
	Extra      *string    `db:"datos_adicionales" json:"extra,omitempty"`
	ActorID    *uuid.UUID `db:"usuario_id" json:"actor_id,omitempty"`
	Endpoint   *string    `db:"endpoint" json:"endpoint,omitempty"`
	RecordedAt time.Time  `db:"fecha_registro" json:"recorded_at"`
}

// Option attaches optional detail to a recorded entry.
type Option func(*Entry)

// WithDetail attaches error or exception detail.
func WithDetail(detail string) Option {
	return func(e *Entry) { e.Detail = &detail }
}

// WithExtra attaches an additional JSON payload.
func WithExtra(extra string) Option {
	return func(e *Entry) { e.Extra = &extra }
}

// WithActor attaches the identifier of the patient or user involved.
func WithActor(id uuid.UUID) Option {
	return func(e *Entry) { e.ActorID = &id }
}

// WithEndpoint attaches the transport endpoint that triggered the entry.
func WithEndpoint(endpoint string) Option {
	return func(e *Entry) { e.Endpoint = &endpoint }
}
