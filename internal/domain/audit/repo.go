package audit

import (
	"context"
	"time"
)

// Recorder is the write side used by the engine. Record is fire-and-forget:
// implementations must not return an error and must not panic.
type Recorder interface {
	Record(ctx context.Context, level, component, message string, opts ...Option)
}

// Repository adds the read and maintenance side to the Recorder.
type Repository interface {
	Recorder

	// Recent returns up to limit entries, newest first, optionally filtered
	// by level.
	Recent(ctx context.Context, limit int, level string) ([]*Entry, error)

	// RecentErrors returns ERROR entries recorded within the given window.
	RecentErrors(ctx context.Context, within time.Duration) ([]*Entry, error)

	// Purge deletes entries older than the retention window and returns the
	// number removed.
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// Discard is a Recorder that drops every entry. Useful in tests.
type Discard struct{}

func (Discard) Record(context.Context, string, string, string, ...Option) {}
