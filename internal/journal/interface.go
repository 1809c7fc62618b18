package journal

import (
	"context"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/eventlog"
)

// Journal records event log entries outside the process.
type Journal interface {
	eventlog.Sink
	Record(ctx context.Context, entry eventlog.Entry) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	RunID() string
	Close() error
}

// Repository defines the interface for journal storage
type Repository interface {
	Record(record *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Record is a stored event.
type Record struct {
	Seq        int64
	RunID      string
	EntryID    uint64
	RecordedAt time.Time
	Severity   eventlog.Severity
	Message    string
}
