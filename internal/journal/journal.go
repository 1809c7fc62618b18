// Package journal stores event log entries in SQLite so they survive
// restarts. It is optional and disabled by default.
package journal

import (
	"context"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	"github.com/google/uuid"
)

type service struct {
	repo   Repository
	cfg    Config
	runID  string
	logger logger.Logger
}

// No-op implementation
type noopJournal struct {
	runID string
}

func New(cfg Config) (Journal, error) {
	errFactory := errors.New()
	log := logger.New("journal")

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	runID := uuid.NewString()

	if !cfg.Enabled {
		log.Debug().Msg("Journal disabled, using no-op journal")
		return &noopJournal{runID: runID}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create journal repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Str("run_id", runID).
		Msg("Journal initialized")

	return &service{
		repo:   repo,
		cfg:    cfg,
		runID:  runID,
		logger: log,
	}, nil
}

func (s *service) RunID() string {
	return s.runID
}

func (s *service) Record(ctx context.Context, entry eventlog.Entry) error {
	errFactory := errors.New()

	if entry.ID == 0 {
		return errFactory.New(ErrInvalidEntry)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(&Record{
			RunID:      s.runID,
			EntryID:    entry.ID,
			RecordedAt: entry.Time,
			Severity:   entry.Severity,
			Message:    entry.Message,
		}); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

// Publish implements eventlog.Sink. Failures are logged, never returned,
// so a broken journal cannot stall monitoring.
func (s *service) Publish(entry eventlog.Entry) {
	if err := s.Record(context.Background(), entry); err != nil {
		s.logger.Warn().Err(err).Uint64("entry_id", entry.ID).Msg("Failed to journal event")
	}
}

func (s *service) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

func (j *noopJournal) RunID() string { return j.runID }

func (*noopJournal) Record(_ context.Context, _ eventlog.Entry) error {
	return nil
}

func (*noopJournal) Publish(_ eventlog.Entry) {}

func (*noopJournal) Recent(_ context.Context, _ int) ([]Record, error) {
	return []Record{}, nil
}

func (*noopJournal) Close() error {
	return nil
}
