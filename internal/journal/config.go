package journal

import (
	"time"

	"codeberg.org/mutker/powerplanctl/internal/errors"
)

const (
	// File system permissions and paths
	defaultDirPerm       = 0o755
	defaultDBPath        = "/var/lib/powerplanctl/journal.db"
	defaultBatchSize     = 10
	defaultFlushInterval = 30 * time.Second
)

type Config struct {
	DBPath        string
	BatchSize     int
	FlushInterval time.Duration
	Enabled       bool
}

func DefaultConfig() Config {
	return Config{
		DBPath:        defaultDBPath,
		BatchSize:     defaultBatchSize,
		FlushInterval: defaultFlushInterval,
		Enabled:       false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if the journal is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 {
		return errFactory.WithData(ErrInvalidConfig, "batch size must not be negative")
	}
	return nil
}
