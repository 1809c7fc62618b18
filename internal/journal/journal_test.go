package journal_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/journal"
	"codeberg.org/mutker/powerplanctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) journal.Config {
	t.Helper()

	cfg := journal.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = filepath.Join(t.TempDir(), "journal.db")
	cfg.BatchSize = 1
	cfg.FlushInterval = 0

	return cfg
}

func entry(id uint64, msg string, sev eventlog.Severity) eventlog.Entry {
	ts := time.Date(2024, 5, 1, 14, 30, int(id), 0, time.UTC)
	return eventlog.Entry{
		ID:        id,
		Time:      ts,
		Timestamp: ts.Format(eventlog.TimestampFormat),
		Message:   msg,
		Severity:  sev,
	}
}

func TestDisabledJournalIsNoop(t *testing.T) {
	j, err := journal.New(journal.DefaultConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, j.RunID())
	require.NoError(t, j.Record(context.Background(), entry(1, "CPU Usage: 10%", eventlog.Info)))
	j.Publish(entry(2, "CPU Usage: 11%", eventlog.Info))

	records, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, j.Close())
}

func TestConfigValidate(t *testing.T) {
	cfg := journal.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = ""

	_, err := journal.New(cfg)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, journal.ErrInvalidDBPath))

	cfg = journal.DefaultConfig()
	cfg.BatchSize = -1
	assert.Error(t, cfg.Validate())
}

func TestRecordAndRecent(t *testing.T) {
	j, err := journal.New(testConfig(t))
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.Record(ctx, entry(1, "Starting CPU monitoring...", eventlog.Info)))
	require.NoError(t, j.Record(ctx, entry(2, "CPU Usage: 80%", eventlog.Info)))
	j.Publish(entry(3, "Threshold exceeded. Switched to High Performance plan.", eventlog.Warning))

	records, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, uint64(3), records[0].EntryID)
	assert.Equal(t, eventlog.Warning, records[0].Severity)
	assert.Equal(t, "Threshold exceeded. Switched to High Performance plan.", records[0].Message)
	assert.Equal(t, uint64(2), records[1].EntryID)
	assert.Greater(t, records[0].Seq, records[1].Seq)

	for _, r := range records {
		assert.Equal(t, j.RunID(), r.RunID)
	}
	assert.True(t, records[1].RecordedAt.Equal(entry(2, "", eventlog.Info).Time))
}

func TestRecordRejectsZeroID(t *testing.T) {
	j, err := journal.New(testConfig(t))
	require.NoError(t, err)
	defer j.Close()

	err = j.Record(context.Background(), eventlog.Entry{Message: "x", Severity: eventlog.Info})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, journal.ErrInvalidEntry))
}

func TestRecordCancelledContext(t *testing.T) {
	j, err := journal.New(testConfig(t))
	require.NoError(t, err)
	defer j.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = j.Record(ctx, entry(1, "CPU Usage: 1%", eventlog.Info))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, journal.ErrOperationTimeout))
}

func TestBatchedRecordsVisibleAfterRecent(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 50
	cfg.FlushInterval = time.Hour

	j, err := journal.New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	for i := uint64(1); i <= 5; i++ {
		j.Publish(entry(i, "CPU Usage: 40%", eventlog.Info))
	}

	records, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	require.NoError(t, j.Close())
}

func TestCloseFlushesBuffer(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 50
	cfg.FlushInterval = time.Hour

	j, err := journal.New(cfg)
	require.NoError(t, err)
	j.Publish(entry(1, "Stopped CPU monitoring.", eventlog.Info))
	require.NoError(t, j.Close())

	reopened, err := journal.New(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Stopped CPU monitoring.", records[0].Message)
	assert.NotEqual(t, reopened.RunID(), records[0].RunID)
}

func TestSchemaMismatchCreatesBackup(t *testing.T) {
	cfg := testConfig(t)

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE events (id INTEGER PRIMARY KEY, payload TEXT);
		INSERT INTO events (payload) VALUES ('old');
		PRAGMA user_version = 99;`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	j, err := journal.New(cfg)
	require.NoError(t, err)
	defer j.Close()

	backups, err := os.ReadDir(filepath.Join(filepath.Dir(cfg.DBPath), "backups"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Contains(t, backups[0].Name(), "journal_v99_")

	require.NoError(t, j.Record(context.Background(), entry(1, "CPU Usage: 5%", eventlog.Info)))
	records, err := j.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSchemaVersionFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	version, err := journal.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, journal.ValidateAndUpdateSchema(db, path, logger.Default()))

	version, err = journal.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, journal.SchemaVersion, version)
}
