package journal

import (
	"database/sql"
	"fmt"

	"codeberg.org/mutker/powerplanctl/internal/errors"
)

// SchemaVersion is stored in the SQLite user_version header field.
const SchemaVersion = 1

const (
	dropTablesSQL = `DROP TABLE IF EXISTS events;`

	createTablesSQL = `
	   CREATE TABLE events (
	       seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	       run_id      TEXT NOT NULL,
	       entry_id    INTEGER NOT NULL CHECK (typeof(entry_id) = 'integer'),
	       recorded_at INTEGER NOT NULL CHECK (typeof(recorded_at) = 'integer'),
	       severity    TEXT NOT NULL CHECK (severity IN ('info', 'success', 'warning')),
	       message     TEXT NOT NULL
	   );
	   CREATE INDEX events_run_id ON events (run_id);`

	insertEventSQL = `
    INSERT INTO events (
        run_id, entry_id, recorded_at, severity, message
    ) VALUES (?, ?, ?, ?, ?)`

	selectRecentSQL = `
    SELECT seq, run_id, entry_id, recorded_at, severity, message
    FROM events
    ORDER BY seq DESC
    LIMIT ?`
)

// GetSchemaVersion returns the schema version of db. A database that was
// never initialized reports 0.
func GetSchemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, errors.New().Wrap(ErrSchemaValidationFailed, err)
	}

	return version, nil
}

// createSchema replaces whatever tables exist with the current schema.
func createSchema(tx *sql.Tx) error {
	for _, stmt := range []string{
		dropTablesSQL,
		createTablesSQL,
		fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion),
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// inTx runs fn in a transaction, committing only when fn succeeds.
func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		// The rollback error adds nothing to fn's error.
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
