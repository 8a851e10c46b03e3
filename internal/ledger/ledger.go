// Package ledger persists a running history of checkpoint snapshots to
// a SQLite sidecar database: one row per run, and one row per
// checkpoint within that run.
package ledger

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	experiment_name TEXT NOT NULL,
	frontier_policy TEXT NOT NULL,
	started_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS checkpoints (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id             INTEGER NOT NULL REFERENCES runs(id),
	checkpoint_seq     INTEGER NOT NULL,
	recorded_at        DATETIME NOT NULL,
	downloaded         INTEGER NOT NULL,
	failed_downloads   INTEGER NOT NULL,
	notfound_seeds     INTEGER NOT NULL,
	wrong_linked_docid INTEGER NOT NULL,
	no_outlinks_pages  INTEGER NOT NULL,
	frontier_size      INTEGER NOT NULL,
	seen_count         INTEGER NOT NULL
);
`

// Ledger is a single-writer SQLite sidecar recording one row per run and
// one row per checkpoint within that run.
type Ledger struct {
	db *sql.DB
	mu sync.Mutex

	runID int64
}

// Snapshot is one checkpoint's worth of run counters, recorded to the
// ledger as the orchestrator reaches each checkpoint boundary.
type Snapshot struct {
	CheckpointSeq    int
	Downloaded       int
	FailedDownloads  int
	NotFoundSeeds    int
	WrongLinkedDocID int
	NoOutlinksPages  int
	FrontierSize     int
	SeenCount        int
}

// Open creates (or reuses) a SQLite database at path, applies the
// schema, and begins a new run row.
func Open(path, experimentName, frontierPolicy string) (*Ledger, error) {
	dsn := fmt.Sprintf("%s?_journal=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging ledger database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}

	res, err := db.Exec(
		`INSERT INTO runs (experiment_name, frontier_policy, started_at) VALUES (?, ?, ?)`,
		experimentName, frontierPolicy, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading run id: %w", err)
	}

	return &Ledger{db: db, runID: runID}, nil
}

// Record appends one checkpoint snapshot to the ledger.
func (l *Ledger) Record(s Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`
		INSERT INTO checkpoints (
			run_id, checkpoint_seq, recorded_at, downloaded, failed_downloads,
			notfound_seeds, wrong_linked_docid, no_outlinks_pages, frontier_size, seen_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.runID, s.CheckpointSeq, time.Now(), s.Downloaded, s.FailedDownloads,
		s.NotFoundSeeds, s.WrongLinkedDocID, s.NoOutlinksPages, s.FrontierSize, s.SeenCount,
	)
	if err != nil {
		return fmt.Errorf("recording checkpoint %d: %w", s.CheckpointSeq, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
