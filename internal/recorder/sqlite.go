package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the run journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			source      TEXT NOT NULL,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			weeks       INTEGER,
			records     INTEGER,
			years       TEXT,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS year_summaries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			source       TEXT NOT NULL,
			year         INTEGER NOT NULL,
			count        INTEGER,
			avg_price    REAL,
			min_price    REAL,
			max_price    REAL,
			total_volume REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_year_summaries_year ON year_summaries(year)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(evt *RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(source, started_at, finished_at, weeks, records, years, error)
		VALUES (?,?,?,?,?,?,?)`,
		evt.Source, evt.StartedAt.Unix(), evt.FinishedAt.Unix(),
		evt.Weeks, evt.Records, joinYears(evt.Years), evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordYear(evt *YearEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO year_summaries
		(timestamp, source, year, count, avg_price, min_price, max_price, total_volume)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Source, evt.Year, evt.Count,
		evt.AvgPrice, evt.MinPrice, evt.MaxPrice, evt.TotalVolume,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}
