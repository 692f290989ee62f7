// Package storage provides a SQLite-backed ingestion audit log.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// IngestRecord is one completed ingestion run.
type IngestRecord struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	Kind       string    `json:"kind"`
	ChunkCount int       `json:"chunk_count"`
	Duration   float64   `json:"duration_seconds"`
	CreatedAt  time.Time `json:"created_at"`
}

// IngestLog records ingestion runs in SQLite.
type IngestLog struct {
	db *sql.DB
}

// NewIngestLog opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewIngestLog(dbPath string) (*IngestLog, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &IngestLog{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ingest_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		kind TEXT NOT NULL,
		chunk_count INTEGER NOT NULL,
		duration_seconds REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_ingest_records_created_at ON ingest_records(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record appends one ingestion run to the log.
func (l *IngestLog) Record(ctx context.Context, rec *IngestRecord) error {
	rec.CreatedAt = time.Now()
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO ingest_records (source, kind, chunk_count, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Source, rec.Kind, rec.ChunkCount, rec.Duration, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingestion: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

// Count returns the number of recorded ingestion runs.
func (l *IngestLog) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingest_records`).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Recent returns the most recent ingestion runs, newest first.
func (l *IngestLog) Recent(ctx context.Context, limit int) ([]IngestRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, source, kind, chunk_count, duration_seconds, created_at
		 FROM ingest_records ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []IngestRecord
	for rows.Next() {
		var rec IngestRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Kind, &rec.ChunkCount, &rec.Duration, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (l *IngestLog) Close() error {
	return l.db.Close()
}
