// Package inventory persists scan results in a local SQLite database so
// an export can run from a saved inventory instead of a fresh scan.
package inventory

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fileorg/fileorg/internal/common"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/util"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	root        TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	total_files INTEGER NOT NULL,
	total_size  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	path      TEXT NOT NULL,
	size      INTEGER NOT NULL,
	category  TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	extension TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root, started_at);
`

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

func New(dbPath string, log *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("cannot ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("cannot apply schema: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With(slog.String("item", "InventoryStore")),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the result as a new run and returns its id. Scan errors are
// not persisted; the inventory only needs the records an export can act
// on.
func (s *Store) Save(result *entity.AnalysisResult) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, root, started_at, finished_at, total_files, total_size)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, result.Root, result.StartedAt, result.FinishedAt, result.TotalFiles, result.TotalSize)
	if err != nil {
		return "", fmt.Errorf("cannot insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO files (run_id, position, path, size, category, mime_type, extension)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range result.Records {
		if _, err := stmt.Exec(runID, i, rec.Path, rec.Size, rec.Category.String(), rec.MIMEType, rec.Extension); err != nil {
			return "", fmt.Errorf("cannot insert file record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("cannot commit run: %w", err)
	}

	s.log.Info("Run saved", slog.String("run_id", runID), slog.Int("files", result.TotalFiles))

	return runID, nil
}

// Load rebuilds the result of a saved run, aggregates included, in the
// original scan order.
func (s *Store) Load(runID string) (*entity.AnalysisResult, error) {
	var (
		root       string
		startedAt  time.Time
		finishedAt time.Time
	)

	err := s.db.QueryRow(`SELECT root, started_at, finished_at FROM runs WHERE id = ?`, runID).
		Scan(&root, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load run: %w", err)
	}

	result := entity.NewAnalysisResult(root)
	result.StartedAt = startedAt
	result.FinishedAt = finishedAt

	rows, err := s.db.Query(`SELECT path, size, category, mime_type, extension
		FROM files WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("cannot load file records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec      entity.FileRecord
			category string
		)

		if err := rows.Scan(&rec.Path, &rec.Size, &category, &rec.MIMEType, &rec.Extension); err != nil {
			return nil, fmt.Errorf("cannot scan file record: %w", err)
		}

		rec.Category = entity.Category(category)
		rec.ID = util.GetIDFromString(&rec.Path)
		result.Add(&rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read file records: %w", err)
	}

	return result, nil
}

// LastRun returns the id of the most recent run for root, or of the most
// recent run overall when root is empty.
func (s *Store) LastRun(root string) (string, error) {
	query := `SELECT id FROM runs ORDER BY started_at DESC LIMIT 1`
	args := []any{}
	if root != "" {
		query = `SELECT id FROM runs WHERE root = ? ORDER BY started_at DESC LIMIT 1`
		args = append(args, root)
	}

	var runID string
	err := s.db.QueryRow(query, args...).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNoRunsFound
	}
	if err != nil {
		return "", fmt.Errorf("cannot query runs: %w", err)
	}

	return runID, nil
}
