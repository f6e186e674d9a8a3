// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists combine jobs in a SQLite database so that past
// merges and conversions can be listed, inspected and exported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-combiner/pkg/types"
)

const (
	dbFile            = "history.db"
	defaultMaxResults = 20

	// timeLayout is fixed-width so that stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned by Get for an unknown job ID.
var ErrNotFound = errors.New("job not found")

// Store manages the job history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the history database at cfg.Dir/history.db and
// creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			inputs TEXT NOT NULL,
			output TEXT NOT NULL,
			grayscale_output TEXT,
			pages INTEGER,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_started_at ON jobs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts job, or replaces the stored job with the same ID.
func (s *Store) Record(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("recording job: empty ID")
	}
	inputsJSON, err := json.Marshal(job.Inputs)
	if err != nil {
		return fmt.Errorf("encoding inputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, inputs, output, grayscale_output, pages, status, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			inputs=excluded.inputs, output=excluded.output,
			grayscale_output=excluded.grayscale_output, pages=excluded.pages,
			status=excluded.status, error=excluded.error,
			started_at=excluded.started_at, finished_at=excluded.finished_at`,
		job.ID, string(inputsJSON), job.Output, job.GrayscaleOutput, job.Pages,
		string(job.Status), job.Error, formatTime(job.StartedAt), formatTime(job.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("recording job %s: %w", job.ID, err)
	}
	return nil
}

// Get returns the job with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("reading job %s: %w", id, err)
	}
	return job, nil
}

// ListOptions filters List results.
type ListOptions struct {
	// Status keeps only jobs with this status.
	Status types.JobStatus

	// MaxResults limits result count. Zero uses the store default;
	// negative means no limit.
	MaxResults int
}

// List returns jobs, most recent first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`)
	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}
	qb.WriteString(` ORDER BY started_at DESC, id`)

	limit := opts.MaxResults
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

const jobColumns = `id, inputs, output, grayscale_output, pages, status, error, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (types.Job, error) {
	var (
		job                            types.Job
		inputsJSON, status             string
		grayOut, errMsg, started, done sql.NullString
		pages                          sql.NullInt64
	)
	if err := sc.Scan(&job.ID, &inputsJSON, &job.Output, &grayOut, &pages,
		&status, &errMsg, &started, &done); err != nil {
		return types.Job{}, err
	}
	if err := json.Unmarshal([]byte(inputsJSON), &job.Inputs); err != nil {
		return types.Job{}, fmt.Errorf("decoding inputs of job %s: %w", job.ID, err)
	}
	job.GrayscaleOutput = grayOut.String
	job.Pages = int(pages.Int64)
	job.Status = types.JobStatus(status)
	job.Error = errMsg.String
	job.StartedAt = parseTime(started.String)
	job.FinishedAt = parseTime(done.String)
	return job, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
