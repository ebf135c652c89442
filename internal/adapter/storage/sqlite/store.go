package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the SQLite-backed run ledger.
type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

var migrateMu sync.Mutex

func NewStore(dataDir string) (*Store, error) {
	registerHook()

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "framereel.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport upserts the run and replaces its job results.
func (s *Store) SaveReport(r *domain.Report) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, prefix, total_frames, total_sequences, workers, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			prefix = excluded.prefix,
			total_frames = excluded.total_frames,
			total_sequences = excluded.total_sequences,
			workers = excluded.workers,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at`,
		r.ID, r.Prefix, r.TotalFrames, r.TotalSequences, r.Workers,
		toUnix(r.StartedAt), toUnix(r.FinishedAt))
	if err != nil {
		return fmt.Errorf("upsert run %s: %w", r.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_results WHERE run_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear results of run %s: %w", r.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO job_results (run_id, job_id, position, output_path, frames, status, reason, bytes, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, res := range r.Results {
		_, err := stmt.ExecContext(ctx, r.ID, res.JobID, res.Position, res.OutputPath,
			res.Frames, string(res.Status), res.Reason, res.Bytes, int64(res.Duration))
		if err != nil {
			return fmt.Errorf("insert result %s: %w", res.JobID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetReport(id string) (*domain.Report, error) {
	ctx := context.Background()

	var (
		r                 domain.Report
		started, finished int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, prefix, total_frames, total_sequences, workers, started_at, finished_at
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Prefix, &r.TotalFrames, &r.TotalSequences, &r.Workers, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	r.StartedAt = fromUnix(started)
	r.FinishedAt = fromUnix(finished)

	results, err := s.listResults(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	r.Results = results
	return &r, nil
}

func (s *Store) ListReports() ([]*domain.Report, error) {
	rows, err := s.db.Query(`SELECT id FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reports := make([]*domain.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetReport(id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *Store) listResults(ctx context.Context, runID string) ([]domain.DispatchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, position, output_path, frames, status, reason, bytes, duration_ns
		FROM job_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.DispatchResult
	for rows.Next() {
		var (
			res      domain.DispatchResult
			status   string
			duration int64
		)
		if err := rows.Scan(&res.JobID, &res.Position, &res.OutputPath, &res.Frames,
			&status, &res.Reason, &res.Bytes, &duration); err != nil {
			return nil, err
		}
		res.Status = domain.JobStatus(status)
		res.Duration = time.Duration(duration)
		results = append(results, res)
	}
	return results, rows.Err()
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

var _ port.RunStore = (*Store)(nil)
