package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one persisted analysis record.
type Run struct {
	ID           string
	CreatedAt    time.Time
	NetlistPath  string
	TopModule    string
	SuccessCount int
	Document     []byte // canonical JSON
}

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// NewRunID generates a UUIDv7 run identifier. Time ordered, so sorting
// ids lexicographically sorts runs by creation time.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun inserts a run record. Uses ON CONFLICT(id) DO NOTHING for
// idempotency - re-inserting the same run is silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("write run: empty id")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, netlist_path, top_module, success_count, document)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		createdAt.UTC().Format(time.RFC3339Nano),
		run.NetlistPath,
		run.TopModule,
		run.SuccessCount,
		string(run.Document),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, netlist_path, top_module, success_count, document
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0
// returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, netlist_path, top_module, success_count, document
		FROM runs
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListRunsForNetlist returns all runs recorded for one netlist path,
// newest first. Used to diff successive analyses of the same design.
func (s *Store) ListRunsForNetlist(ctx context.Context, netlistPath string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, netlist_path, top_module, success_count, document
		FROM runs
		WHERE netlist_path = ?
		ORDER BY id DESC
	`, netlistPath)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt, document string
	if err := row.Scan(&run.ID, &createdAt, &run.NetlistPath, &run.TopModule, &run.SuccessCount, &document); err != nil {
		return Run{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	run.Document = []byte(document)
	return run, nil
}
