package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Run records one processing pass over a set of log files.
type Run struct {
	ID          int64     `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Files       []string  `json:"files"`
	Format      string    `json:"format"`
	Lines       int       `json:"lines"`
	ParseErrors int       `json:"parse_errors"`
}

// RecordRun inserts a run row and returns its assigned ID.
func RecordRun(db *sql.DB, run Run) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO runs (started_at, finished_at, files, format, lines, parse_errors)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		strings.Join(run.Files, "\n"),
		run.Format,
		run.Lines,
		run.ParseErrors,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 or
// less means no limit.
func ListRuns(db *sql.DB, limit int) ([]Run, error) {
	query := `
		SELECT id, started_at, finished_at, files, format, lines, parse_errors
		FROM runs
		ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			started, stopped string
			files            string
		)
		if err := rows.Scan(&run.ID, &started, &stopped, &files, &run.Format, &run.Lines, &run.ParseErrors); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("run %d started_at: %w", run.ID, err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, stopped); err != nil {
			return nil, fmt.Errorf("run %d finished_at: %w", run.ID, err)
		}
		if files != "" {
			run.Files = strings.Split(files, "\n")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
