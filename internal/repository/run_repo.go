package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"haber_bosch_console/internal/models"

	"github.com/google/uuid"
)

// sqliteTimestamp is the TIMESTAMP text layout stored in render_runs.
const sqliteTimestamp = "2006-01-02 15:04:05"

const (
	insertRunSQL = `
		INSERT INTO render_runs (id, started_at, kind, elapsed_ms, outcome, sides, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectRunsSQL = `SELECT id, started_at, kind, elapsed_ms, outcome, sides, detail FROM render_runs`
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

// Append inserts a run. If ID or StartedAt are empty, they're set.
func (r *RunSQLite) Append(ctx context.Context, run models.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	} else {
		run.StartedAt = run.StartedAt.UTC()
	}

	var detail *string
	if run.Detail != "" {
		detail = &run.Detail
	}

	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.StartedAt.Format(sqliteTimestamp),
		strings.TrimSpace(run.Kind),
		run.ElapsedMs,
		strings.ToUpper(strings.TrimSpace(run.Outcome)),
		run.Sides,
		detail,
	)
	return err
}

// List returns runs filtered by [from, to] (inclusive) and/or kind, oldest first.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, kind string) ([]models.RunRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestamp))
	}
	if !to.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestamp))
	}
	if kind = strings.TrimSpace(kind); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := selectRunsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.RunRecord, 0, 64)
	for rows.Next() {
		var run models.RunRecord
		var detail sql.NullString
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.Kind, &run.ElapsedMs, &run.Outcome, &run.Sides, &detail); err != nil {
			return nil, err
		}
		run.StartedAt = run.StartedAt.UTC()
		if detail.Valid {
			run.Detail = detail.String
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
