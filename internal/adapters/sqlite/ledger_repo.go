// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/example/apigen/internal/ports/secondary"
)

// LedgerRepository implements secondary.ArtifactLedger with SQLite.
type LedgerRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ secondary.ArtifactLedger = (*LedgerRepository)(nil)

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db, now: time.Now}
}

func (r *LedgerRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}

func (r *LedgerRepository) exec(ctx context.Context, builder sq.Sqlizer) (sql.Result, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return r.db.ExecContext(ctx, query, args...)
}

// StartRun persists a new run in the running state.
func (r *LedgerRepository) StartRun(ctx context.Context, run *secondary.RunRecord) error {
	if run.StartedAt == "" {
		run.StartedAt = r.timestamp()
	}
	if run.Status == "" {
		run.Status = secondary.RunStatusRunning
	}

	_, err := r.exec(ctx, sq.Insert("runs").
		Columns("id", "entity", "source", "status", "started_at").
		Values(run.ID, run.Entity, run.Source, run.Status, run.StartedAt))
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	return nil
}

// FinishRun sets the final status and error message of a run.
func (r *LedgerRepository) FinishRun(ctx context.Context, runID, status, errMsg string) error {
	var errValue sql.NullString
	if errMsg != "" {
		errValue = sql.NullString{String: errMsg, Valid: true}
	}

	result, err := r.exec(ctx, sq.Update("runs").
		Set("status", status).
		Set("error", errValue).
		Set("finished_at", r.timestamp()).
		Where(sq.Eq{"id": runID}))
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	return nil
}

// Record persists one artifact of a run.
func (r *LedgerRepository) Record(ctx context.Context, artifact *secondary.ArtifactRecord) error {
	if artifact.CreatedAt == "" {
		artifact.CreatedAt = r.timestamp()
	}

	result, err := r.exec(ctx, sq.Insert("artifacts").
		Columns("run_id", "entity", "kind", "path", "operation", "created_at").
		Values(artifact.RunID, artifact.Entity, artifact.Kind, artifact.Path, artifact.Operation, artifact.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to record artifact: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		artifact.ID = id
	}

	return nil
}

// ListByEntity retrieves artifacts for an entity, or all artifacts when entity is empty.
func (r *LedgerRepository) ListByEntity(ctx context.Context, entity string) ([]*secondary.ArtifactRecord, error) {
	builder := sq.Select("id", "run_id", "entity", "kind", "path", "operation", "created_at").
		From("artifacts").
		OrderBy("id ASC")
	if entity != "" {
		builder = builder.Where(sq.Eq{"entity": entity})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*secondary.ArtifactRecord
	for rows.Next() {
		a := &secondary.ArtifactRecord{}
		if err := rows.Scan(&a.ID, &a.RunID, &a.Entity, &a.Kind, &a.Path, &a.Operation, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}

	return artifacts, rows.Err()
}

// ListRuns retrieves runs for an entity, or all runs when entity is empty.
func (r *LedgerRepository) ListRuns(ctx context.Context, entity string) ([]*secondary.RunRecord, error) {
	builder := sq.Select("id", "entity", "source", "status", "error", "started_at", "finished_at").
		From("runs").
		OrderBy("started_at ASC", "id ASC")
	if entity != "" {
		builder = builder.Where(sq.Eq{"entity": entity})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		var (
			run        = &secondary.RunRecord{}
			errMsg     sql.NullString
			finishedAt sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Entity, &run.Source, &run.Status, &errMsg, &run.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Error = errMsg.String
		run.FinishedAt = finishedAt.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteByEntity removes every run and artifact of an entity.
func (r *LedgerRepository) DeleteByEntity(ctx context.Context, entity string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"artifacts", "runs"} {
		query, args, err := sq.Delete(table).Where(sq.Eq{"entity": entity}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete %s for %s: %w", table, entity, err)
		}
	}

	return tx.Commit()
}
