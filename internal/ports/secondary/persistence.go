// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// ArtifactLedger defines the secondary port for recording what each run wrote.
type ArtifactLedger interface {
	// StartRun persists a new run in the running state.
	StartRun(ctx context.Context, run *RunRecord) error

	// FinishRun sets the final status and error message of a run.
	FinishRun(ctx context.Context, runID, status, errMsg string) error

	// Record persists one artifact of a run.
	Record(ctx context.Context, artifact *ArtifactRecord) error

	// ListByEntity retrieves artifacts for an entity, or all artifacts when entity is empty.
	ListByEntity(ctx context.Context, entity string) ([]*ArtifactRecord, error)

	// ListRuns retrieves runs for an entity, or all runs when entity is empty.
	ListRuns(ctx context.Context, entity string) ([]*RunRecord, error)

	// DeleteByEntity removes every run and artifact of an entity.
	DeleteByEntity(ctx context.Context, entity string) error
}

// RunRecord represents one generation or deletion run as stored in persistence.
type RunRecord struct {
	ID         string
	Entity     string
	Source     string // "fields", "json" or "delete"
	Status     string
	Error      string // Empty string means null
	StartedAt  string
	FinishedAt string // Empty string means null
}

// ArtifactRecord represents one written file as stored in persistence.
type ArtifactRecord struct {
	ID        int64
	RunID     string
	Entity    string
	Kind      string
	Path      string
	Operation string
	CreatedAt string
}
