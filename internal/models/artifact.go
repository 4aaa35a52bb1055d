package models

// Artifact operations.
const (
	OperationCreated = "created"
	OperationUpdated = "updated"
	OperationSkipped = "skipped"
	OperationDeleted = "deleted"
	OperationPlanned = "planned"
)

// Artifact is one file touched by a generation or deletion run.
type Artifact struct {
	Kind      string
	Path      string
	Operation string
}
