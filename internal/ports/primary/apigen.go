package primary

import (
	"context"

	"github.com/example/apigen/internal/models"
)

// ApiGenerationService defines the primary port for scaffolding and removing entity APIs.
type ApiGenerationService interface {
	// GenerateCompleteAPI registers the route and policy of an entity and runs every
	// configured generator for it. The first generator failure aborts the entity; files
	// written before it are kept.
	GenerateCompleteAPI(ctx context.Context, entity *models.EntityDefinition) (*Report, error)

	// GenerateFromJSON parses class descriptions and generates each entity in order.
	// Every entity is attempted; failures are joined into the returned error.
	GenerateFromJSON(ctx context.Context, data []byte) (*BatchReport, error)

	// DeleteCompleteAPI removes the files, route and policy mapping of an entity.
	// Missing files are reported as skipped.
	DeleteCompleteAPI(ctx context.Context, name string) (*Report, error)

	// DeleteFromJSON deletes every entity described in data.
	DeleteFromJSON(ctx context.Context, data []byte) (*BatchReport, error)

	// Plan lists the artifacts GenerateCompleteAPI would touch without writing anything.
	Plan(ctx context.Context, entity *models.EntityDefinition) (*Report, error)

	// History lists recorded runs for an entity, or all runs when entity is empty.
	History(ctx context.Context, entity string) ([]*Run, error)
}

// Report lists what one run did for one entity.
type Report struct {
	RunID     string
	Entity    string
	Artifacts []models.Artifact
}

// Count returns how many artifacts ended with the given operation.
func (r *Report) Count(operation string) int {
	n := 0
	for _, a := range r.Artifacts {
		if a.Operation == operation {
			n++
		}
	}
	return n
}

// BatchReport collects the reports of a multi-entity run, in input order.
// Entities that failed still appear with the artifacts written before the failure.
type BatchReport struct {
	Reports []*Report
}

// Run represents a recorded run at the port boundary.
type Run struct {
	ID         string
	Entity     string
	Source     string
	Status     string
	Error      string
	StartedAt  string
	FinishedAt string
	Artifacts  []models.Artifact
}
