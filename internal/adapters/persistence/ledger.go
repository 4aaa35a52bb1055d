// Package persistence contains persistence adapters that are not tied to a database engine.
package persistence

import (
	"context"

	"github.com/example/apigen/internal/ports/secondary"
)

// NopLedger implements secondary.ArtifactLedger by discarding everything.
// It is wired when the ledger is disabled in configuration.
type NopLedger struct{}

// NewNopLedger creates a new NopLedger.
func NewNopLedger() *NopLedger {
	return &NopLedger{}
}

func (NopLedger) StartRun(ctx context.Context, run *secondary.RunRecord) error { return nil }

func (NopLedger) FinishRun(ctx context.Context, runID, status, errMsg string) error { return nil }

func (NopLedger) Record(ctx context.Context, artifact *secondary.ArtifactRecord) error { return nil }

func (NopLedger) ListByEntity(ctx context.Context, entity string) ([]*secondary.ArtifactRecord, error) {
	return nil, nil
}

func (NopLedger) ListRuns(ctx context.Context, entity string) ([]*secondary.RunRecord, error) {
	return nil, nil
}

func (NopLedger) DeleteByEntity(ctx context.Context, entity string) error { return nil }

// Ensure NopLedger implements the interface
var _ secondary.ArtifactLedger = NopLedger{}
