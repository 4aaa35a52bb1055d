package app

import (
	"context"
	"errors"
	"path"
	"sort"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/generator"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// memFileSystem implements secondary.FileSystem in memory.
type memFileSystem struct {
	files    map[string]string
	writeErr error
}

func newMemFileSystem() *memFileSystem {
	return &memFileSystem{files: make(map[string]string)}
}

func (m *memFileSystem) ReadFile(ctx context.Context, p string) (string, error) {
	content, ok := m.files[p]
	if !ok {
		return "", apperrors.NotFound(p)
	}
	return content, nil
}

func (m *memFileSystem) WriteFile(ctx context.Context, p, content string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[p] = content
	return nil
}

func (m *memFileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, ok := m.files[p]
	return ok, nil
}

func (m *memFileSystem) Remove(ctx context.Context, p string) error {
	if _, ok := m.files[p]; !ok {
		return apperrors.NotFound(p)
	}
	delete(m.files, p)
	return nil
}

func (m *memFileSystem) MkdirAll(ctx context.Context, p string) error {
	return nil
}

func (m *memFileSystem) Glob(ctx context.Context, pattern string) ([]string, error) {
	var matches []string
	for p := range m.files {
		ok, err := path.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, p)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// mockLedger implements secondary.ArtifactLedger for testing.
type mockLedger struct {
	runs      []*secondary.RunRecord
	artifacts []*secondary.ArtifactRecord
	err       error
}

func newMockLedger() *mockLedger {
	return &mockLedger{}
}

func (m *mockLedger) StartRun(ctx context.Context, run *secondary.RunRecord) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockLedger) FinishRun(ctx context.Context, runID, status, errMsg string) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range m.runs {
		if r.ID == runID {
			r.Status = status
			r.Error = errMsg
			r.FinishedAt = "2024-01-02T03:04:05Z"
			return nil
		}
	}
	return errors.New("run not found")
}

func (m *mockLedger) Record(ctx context.Context, artifact *secondary.ArtifactRecord) error {
	if m.err != nil {
		return m.err
	}
	artifact.ID = int64(len(m.artifacts) + 1)
	m.artifacts = append(m.artifacts, artifact)
	return nil
}

func (m *mockLedger) ListByEntity(ctx context.Context, entity string) ([]*secondary.ArtifactRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*secondary.ArtifactRecord
	for _, a := range m.artifacts {
		if entity == "" || a.Entity == entity {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockLedger) ListRuns(ctx context.Context, entity string) ([]*secondary.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*secondary.RunRecord
	for _, r := range m.runs {
		if entity == "" || r.Entity == entity {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockLedger) DeleteByEntity(ctx context.Context, entity string) error {
	if m.err != nil {
		return m.err
	}
	runs := m.runs[:0]
	for _, r := range m.runs {
		if r.Entity != entity {
			runs = append(runs, r)
		}
	}
	m.runs = runs

	artifacts := m.artifacts[:0]
	for _, a := range m.artifacts {
		if a.Entity != entity {
			artifacts = append(artifacts, a)
		}
	}
	m.artifacts = artifacts
	return nil
}

// mockGenerator implements generator.Generator for testing.
type mockGenerator struct {
	kind     string
	supports func(e *models.EntityDefinition) bool
	failFor  string // entity name that makes Generate fail
	calls    []string
}

func (m *mockGenerator) Type() string { return m.kind }

func (m *mockGenerator) Supports(e *models.EntityDefinition) bool {
	if m.supports != nil {
		return m.supports(e)
	}
	return true
}

func (m *mockGenerator) OutputPath(e *models.EntityDefinition) string {
	return "out/" + e.Name() + "." + m.kind
}

func (m *mockGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*generator.Result, error) {
	m.calls = append(m.calls, e.Name())
	if m.failFor == e.Name() {
		return nil, apperrors.GenerationFailed(m.kind, errors.New("boom"))
	}
	return &generator.Result{Artifacts: []models.Artifact{
		{Kind: m.kind, Path: m.OutputPath(e), Operation: models.OperationCreated},
	}}, nil
}
