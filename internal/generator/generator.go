// Package generator turns an entity definition into PHP source files. Each generator owns
// one artifact kind; the registry runs them in the configured order.
package generator

import (
	"context"
	"errors"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

// Generator produces one kind of artifact for an entity.
type Generator interface {
	// Type is the artifact kind, also the name used in configuration.
	Type() string

	// Supports reports whether the generator applies to the entity.
	Supports(e *models.EntityDefinition) bool

	// OutputPath is the path the generator would write for the entity.
	OutputPath(e *models.EntityDefinition) string

	// Generate writes or merges the artifact. Failures are *apperrors.GenerationError.
	Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error)
}

// PathResolver is implemented by generators whose target depends on existing project files.
type PathResolver interface {
	ResolvePath(ctx context.Context, e *models.EntityDefinition) (string, error)
}

// Result lists the artifacts a generator touched.
type Result struct {
	Artifacts []models.Artifact
}

func (r *Result) add(kind, path, operation string) {
	r.Artifacts = append(r.Artifacts, models.Artifact{Kind: kind, Path: path, Operation: operation})
}

// Deps holds the collaborators shared by every generator.
type Deps struct {
	Files     secondary.FileSystem
	Stubs     *templates.Loader
	Framework secondary.Framework
	Layout    Layout
	Clock     func() time.Time
	Logger    *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Stubs == nil {
		d.Stubs = templates.DefaultLoader()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// MigrationTimestampFormat prefixes migration file names.
const MigrationTimestampFormat = "2006_01_02_150405"

// base carries the behavior shared by every generator.
type base struct {
	kind string
	deps Deps
}

func newBase(kind string, deps Deps) base {
	return base{kind: kind, deps: deps.withDefaults()}
}

func (b base) Type() string { return b.kind }

func (b base) Supports(e *models.EntityDefinition) bool { return true }

func (b base) fail(err error) error {
	return apperrors.GenerationFailed(b.kind, err)
}

func (b base) render(stub string, replacements templates.Replacements) (string, error) {
	return b.deps.Stubs.Load(stub, replacements)
}

// read returns the current content of p and whether the file exists.
func (b base) read(ctx context.Context, p string) (string, bool, error) {
	content, err := b.deps.Files.ReadFile(ctx, p)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// write stores content at p and reports the resulting operation. Content identical to
// what is on disk is not rewritten.
func (b base) write(ctx context.Context, p, content string) (string, error) {
	previous, existed, err := b.read(ctx, p)
	if err != nil {
		return "", err
	}
	if existed && previous == content {
		return models.OperationSkipped, nil
	}

	if err := b.deps.Files.MkdirAll(ctx, path.Dir(p)); err != nil {
		return "", err
	}
	if err := b.deps.Files.WriteFile(ctx, p, content); err != nil {
		return "", err
	}

	if existed {
		return models.OperationUpdated, nil
	}
	return models.OperationCreated, nil
}

// renderTo renders stub and writes the result at p as a single-artifact Result.
func (b base) renderTo(ctx context.Context, p, stub string, replacements templates.Replacements) (*Result, error) {
	content, err := b.render(stub, replacements)
	if err != nil {
		return nil, b.fail(err)
	}

	op, err := b.write(ctx, p, content)
	if err != nil {
		return nil, b.fail(err)
	}

	b.deps.Logger.Debug("artifact written", zap.String("type", b.kind), zap.String("path", p), zap.String("operation", op))

	result := &Result{}
	result.add(b.kind, p, op)
	return result, nil
}

// ensureSkeleton asks the framework for a skeleton at p unless the file already exists.
func (b base) ensureSkeleton(ctx context.Context, p string, req secondary.SkeletonRequest) error {
	exists, err := b.deps.Files.Exists(ctx, p)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	req.Path = p
	return b.deps.Framework.MakeSkeleton(ctx, req)
}
