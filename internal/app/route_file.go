package app

import (
	"context"
	"fmt"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
	"github.com/example/apigen/internal/patch"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

// RouteFile keeps one apiResource line per entity in the project's API route file.
type RouteFile struct {
	files                secondary.FileSystem
	stubs                *templates.Loader
	path                 string
	controllersNamespace string
}

// NewRouteFile creates a RouteFile editing the file at p.
func NewRouteFile(files secondary.FileSystem, stubs *templates.Loader, p, controllersNamespace string) *RouteFile {
	return &RouteFile{
		files:                files,
		stubs:                stubs,
		path:                 p,
		controllersNamespace: controllersNamespace,
	}
}

// Path returns the route file path relative to the project root.
func (r *RouteFile) Path() string {
	return r.path
}

// RouteLine returns the route registration for an entity name.
func (r *RouteFile) RouteLine(name string) string {
	return fmt.Sprintf("Route::apiResource('%s', %s\\%sController::class);",
		naming.Plural(naming.Lower(name)), r.controllersNamespace, name)
}

// Add appends the entity's route line unless it is already registered.
// A missing route file is created with the standard header.
func (r *RouteFile) Add(ctx context.Context, name string) (models.Artifact, error) {
	artifact := models.Artifact{Kind: "route", Path: r.path}

	previous, existed, err := readOptional(ctx, r.files, r.path)
	if err != nil {
		return artifact, fmt.Errorf("failed to read route file: %w", err)
	}

	content := previous
	if !existed {
		if content, err = r.stubs.Raw("routes"); err != nil {
			return artifact, err
		}
	}
	content, _ = patch.EnsureLine(content, r.RouteLine(name))

	artifact.Operation, err = writeChanged(ctx, r.files, r.path, previous, content, existed)
	if err != nil {
		return artifact, fmt.Errorf("failed to write route file: %w", err)
	}
	return artifact, nil
}

// Remove drops the entity's route line. A missing file or line is reported as skipped.
func (r *RouteFile) Remove(ctx context.Context, name string) (models.Artifact, error) {
	artifact := models.Artifact{Kind: "route", Path: r.path, Operation: models.OperationSkipped}

	previous, existed, err := readOptional(ctx, r.files, r.path)
	if err != nil {
		return artifact, fmt.Errorf("failed to read route file: %w", err)
	}
	if !existed {
		return artifact, nil
	}

	content, removed := patch.RemoveLine(previous, r.RouteLine(name))
	if !removed {
		return artifact, nil
	}

	if err := r.files.WriteFile(ctx, r.path, content); err != nil {
		return artifact, fmt.Errorf("failed to write route file: %w", err)
	}
	artifact.Operation = models.OperationUpdated
	return artifact, nil
}
