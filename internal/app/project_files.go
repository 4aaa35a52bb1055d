package app

import (
	"context"
	"errors"
	"path"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/ports/secondary"
)

// readOptional returns the content of p and whether it exists.
func readOptional(ctx context.Context, files secondary.FileSystem, p string) (string, bool, error) {
	content, err := files.ReadFile(ctx, p)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// writeChanged writes content at p unless it equals previous, and reports the operation.
func writeChanged(ctx context.Context, files secondary.FileSystem, p, previous, content string, existed bool) (string, error) {
	if existed && previous == content {
		return models.OperationSkipped, nil
	}
	if err := files.MkdirAll(ctx, path.Dir(p)); err != nil {
		return "", err
	}
	if err := files.WriteFile(ctx, p, content); err != nil {
		return "", err
	}
	if existed {
		return models.OperationUpdated, nil
	}
	return models.OperationCreated, nil
}

// removeOptional deletes p, reporting skipped when it does not exist.
func removeOptional(ctx context.Context, files secondary.FileSystem, p string) (string, error) {
	err := files.Remove(ctx, p)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.OperationSkipped, nil
	}
	if err != nil {
		return "", err
	}
	return models.OperationDeleted, nil
}
