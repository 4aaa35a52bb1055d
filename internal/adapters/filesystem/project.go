// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/ports/secondary"
)

// ProjectAdapter implements secondary.FileSystem for a project directory.
// Every path it accepts or returns is relative to the project root.
type ProjectAdapter struct {
	root string
}

// Ensure ProjectAdapter implements the interface
var _ secondary.FileSystem = (*ProjectAdapter)(nil)

// NewProjectAdapter creates a new filesystem adapter rooted at root.
// If root is empty, defaults to the current working directory.
func NewProjectAdapter(root string) (*ProjectAdapter, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	return &ProjectAdapter{root: abs}, nil
}

// Root returns the absolute project root.
func (a *ProjectAdapter) Root() string {
	return a.root
}

// resolve maps a relative path onto the root, refusing paths that escape it.
func (a *ProjectAdapter) resolve(path string) (string, error) {
	full := filepath.Join(a.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(a.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.Validation("path %q escapes the project root", path)
	}
	return full, nil
}

// ReadFile returns the content of a project file.
func (a *ProjectAdapter) ReadFile(ctx context.Context, path string) (string, error) {
	full, err := a.resolve(path)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.NotFound(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(content), nil
}

// WriteFile writes a project file, creating parent directories as needed.
func (a *ProjectAdapter) WriteFile(ctx context.Context, path, content string) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Exists checks if a file or directory exists at path.
func (a *ProjectAdapter) Exists(ctx context.Context, path string) (bool, error) {
	full, err := a.resolve(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a single file.
func (a *ProjectAdapter) Remove(ctx context.Context, path string) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NotFound(path)
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// MkdirAll creates a directory and its parents.
func (a *ProjectAdapter) MkdirAll(ctx context.Context, path string) error {
	full, err := a.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Glob returns the sorted relative paths matching pattern.
func (a *ProjectAdapter) Glob(ctx context.Context, pattern string) ([]string, error) {
	full, err := a.resolve(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(a.root, m)
		if err != nil {
			return nil, err
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	sort.Strings(paths)

	return paths, nil
}
