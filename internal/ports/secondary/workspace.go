// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import "context"

// FileSystem defines the secondary port for reading and writing project files.
// Paths are relative to the project root.
type FileSystem interface {
	// ReadFile returns the file content. A missing file yields apperrors.ErrNotFound.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteFile writes content, creating parent directories as needed.
	WriteFile(ctx context.Context, path, content string) error

	Exists(ctx context.Context, path string) (bool, error)

	// Remove deletes a file. A missing file yields apperrors.ErrNotFound.
	Remove(ctx context.Context, path string) error

	MkdirAll(ctx context.Context, path string) error

	// Glob returns the sorted relative paths matching pattern.
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// SkeletonKind names a file kind the framework knows how to create.
type SkeletonKind string

const (
	SkeletonController SkeletonKind = "controller"
	SkeletonPolicy     SkeletonKind = "policy"
	SkeletonMigration  SkeletonKind = "migration"
)

// SkeletonRequest describes one skeleton file to create.
type SkeletonRequest struct {
	Kind           SkeletonKind
	Model          string // PascalCase model name
	Table          string // table name, used by migrations
	Path           string // suggested path relative to the project root
	Namespace      string // namespace of the created class
	ModelNamespace string // namespace of the model, used by policies
}

// Framework defines the secondary port for the PHP framework's own file-creation commands.
// Implementations may write to a different path than suggested (migrations carry their own
// timestamp); callers locate the result afterwards.
type Framework interface {
	MakeSkeleton(ctx context.Context, req SkeletonRequest) error
}
