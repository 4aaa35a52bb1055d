// Package framework creates framework skeleton files, either from bundled stubs or by
// shelling out to the framework's own console.
package framework

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/naming"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

// SkeletonWriter implements secondary.Framework by rendering skeleton stubs. The output
// matches what the framework's make commands produce, without needing PHP installed.
type SkeletonWriter struct {
	files secondary.FileSystem
	stubs *templates.Loader
}

var _ secondary.Framework = (*SkeletonWriter)(nil)

// NewSkeletonWriter creates a new stub-backed framework adapter.
func NewSkeletonWriter(files secondary.FileSystem, stubs *templates.Loader) *SkeletonWriter {
	return &SkeletonWriter{files: files, stubs: stubs}
}

// MakeSkeleton writes the skeleton for req.Kind at req.Path.
func (w *SkeletonWriter) MakeSkeleton(ctx context.Context, req secondary.SkeletonRequest) error {
	if req.Path == "" {
		return apperrors.Validation("skeleton path is required")
	}

	content, err := w.stubs.Load(string(req.Kind)+".skeleton", templates.Replacements{
		"namespace":       req.Namespace,
		"model_namespace": req.ModelNamespace,
		"class":           req.Model,
		"variable":        naming.Camel(req.Model),
		"table":           req.Table,
	})
	if err != nil {
		return err
	}

	if err := w.files.WriteFile(ctx, req.Path, content); err != nil {
		return fmt.Errorf("failed to write %s skeleton: %w", req.Kind, err)
	}
	return nil
}

// ArtisanRunner implements secondary.Framework by running "php artisan make:*" in the
// project root. Migrations land at a path chosen by the framework.
type ArtisanRunner struct {
	root   string
	php    string
	logger *zap.Logger
}

var _ secondary.Framework = (*ArtisanRunner)(nil)

// NewArtisanRunner creates a new artisan-backed framework adapter.
// If php is empty, "php" is looked up on PATH.
func NewArtisanRunner(root, php string, logger *zap.Logger) *ArtisanRunner {
	if php == "" {
		php = "php"
	}
	return &ArtisanRunner{root: root, php: php, logger: logger}
}

// Args returns the artisan arguments for req.
func (r *ArtisanRunner) Args(req secondary.SkeletonRequest) ([]string, error) {
	switch req.Kind {
	case secondary.SkeletonController:
		return []string{"artisan", "make:controller", req.Model + "Controller"}, nil
	case secondary.SkeletonPolicy:
		return []string{"artisan", "make:policy", req.Model + "Policy", "--model=" + req.Model}, nil
	case secondary.SkeletonMigration:
		return []string{"artisan", "make:migration", "create_" + req.Table + "_table"}, nil
	}
	return nil, apperrors.Validation("unsupported skeleton kind %q", req.Kind)
}

// MakeSkeleton runs the matching make command.
func (r *ArtisanRunner) MakeSkeleton(ctx context.Context, req secondary.SkeletonRequest) error {
	args, err := r.Args(req)
	if err != nil {
		return err
	}

	r.logger.Debug("running artisan", zap.String("command", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, r.php, args...)
	cmd.Dir = r.root

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s failed: %w: %s", r.php, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return nil
}
