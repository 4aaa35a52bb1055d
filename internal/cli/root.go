package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/apigen/internal/config"
	"github.com/example/apigen/internal/logging"
	"github.com/example/apigen/internal/wire"
)

var globalFlags struct {
	project string
	verbose bool
}

// AddGlobalFlags registers the flags shared by every command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&globalFlags.project, "project", "p", "", "PHP project directory (default: current directory)")
	root.PersistentFlags().BoolVarP(&globalFlags.verbose, "verbose", "v", false, "Log every step to stderr")
}

// projectDir returns the absolute project directory selected by --project.
func projectDir() (string, error) {
	if globalFlags.project == "" {
		return os.Getwd()
	}
	return filepath.Abs(globalFlags.project)
}

// openContainer loads the project configuration and wires the services.
// Callers must Close the container.
func openContainer() (*wire.Container, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, globalFlags.verbose)
	if err != nil {
		return nil, err
	}

	return wire.Build(cfg, logger)
}

// readInput reads the JSON class file, resolving relative paths against the project root.
func readInput(c *wire.Container, path string) ([]byte, error) {
	if path == "" {
		path = c.Config.Input.JSONFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Config.Project.Root, path)
	}
	return os.ReadFile(path)
}
