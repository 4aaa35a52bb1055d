// Package wire provides dependency injection for the apigen application.
// It builds the service graph for one project from its configuration.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	cliadapter "github.com/example/apigen/internal/adapters/cli"
	"github.com/example/apigen/internal/adapters/filesystem"
	"github.com/example/apigen/internal/adapters/framework"
	"github.com/example/apigen/internal/adapters/persistence"
	"github.com/example/apigen/internal/adapters/sqlite"
	"github.com/example/apigen/internal/app"
	"github.com/example/apigen/internal/config"
	"github.com/example/apigen/internal/db"
	"github.com/example/apigen/internal/generator"
	"github.com/example/apigen/internal/ports/primary"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

// Container holds the services built for one project.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service primary.ApiGenerationService

	database *sql.DB
}

// Build wires every adapter and service described by cfg.
func Build(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create filesystem adapter rooted at the project
	files, err := filesystem.NewProjectAdapter(cfg.Project.Root)
	if err != nil {
		return nil, err
	}

	stubs := templates.DefaultLoader()
	if dir := cfg.StubsPath(); dir != "" {
		stubs = stubs.WithOverrides(os.DirFS(dir))
		logger.Debug("using stub overrides", zap.String("dir", dir))
	}

	var fw secondary.Framework = framework.NewSkeletonWriter(files, stubs)
	if cfg.Framework.Artisan {
		fw = framework.NewArtisanRunner(files.Root(), cfg.Framework.PHP, logger)
	}

	layout := LayoutFromConfig(cfg)
	generators, err := generator.Build(cfg.Generators.Order, cfg.Generators.Disabled, generator.Deps{
		Files:     files,
		Stubs:     stubs,
		Framework: fw,
		Layout:    layout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid generators configuration: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger}

	// Create ledger (secondary port) - sqlite unless disabled
	var ledger secondary.ArtifactLedger = persistence.NewNopLedger()
	if !cfg.Ledger.Disabled {
		database, err := db.Open(cfg.LedgerPath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ledger: %w", err)
		}
		c.database = database
		ledger = sqlite.NewLedgerRepository(database)
	}

	deps := app.ApiGenerationDeps{
		Generators: generators,
		Files:      files,
		Layout:     layout,
		Routes:     app.NewRouteFile(files, stubs, cfg.Routes.File, layout.ControllersNamespace),
		Ledger:     ledger,
		Logger:     logger,
	}
	if !cfg.AuthProvider.Disabled {
		deps.AuthProvider = app.NewAuthProviderRegistrar(files, stubs, cfg.AuthProvider.File,
			cfg.Namespaces.Providers, layout.ModelsNamespace, layout.PoliciesNamespace)
	}

	c.Service = app.NewApiGenerationService(deps)
	return c, nil
}

// LayoutFromConfig maps the configured paths and namespaces onto a generator layout.
func LayoutFromConfig(cfg *config.Config) generator.Layout {
	return generator.Layout{
		ModelsDir:      cfg.Paths.Models,
		ControllersDir: cfg.Paths.Controllers,
		RequestsDir:    cfg.Paths.Requests,
		ResourcesDir:   cfg.Paths.Resources,
		ServicesDir:    cfg.Paths.Services,
		DTODir:         cfg.Paths.DTO,
		PoliciesDir:    cfg.Paths.Policies,
		FactoriesDir:   cfg.Paths.Factories,
		SeedersDir:     cfg.Paths.Seeders,
		MigrationsDir:  cfg.Paths.Migrations,

		ModelsNamespace:      cfg.Namespaces.Models,
		ControllersNamespace: cfg.Namespaces.Controllers,
		RequestsNamespace:    cfg.Namespaces.Requests,
		ResourcesNamespace:   cfg.Namespaces.Resources,
		ServicesNamespace:    cfg.Namespaces.Services,
		DTONamespace:         cfg.Namespaces.DTO,
		PoliciesNamespace:    cfg.Namespaces.Policies,
		FactoriesNamespace:   cfg.Namespaces.Factories,
		SeedersNamespace:     cfg.Namespaces.Seeders,
	}
}

// Adapter returns a new ApiGenerationAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func (c *Container) Adapter(out io.Writer) *cliadapter.ApiGenerationAdapter {
	return cliadapter.NewApiGenerationAdapter(c.Service, out)
}

// Close releases the ledger database and flushes the logger.
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	if c.database != nil {
		return c.database.Close()
	}
	return nil
}
