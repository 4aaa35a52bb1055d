// Package config loads apigen settings from .apigen/config.yaml with APIGEN_* environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Dir and File locate the configuration relative to a project root.
const (
	Dir  = ".apigen"
	File = "config.yaml"
)

// Config represents the apigen configuration.
// Environment variables override YAML values.
type Config struct {
	Project      ProjectConfig      `yaml:"project"`
	Stubs        StubsConfig        `yaml:"stubs"`
	Paths        PathsConfig        `yaml:"paths"`
	Namespaces   NamespacesConfig   `yaml:"namespaces"`
	Routes       RoutesConfig       `yaml:"routes"`
	Input        InputConfig        `yaml:"input"`
	Generators   GeneratorsConfig   `yaml:"generators"`
	AuthProvider AuthProviderConfig `yaml:"auth_provider"`
	Ledger       LedgerConfig       `yaml:"ledger"`
	Framework    FrameworkConfig    `yaml:"framework"`
	Log          LogConfig          `yaml:"log"`
}

type ProjectConfig struct {
	// Root is the PHP project directory. Defaults to the directory the config was loaded from.
	Root string `yaml:"root" env:"APIGEN_PROJECT_ROOT"`
}

type StubsConfig struct {
	// Path is an optional directory whose stubs override the bundled ones.
	Path string `yaml:"path" env:"APIGEN_STUBS_PATH"`
}

// PathsConfig holds output directories relative to the project root.
type PathsConfig struct {
	Models      string `yaml:"models" env:"APIGEN_PATHS_MODELS" env-default:"app/Models"`
	Controllers string `yaml:"controllers" env:"APIGEN_PATHS_CONTROLLERS" env-default:"app/Http/Controllers"`
	Requests    string `yaml:"requests" env:"APIGEN_PATHS_REQUESTS" env-default:"app/Http/Requests"`
	Resources   string `yaml:"resources" env:"APIGEN_PATHS_RESOURCES" env-default:"app/Http/Resources"`
	Services    string `yaml:"services" env:"APIGEN_PATHS_SERVICES" env-default:"app/Services"`
	DTO         string `yaml:"dto" env:"APIGEN_PATHS_DTO" env-default:"app/DTO"`
	Policies    string `yaml:"policies" env:"APIGEN_PATHS_POLICIES" env-default:"app/Policies"`
	Factories   string `yaml:"factories" env:"APIGEN_PATHS_FACTORIES" env-default:"database/factories"`
	Seeders     string `yaml:"seeders" env:"APIGEN_PATHS_SEEDERS" env-default:"database/seeders"`
	Migrations  string `yaml:"migrations" env:"APIGEN_PATHS_MIGRATIONS" env-default:"database/migrations"`
}

// NamespacesConfig holds the PHP namespace of each generated class kind.
type NamespacesConfig struct {
	Models      string `yaml:"models" env:"APIGEN_NAMESPACES_MODELS" env-default:"App\\Models"`
	Controllers string `yaml:"controllers" env:"APIGEN_NAMESPACES_CONTROLLERS" env-default:"App\\Http\\Controllers"`
	Requests    string `yaml:"requests" env:"APIGEN_NAMESPACES_REQUESTS" env-default:"App\\Http\\Requests"`
	Resources   string `yaml:"resources" env:"APIGEN_NAMESPACES_RESOURCES" env-default:"App\\Http\\Resources"`
	Services    string `yaml:"services" env:"APIGEN_NAMESPACES_SERVICES" env-default:"App\\Services"`
	DTO         string `yaml:"dto" env:"APIGEN_NAMESPACES_DTO" env-default:"App\\DTO"`
	Policies    string `yaml:"policies" env:"APIGEN_NAMESPACES_POLICIES" env-default:"App\\Policies"`
	Factories   string `yaml:"factories" env:"APIGEN_NAMESPACES_FACTORIES" env-default:"Database\\Factories"`
	Seeders     string `yaml:"seeders" env:"APIGEN_NAMESPACES_SEEDERS" env-default:"Database\\Seeders"`
	Providers   string `yaml:"providers" env:"APIGEN_NAMESPACES_PROVIDERS" env-default:"App\\Providers"`
}

type RoutesConfig struct {
	File string `yaml:"file" env:"APIGEN_ROUTES_FILE" env-default:"routes/api.php"`
}

type InputConfig struct {
	// JSONFile is read by generate/delete when no entity name is given.
	JSONFile string `yaml:"json_file" env:"APIGEN_INPUT_JSON_FILE" env-default:"class_data.json"`
}

// GeneratorsConfig fixes which generators run and in what order.
type GeneratorsConfig struct {
	Order    []string `yaml:"order" env:"APIGEN_GENERATORS_ORDER" env-separator:"," env-default:"model,migration,pivot_migration,service,policy,resource,request,dto,seeder,factory,controller"`
	Disabled []string `yaml:"disabled" env:"APIGEN_GENERATORS_DISABLED" env-separator:","`
}

// AuthProviderConfig controls policy registration in AuthServiceProvider.
type AuthProviderConfig struct {
	Disabled bool   `yaml:"disabled" env:"APIGEN_AUTH_PROVIDER_DISABLED"`
	File     string `yaml:"file" env:"APIGEN_AUTH_PROVIDER_FILE" env-default:"app/Providers/AuthServiceProvider.php"`
}

// LedgerConfig controls the SQLite record of generated artifacts.
type LedgerConfig struct {
	Disabled bool `yaml:"disabled" env:"APIGEN_LEDGER_DISABLED"`
	// Path is relative to the project root unless absolute.
	Path string `yaml:"path" env:"APIGEN_LEDGER_PATH" env-default:".apigen/ledger.db"`
}

// FrameworkConfig selects how skeleton files are created.
type FrameworkConfig struct {
	// Artisan runs "php artisan make:*" instead of rendering bundled skeleton stubs.
	Artisan bool   `yaml:"artisan" env:"APIGEN_FRAMEWORK_ARTISAN"`
	PHP     string `yaml:"php" env:"APIGEN_FRAMEWORK_PHP" env-default:"php"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"APIGEN_LOG_LEVEL" env-default:"warn"`
}

// Path returns the config file location for a project directory.
func Path(dir string) string {
	return filepath.Join(dir, Dir, File)
}

// Load reads .apigen/config.yaml from dir with environment variable overrides.
// A missing file is not an error: defaults and environment variables apply.
func Load(dir string) (*Config, error) {
	cfg := &Config{}
	path := Path(dir)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	switch {
	case cfg.Project.Root == "":
		cfg.Project.Root = dir
	case !filepath.IsAbs(cfg.Project.Root):
		cfg.Project.Root = filepath.Join(dir, cfg.Project.Root)
	}

	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to .apigen/config.yaml under dir.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LedgerPath resolves the ledger database path against the project root.
func (c *Config) LedgerPath() string {
	if filepath.IsAbs(c.Ledger.Path) {
		return c.Ledger.Path
	}
	return filepath.Join(c.Project.Root, c.Ledger.Path)
}

// StubsPath resolves the stub override directory, or "" when none is configured.
func (c *Config) StubsPath() string {
	if c.Stubs.Path == "" || filepath.IsAbs(c.Stubs.Path) {
		return c.Stubs.Path
	}
	return filepath.Join(c.Project.Root, c.Stubs.Path)
}
