package generator

import (
	"path"

	"github.com/example/apigen/internal/models"
)

// Layout holds the directories and PHP namespaces of every artifact kind.
type Layout struct {
	ModelsDir      string
	ControllersDir string
	RequestsDir    string
	ResourcesDir   string
	ServicesDir    string
	DTODir         string
	PoliciesDir    string
	FactoriesDir   string
	SeedersDir     string
	MigrationsDir  string

	ModelsNamespace      string
	ControllersNamespace string
	RequestsNamespace    string
	ResourcesNamespace   string
	ServicesNamespace    string
	DTONamespace         string
	PoliciesNamespace    string
	FactoriesNamespace   string
	SeedersNamespace     string
}

// DefaultLayout returns the conventional Laravel layout.
func DefaultLayout() Layout {
	return Layout{
		ModelsDir:      "app/Models",
		ControllersDir: "app/Http/Controllers",
		RequestsDir:    "app/Http/Requests",
		ResourcesDir:   "app/Http/Resources",
		ServicesDir:    "app/Services",
		DTODir:         "app/DTO",
		PoliciesDir:    "app/Policies",
		FactoriesDir:   "database/factories",
		SeedersDir:     "database/seeders",
		MigrationsDir:  "database/migrations",

		ModelsNamespace:      `App\Models`,
		ControllersNamespace: `App\Http\Controllers`,
		RequestsNamespace:    `App\Http\Requests`,
		ResourcesNamespace:   `App\Http\Resources`,
		ServicesNamespace:    `App\Services`,
		DTONamespace:         `App\DTO`,
		PoliciesNamespace:    `App\Policies`,
		FactoriesNamespace:   `Database\Factories`,
		SeedersNamespace:     `Database\Seeders`,
	}
}

func (l Layout) ModelPath(name string) string {
	return path.Join(l.ModelsDir, name+".php")
}

func (l Layout) ControllerPath(name string) string {
	return path.Join(l.ControllersDir, name+"Controller.php")
}

func (l Layout) RequestPath(name string) string {
	return path.Join(l.RequestsDir, name+"Request.php")
}

func (l Layout) ResourcePath(name string) string {
	return path.Join(l.ResourcesDir, name+"Resource.php")
}

func (l Layout) ServicePath(name string) string {
	return path.Join(l.ServicesDir, name+"Service.php")
}

func (l Layout) DTOPath(name string) string {
	return path.Join(l.DTODir, name+"DTO.php")
}

func (l Layout) PolicyPath(name string) string {
	return path.Join(l.PoliciesDir, name+"Policy.php")
}

func (l Layout) FactoryPath(name string) string {
	return path.Join(l.FactoriesDir, name+"Factory.php")
}

func (l Layout) SeederPath(name string) string {
	return path.Join(l.SeedersDir, name+"Seeder.php")
}

// MigrationGlob matches every create-table migration for table.
func (l Layout) MigrationGlob(table string) string {
	return path.Join(l.MigrationsDir, "*_create_"+table+"_table.php")
}

// MigrationPath is the create-table migration for table stamped with ts.
func (l Layout) MigrationPath(ts, table string) string {
	return path.Join(l.MigrationsDir, ts+"_create_"+table+"_table.php")
}

// Artifacts lists the fixed-name files generated for an entity, in deletion order.
// Migrations are excluded because their names carry a timestamp.
func (l Layout) Artifacts(name string) []models.Artifact {
	return []models.Artifact{
		{Kind: "model", Path: l.ModelPath(name)},
		{Kind: "controller", Path: l.ControllerPath(name)},
		{Kind: "request", Path: l.RequestPath(name)},
		{Kind: "resource", Path: l.ResourcePath(name)},
		{Kind: "service", Path: l.ServicePath(name)},
		{Kind: "dto", Path: l.DTOPath(name)},
		{Kind: "policy", Path: l.PolicyPath(name)},
		{Kind: "factory", Path: l.FactoryPath(name)},
		{Kind: "seeder", Path: l.SeederPath(name)},
	}
}
