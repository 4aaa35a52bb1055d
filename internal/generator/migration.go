package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
	"github.com/example/apigen/internal/patch"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

// ColumnsAnchor delimits the generated columns inside a create-table migration.
var ColumnsAnchor = patch.Anchor{Start: "$table->id();", End: "$table->timestamps();"}

const columnIndent = "            "

// MigrationGenerator merges columns and foreign keys into the entity's create-table
// migration, reusing an existing migration for the table when there is one.
type MigrationGenerator struct {
	base
}

// NewMigrationGenerator creates a new MigrationGenerator.
func NewMigrationGenerator(deps Deps) Generator {
	return &MigrationGenerator{base: newBase("migration", deps)}
}

// OutputPath is the path a new migration would get at the current clock time.
func (g *MigrationGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.MigrationPath(g.deps.Clock().Format(MigrationTimestampFormat), e.TableName())
}

// ResolvePath returns the existing migration for the table, or OutputPath when there is none.
func (g *MigrationGenerator) ResolvePath(ctx context.Context, e *models.EntityDefinition) (string, error) {
	p, found, err := g.existing(ctx, e)
	if err != nil || found {
		return p, err
	}
	return g.OutputPath(e), nil
}

func (g *MigrationGenerator) existing(ctx context.Context, e *models.EntityDefinition) (string, bool, error) {
	matches, err := g.deps.Files.Glob(ctx, g.deps.Layout.MigrationGlob(e.TableName()))
	if err != nil || len(matches) == 0 {
		return "", false, err
	}
	return matches[0], true, nil
}

func (g *MigrationGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	p, err := g.locate(ctx, e)
	if err != nil {
		return nil, g.fail(err)
	}

	previous, err := g.deps.Files.ReadFile(ctx, p)
	if err != nil {
		return nil, g.fail(err)
	}

	merged, err := patch.MergeArtifact(previous, MigrationColumns(e), ColumnsAnchor)
	if errors.Is(err, apperrors.ErrAnchorNotFound) {
		g.deps.Logger.Warn("migration has no column anchors, leaving it untouched",
			zap.String("entity", e.Name()), zap.String("path", p), zap.Error(err))
		result := &Result{}
		result.add(g.kind, p, models.OperationSkipped)
		return result, nil
	}
	if err != nil {
		return nil, g.fail(err)
	}

	op, err := g.write(ctx, p, merged)
	if err != nil {
		return nil, g.fail(err)
	}

	result := &Result{}
	result.add(g.kind, p, op)
	return result, nil
}

// locate returns the first existing migration for the table, creating a skeleton when
// none exists yet.
func (g *MigrationGenerator) locate(ctx context.Context, e *models.EntityDefinition) (string, error) {
	if p, found, err := g.existing(ctx, e); err != nil || found {
		return p, err
	}

	err := g.deps.Framework.MakeSkeleton(ctx, secondary.SkeletonRequest{
		Kind:  secondary.SkeletonMigration,
		Model: e.Name(),
		Table: e.TableName(),
		Path:  g.OutputPath(e),
	})
	if err != nil {
		return "", err
	}

	p, found, err := g.existing(ctx, e)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperrors.NotFound("migration matching " + g.deps.Layout.MigrationGlob(e.TableName()))
	}
	return p, nil
}

// MigrationColumns renders the column and foreign key lines placed between the anchors.
func MigrationColumns(e *models.EntityDefinition) string {
	var b strings.Builder
	b.WriteString("\n")

	for _, f := range e.Fields() {
		args := "'" + f.Name() + "'"
		if f.DatabaseType() == "decimal" {
			args += ", 8, 2"
		}
		b.WriteString(columnIndent + "$table->" + f.DatabaseType() + "(" + args + ")")
		if f.Nullable() {
			b.WriteString("->nullable()")
		}
		if def, ok := f.Default(); ok {
			b.WriteString("->default(" + def + ")")
		}
		b.WriteString(";\n")
	}

	for _, rel := range e.Relationships() {
		if !rel.RequiresForeignKey() {
			continue
		}
		fmt.Fprintf(&b, "%s$table->foreignId('%s')->nullable()->constrained('%s')->onDelete('set null');\n",
			columnIndent, rel.ForeignKeyName(), rel.RelatedTable())
	}

	b.WriteString(columnIndent)
	return b.String()
}

// Pivot describes the join table of a many-to-many relationship.
type Pivot struct {
	Table       string
	FirstKey    string
	SecondKey   string
	FirstTable  string
	SecondTable string

	// LocalKey and RelatedKey name the columns from the declaring entity's side.
	LocalKey   string
	RelatedKey string

	SelfReferencing bool
}

// PivotFor derives the join table for a many-to-many relationship declared on entity.
// Stems are sorted, so both sides of the relationship agree on the same table.
func PivotFor(entity string, rel models.RelationshipDefinition) Pivot {
	first, second := naming.PivotStems(entity, rel.RelatedModel())

	p := Pivot{
		Table:       naming.PivotTableName(entity, rel.RelatedModel()),
		FirstKey:    first + "_id",
		SecondKey:   second + "_id",
		FirstTable:  naming.Plural(first),
		SecondTable: naming.Plural(second),
	}
	if rel.PivotTable() != "" {
		p.Table = rel.PivotTable()
	}

	if first == second {
		p.SelfReferencing = true
		p.SecondKey = "related_" + second + "_id"
		p.LocalKey, p.RelatedKey = p.FirstKey, p.SecondKey
		return p
	}

	p.LocalKey = naming.ForeignKey(entity)
	p.RelatedKey = naming.ForeignKey(rel.RelatedModel())
	return p
}

// PivotMigrationGenerator creates one join-table migration per many-to-many relationship,
// skipping tables that already have a migration.
type PivotMigrationGenerator struct {
	base
}

// NewPivotMigrationGenerator creates a new PivotMigrationGenerator.
func NewPivotMigrationGenerator(deps Deps) Generator {
	return &PivotMigrationGenerator{base: newBase("pivot_migration", deps)}
}

func (g *PivotMigrationGenerator) Supports(e *models.EntityDefinition) bool {
	return len(e.RelationshipsByType(models.ManyToMany)) > 0
}

// OutputPath is the migrations directory; the generator writes one file per pivot.
func (g *PivotMigrationGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.MigrationsDir
}

func (g *PivotMigrationGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	result := &Result{}
	ts := g.deps.Clock().Format(MigrationTimestampFormat)
	seen := make(map[string]bool)

	for _, rel := range e.RelationshipsByType(models.ManyToMany) {
		pivot := PivotFor(e.Name(), rel)
		if seen[pivot.Table] {
			continue
		}
		seen[pivot.Table] = true

		existing, err := g.deps.Files.Glob(ctx, g.deps.Layout.MigrationGlob(pivot.Table))
		if err != nil {
			return nil, g.fail(err)
		}
		if len(existing) > 0 {
			g.deps.Logger.Info("pivot migration already exists", zap.String("table", pivot.Table), zap.String("path", existing[0]))
			result.add(g.kind, existing[0], models.OperationSkipped)
			continue
		}

		content, err := g.render("pivot_migration", templates.Replacements{
			"table":        pivot.Table,
			"first_key":    pivot.FirstKey,
			"second_key":   pivot.SecondKey,
			"first_table":  pivot.FirstTable,
			"second_table": pivot.SecondTable,
		})
		if err != nil {
			return nil, g.fail(err)
		}

		p := g.deps.Layout.MigrationPath(ts, pivot.Table)
		op, err := g.write(ctx, p, content)
		if err != nil {
			return nil, g.fail(err)
		}
		result.add(g.kind, p, op)
	}

	return result, nil
}
