package generator

import (
	"context"
	"strings"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
	"github.com/example/apigen/internal/templates"
)

// ModelGenerator writes the model class: fillable columns and one accessor per relationship.
type ModelGenerator struct {
	base
}

// NewModelGenerator creates a new ModelGenerator.
func NewModelGenerator(deps Deps) Generator {
	return &ModelGenerator{base: newBase("model", deps)}
}

func (g *ModelGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.ModelPath(e.Name())
}

func (g *ModelGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	relationships, err := g.relationships(e)
	if err != nil {
		return nil, g.fail(err)
	}

	parent := "Model"
	if e.HasParent() {
		parent = e.Parent()
	}

	return g.renderTo(ctx, g.OutputPath(e), "model", templates.Replacements{
		"namespace":     g.deps.Layout.ModelsNamespace,
		"imports":       g.imports(e, parent),
		"class":         e.Name(),
		"parent":        parent,
		"fillable":      phpList(e.FillableFields()),
		"relationships": relationships,
	})
}

// imports lists the Model base class when there is no parent, then every related model
// other than the entity itself and its parent.
func (g *ModelGenerator) imports(e *models.EntityDefinition, parent string) string {
	var b strings.Builder
	if !e.HasParent() {
		b.WriteString("\nuse Illuminate\\Database\\Eloquent\\Model;")
	}
	for _, related := range e.RelatedModels() {
		if related == e.Name() || related == parent {
			continue
		}
		b.WriteString("\nuse " + g.deps.Layout.ModelsNamespace + `\` + related + ";")
	}
	return b.String()
}

// relationships renders the accessors grouped by kind: hasOne, hasMany, belongsTo, belongsToMany.
func (g *ModelGenerator) relationships(e *models.EntityDefinition) (string, error) {
	var b strings.Builder
	for _, relType := range models.RelationshipTypes {
		for _, rel := range e.RelationshipsByType(relType) {
			method, err := g.render("relationship", templates.Replacements{
				"method":    rel.MethodName(),
				"eloquent":  rel.EloquentMethod(),
				"related":   rel.RelatedModel(),
				"arguments": relationshipArguments(e, rel),
			})
			if err != nil {
				return "", err
			}
			b.WriteString(method)
		}
	}
	return b.String(), nil
}

// relationshipArguments returns the extra accessor arguments needed when the framework's
// naming conventions would guess wrong.
func relationshipArguments(e *models.EntityDefinition, rel models.RelationshipDefinition) string {
	switch rel.Type() {
	case models.ManyToOne:
		if rel.ForeignKeyName() != naming.ForeignKey(rel.MethodName()) {
			return ", '" + rel.ForeignKeyName() + "'"
		}
	case models.ManyToMany:
		pivot := PivotFor(e.Name(), rel)
		if pivot.SelfReferencing || rel.PivotTable() != "" {
			return ", '" + pivot.Table + "', '" + pivot.LocalKey + "', '" + pivot.RelatedKey + "'"
		}
	}
	return ""
}

// phpList renders names as a PHP array literal: ['a', 'b'].
func phpList(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	return "['" + strings.Join(names, "', '") + "']"
}
