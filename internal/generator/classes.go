package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/templates"
)

// ServiceGenerator writes the service class wrapping CRUD calls on the model.
type ServiceGenerator struct {
	base
}

// NewServiceGenerator creates a new ServiceGenerator.
func NewServiceGenerator(deps Deps) Generator {
	return &ServiceGenerator{base: newBase("service", deps)}
}

func (g *ServiceGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.ServicePath(e.Name())
}

func (g *ServiceGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	return g.renderTo(ctx, g.OutputPath(e), "service", templates.Replacements{
		"namespace":       g.deps.Layout.ServicesNamespace,
		"model_namespace": g.deps.Layout.ModelsNamespace,
		"dto_namespace":   g.deps.Layout.DTONamespace,
		"class":           e.Name(),
		"variable":        e.NameLower(),
	})
}

// ResourceGenerator writes the JSON resource projecting each declared field.
type ResourceGenerator struct {
	base
}

// NewResourceGenerator creates a new ResourceGenerator.
func NewResourceGenerator(deps Deps) Generator {
	return &ResourceGenerator{base: newBase("resource", deps)}
}

func (g *ResourceGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.ResourcePath(e.Name())
}

func (g *ResourceGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	var fields strings.Builder
	for _, f := range e.Fields() {
		fmt.Fprintf(&fields, "            '%s' => $this->%s,\n", f.Name(), f.Name())
	}

	return g.renderTo(ctx, g.OutputPath(e), "resource", templates.Replacements{
		"namespace": g.deps.Layout.ResourcesNamespace,
		"class":     e.Name(),
		"fields":    fields.String(),
	})
}

// RequestGenerator writes the form request with one optional rule per field.
type RequestGenerator struct {
	base
}

// NewRequestGenerator creates a new RequestGenerator.
func NewRequestGenerator(deps Deps) Generator {
	return &RequestGenerator{base: newBase("request", deps)}
}

func (g *RequestGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.RequestPath(e.Name())
}

func (g *RequestGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	var rules strings.Builder
	for _, f := range e.Fields() {
		fmt.Fprintf(&rules, "            '%s' => '%s',\n", f.Name(), requestRule(f))
	}

	return g.renderTo(ctx, g.OutputPath(e), "request", templates.Replacements{
		"namespace": g.deps.Layout.RequestsNamespace,
		"class":     e.Name(),
		"rules":     rules.String(),
	})
}

// requestRule keeps explicit rules as declared; derived rules are optional on update.
func requestRule(f models.FieldDefinition) string {
	if len(f.ValidationRules()) > 0 {
		return f.ValidationRule()
	}
	return "sometimes|" + f.TypeRule()
}

// DTOGenerator writes the readonly data transfer object built from a request.
type DTOGenerator struct {
	base
}

// NewDTOGenerator creates a new DTOGenerator.
func NewDTOGenerator(deps Deps) Generator {
	return &DTOGenerator{base: newBase("dto", deps)}
}

func (g *DTOGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.DTOPath(e.Name())
}

func (g *DTOGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	var properties, arguments strings.Builder
	for _, f := range e.Fields() {
		fmt.Fprintf(&properties, "        public ?%s $%s,\n", f.PHPType(), f.Name())
		if f.IsDateLike() {
			fmt.Fprintf(&arguments, "            %s: $request->filled('%s') ? \\Carbon\\Carbon::parse($request->get('%s')) : null,\n",
				f.Name(), f.Name(), f.Name())
			continue
		}
		fmt.Fprintf(&arguments, "            %s: $request->get('%s'),\n", f.Name(), f.Name())
	}

	return g.renderTo(ctx, g.OutputPath(e), "dto", templates.Replacements{
		"namespace":  g.deps.Layout.DTONamespace,
		"class":      e.Name(),
		"properties": properties.String(),
		"arguments":  arguments.String(),
	})
}

// SeederGenerator writes a seeder creating ten factory rows.
type SeederGenerator struct {
	base
}

// NewSeederGenerator creates a new SeederGenerator.
func NewSeederGenerator(deps Deps) Generator {
	return &SeederGenerator{base: newBase("seeder", deps)}
}

func (g *SeederGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.SeederPath(e.Name())
}

func (g *SeederGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	return g.renderTo(ctx, g.OutputPath(e), "seeder", templates.Replacements{
		"namespace":       g.deps.Layout.SeedersNamespace,
		"model_namespace": g.deps.Layout.ModelsNamespace,
		"class":           e.Name(),
	})
}

// FactoryGenerator writes a model factory with one fake expression per field.
type FactoryGenerator struct {
	base
}

// NewFactoryGenerator creates a new FactoryGenerator.
func NewFactoryGenerator(deps Deps) Generator {
	return &FactoryGenerator{base: newBase("factory", deps)}
}

func (g *FactoryGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.FactoryPath(e.Name())
}

func (g *FactoryGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	var fields strings.Builder
	for _, f := range e.Fields() {
		fmt.Fprintf(&fields, "            '%s' => %s,\n", f.Name(), f.FakeValue())
	}

	return g.renderTo(ctx, g.OutputPath(e), "factory", templates.Replacements{
		"namespace":       g.deps.Layout.FactoriesNamespace,
		"model_namespace": g.deps.Layout.ModelsNamespace,
		"class":           e.Name(),
		"fields":          fields.String(),
	})
}
