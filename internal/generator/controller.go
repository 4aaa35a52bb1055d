package generator

import (
	"context"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/patch"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

// ControllerGenerator creates the controller skeleton through the framework, then rewrites
// it: imports, "extends Controller" and a class body with the five resource actions.
type ControllerGenerator struct {
	base
}

// NewControllerGenerator creates a new ControllerGenerator.
func NewControllerGenerator(deps Deps) Generator {
	return &ControllerGenerator{base: newBase("controller", deps)}
}

func (g *ControllerGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.ControllerPath(e.Name())
}

func (g *ControllerGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	p := g.OutputPath(e)
	layout := g.deps.Layout
	class := e.Name() + "Controller"

	err := g.ensureSkeleton(ctx, p, secondary.SkeletonRequest{
		Kind:      secondary.SkeletonController,
		Model:     e.Name(),
		Namespace: layout.ControllersNamespace,
	})
	if err != nil {
		return nil, g.fail(err)
	}

	content, err := g.deps.Files.ReadFile(ctx, p)
	if err != nil {
		return nil, g.fail(err)
	}

	body, err := g.render("controller.body", templates.Replacements{
		"class":    e.Name(),
		"variable": e.NameLower(),
		"plural":   e.PluralName(),
	})
	if err != nil {
		return nil, g.fail(err)
	}

	content = patch.EnsureImports(content,
		layout.ControllersNamespace+`\Controller`,
		layout.RequestsNamespace+`\`+e.Name()+"Request",
		layout.ModelsNamespace+`\`+e.Name(),
		layout.ResourcesNamespace+`\`+e.Name()+"Resource",
		layout.ServicesNamespace+`\`+e.Name()+"Service",
		layout.DTONamespace+`\`+e.Name()+"DTO",
		`Illuminate\Http\Response`,
	)

	if content, err = patch.EnsureExtends(content, class, "Controller"); err != nil {
		return nil, g.fail(err)
	}
	if content, err = patch.ReplaceClassBody(content, class, body); err != nil {
		return nil, g.fail(err)
	}

	op, err := g.write(ctx, p, content)
	if err != nil {
		return nil, g.fail(err)
	}

	result := &Result{}
	result.add(g.kind, p, op)
	return result, nil
}
