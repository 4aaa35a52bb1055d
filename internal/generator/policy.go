package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/patch"
	"github.com/example/apigen/internal/ports/secondary"
)

// PolicyGenerator creates the policy skeleton through the framework and opens every
// ability. The file is stamped with a security notice and a warning is logged, because a
// permit-all policy must be replaced before the API is exposed.
type PolicyGenerator struct {
	base
}

// NewPolicyGenerator creates a new PolicyGenerator.
func NewPolicyGenerator(deps Deps) Generator {
	return &PolicyGenerator{base: newBase("policy", deps)}
}

func (g *PolicyGenerator) OutputPath(e *models.EntityDefinition) string {
	return g.deps.Layout.PolicyPath(e.Name())
}

func (g *PolicyGenerator) Generate(ctx context.Context, e *models.EntityDefinition) (*Result, error) {
	p := g.OutputPath(e)

	err := g.ensureSkeleton(ctx, p, secondary.SkeletonRequest{
		Kind:           secondary.SkeletonPolicy,
		Model:          e.Name(),
		Namespace:      g.deps.Layout.PoliciesNamespace,
		ModelNamespace: g.deps.Layout.ModelsNamespace,
	})
	if err != nil {
		return nil, g.fail(err)
	}

	content, err := g.deps.Files.ReadFile(ctx, p)
	if err != nil {
		return nil, g.fail(err)
	}

	notice, err := g.deps.Stubs.Raw("policy.notice")
	if err != nil {
		return nil, g.fail(err)
	}

	content, err = patch.EnsureBefore(patch.AllowAll(content), "class "+e.Name()+"Policy", notice)
	if err != nil {
		return nil, g.fail(err)
	}

	op, err := g.write(ctx, p, content)
	if err != nil {
		return nil, g.fail(err)
	}

	g.deps.Logger.Warn("policy allows every action; replace it with real authorization rules",
		zap.String("entity", e.Name()), zap.String("path", p))

	result := &Result{}
	result.add(g.kind, p, op)
	return result, nil
}
