package app

import (
	"context"
	"fmt"

	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/patch"
	"github.com/example/apigen/internal/ports/secondary"
	"github.com/example/apigen/internal/templates"
)

const policiesAnchor = "protected $policies = ["

// AuthProviderRegistrar maps entity models to their policies in AuthServiceProvider.
type AuthProviderRegistrar struct {
	files              secondary.FileSystem
	stubs              *templates.Loader
	path               string
	providersNamespace string
	modelsNamespace    string
	policiesNamespace  string
}

// NewAuthProviderRegistrar creates a registrar editing the provider at p.
func NewAuthProviderRegistrar(files secondary.FileSystem, stubs *templates.Loader, p, providersNamespace, modelsNamespace, policiesNamespace string) *AuthProviderRegistrar {
	return &AuthProviderRegistrar{
		files:              files,
		stubs:              stubs,
		path:               p,
		providersNamespace: providersNamespace,
		modelsNamespace:    modelsNamespace,
		policiesNamespace:  policiesNamespace,
	}
}

// Path returns the provider path relative to the project root.
func (a *AuthProviderRegistrar) Path() string {
	return a.path
}

func (a *AuthProviderRegistrar) imports(name string) []string {
	return []string{
		a.modelsNamespace + `\` + name,
		a.policiesNamespace + `\` + name + "Policy",
	}
}

// Mapping returns the $policies entry for an entity name.
func (a *AuthProviderRegistrar) Mapping(name string) string {
	return fmt.Sprintf("        %s::class => %sPolicy::class,", name, name)
}

// Register imports the model and policy and adds the mapping. The provider is created from
// the bundled stub when the project has none.
func (a *AuthProviderRegistrar) Register(ctx context.Context, name string) (models.Artifact, error) {
	artifact := models.Artifact{Kind: "auth_provider", Path: a.path}

	previous, existed, err := readOptional(ctx, a.files, a.path)
	if err != nil {
		return artifact, fmt.Errorf("failed to read auth provider: %w", err)
	}

	content := previous
	if !existed {
		content, err = a.stubs.Load("auth_provider", templates.Replacements{"namespace": a.providersNamespace})
		if err != nil {
			return artifact, err
		}
	}

	content = patch.EnsureImports(content, a.imports(name)...)
	if mapping := a.Mapping(name); !patch.ContainsLine(content, mapping) {
		content, err = patch.InsertAfter(content, policiesAnchor, "\n"+mapping)
		if err != nil {
			return artifact, fmt.Errorf("failed to register policy for %s: %w", name, err)
		}
	}

	artifact.Operation, err = writeChanged(ctx, a.files, a.path, previous, content, existed)
	if err != nil {
		return artifact, fmt.Errorf("failed to write auth provider: %w", err)
	}
	return artifact, nil
}

// Unregister removes the mapping and the imports added by Register.
func (a *AuthProviderRegistrar) Unregister(ctx context.Context, name string) (models.Artifact, error) {
	artifact := models.Artifact{Kind: "auth_provider", Path: a.path, Operation: models.OperationSkipped}

	previous, existed, err := readOptional(ctx, a.files, a.path)
	if err != nil {
		return artifact, fmt.Errorf("failed to read auth provider: %w", err)
	}
	if !existed {
		return artifact, nil
	}

	content, _ := patch.RemoveLine(previous, a.Mapping(name))
	for _, imp := range a.imports(name) {
		content, _ = patch.RemoveLine(content, "use "+imp+";")
	}

	artifact.Operation, err = writeChanged(ctx, a.files, a.path, previous, content, true)
	if err != nil {
		return artifact, fmt.Errorf("failed to write auth provider: %w", err)
	}
	return artifact, nil
}
