package generator

import (
	"fmt"

	"github.com/example/apigen/internal/apperrors"
)

// DefaultOrder is the order generators run in unless configured otherwise. The controller
// runs last because it imports the classes written before it.
var DefaultOrder = []string{
	"model",
	"migration",
	"pivot_migration",
	"service",
	"policy",
	"resource",
	"request",
	"dto",
	"seeder",
	"factory",
	"controller",
}

var constructors = map[string]func(Deps) Generator{
	"model":           NewModelGenerator,
	"migration":       NewMigrationGenerator,
	"pivot_migration": NewPivotMigrationGenerator,
	"factory":         NewFactoryGenerator,
	"seeder":          NewSeederGenerator,
	"dto":             NewDTOGenerator,
	"service":         NewServiceGenerator,
	"request":         NewRequestGenerator,
	"resource":        NewResourceGenerator,
	"policy":          NewPolicyGenerator,
	"controller":      NewControllerGenerator,
}

// IsKnown reports whether kind names a registered generator.
func IsKnown(kind string) bool {
	_, ok := constructors[kind]
	return ok
}

// Build instantiates the generators named in order, leaving out the disabled ones.
// An empty order means DefaultOrder.
func Build(order, disabled []string, deps Deps) ([]Generator, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}

	skip := make(map[string]bool, len(disabled))
	for _, kind := range disabled {
		if !IsKnown(kind) {
			return nil, apperrors.Validation("unknown generator %q in disabled list", kind)
		}
		skip[kind] = true
	}

	seen := make(map[string]bool, len(order))
	generators := make([]Generator, 0, len(order))
	for _, kind := range order {
		newGenerator, ok := constructors[kind]
		if !ok {
			return nil, apperrors.Validation("unknown generator %q", kind)
		}
		if seen[kind] {
			return nil, apperrors.Validation("generator %q listed more than once", kind)
		}
		seen[kind] = true
		if skip[kind] {
			continue
		}
		generators = append(generators, newGenerator(deps))
	}

	if len(generators) == 0 {
		return nil, fmt.Errorf("%w: every generator is disabled", apperrors.ErrValidation)
	}
	return generators, nil
}
