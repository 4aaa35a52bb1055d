package models

import (
	"regexp"
	"sort"
	"strings"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/naming"
)

var entityNamePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

// EntityDefinition describes one resource to scaffold. Slices are copied on the way in
// and on the way out so callers cannot mutate a built entity.
type EntityDefinition struct {
	name          string
	fields        []FieldDefinition
	relationships []RelationshipDefinition
	parent        string
	options       map[string]string
}

// EntityOption customizes an EntityDefinition during construction.
type EntityOption func(*EntityDefinition)

// WithParent sets the parent model the entity extends.
func WithParent(parent string) EntityOption {
	return func(e *EntityDefinition) { e.parent = parent }
}

// WithOption stores a free-form option.
func WithOption(key, value string) EntityOption {
	return func(e *EntityDefinition) {
		if e.options == nil {
			e.options = make(map[string]string)
		}
		e.options[key] = value
	}
}

// ValidateEntityName checks that name is a capitalized alphanumeric class name.
// Every artifact path is derived from it.
func ValidateEntityName(name string) error {
	if name == "" {
		return apperrors.Validation("entity name is required")
	}
	if !entityNamePattern.MatchString(name) {
		return apperrors.Validation("invalid entity name %q: must start with an uppercase letter and be alphanumeric", name)
	}
	return nil
}

// NewEntityDefinition validates the name and rejects duplicate field names and roles.
func NewEntityDefinition(name string, fields []FieldDefinition, relationships []RelationshipDefinition, opts ...EntityOption) (*EntityDefinition, error) {
	if err := ValidateEntityName(name); err != nil {
		return nil, err
	}

	if dups := duplicates(fields, FieldDefinition.Name); len(dups) > 0 {
		return nil, apperrors.Validation("Duplicate field names found: %s", strings.Join(dups, ", "))
	}
	if dups := duplicates(relationships, RelationshipDefinition.Role); len(dups) > 0 {
		return nil, apperrors.Validation("Duplicate relationship roles found: %s", strings.Join(dups, ", "))
	}

	e := &EntityDefinition{
		name:          name,
		fields:        append([]FieldDefinition(nil), fields...),
		relationships: append([]RelationshipDefinition(nil), relationships...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func duplicates[T any](items []T, key func(T) string) []string {
	seen := make(map[string]int)
	for _, item := range items {
		seen[key(item)]++
	}
	var dups []string
	for k, n := range seen {
		if n > 1 {
			dups = append(dups, k)
		}
	}
	sort.Strings(dups)
	return dups
}

func (e *EntityDefinition) Name() string   { return e.name }
func (e *EntityDefinition) Parent() string { return e.parent }

func (e *EntityDefinition) HasParent() bool { return e.parent != "" }

func (e *EntityDefinition) Fields() []FieldDefinition {
	return append([]FieldDefinition(nil), e.fields...)
}

func (e *EntityDefinition) Relationships() []RelationshipDefinition {
	return append([]RelationshipDefinition(nil), e.relationships...)
}

func (e *EntityDefinition) HasRelationships() bool { return len(e.relationships) > 0 }

func (e *EntityDefinition) Option(key string) (string, bool) {
	v, ok := e.options[key]
	return v, ok
}

// TableName is snake_case of the plural name: "OrderItem" -> "order_items".
func (e *EntityDefinition) TableName() string {
	return naming.TableName(e.name)
}

// PluralName is the plural of the lowercased name, used for route segments.
func (e *EntityDefinition) PluralName() string {
	return naming.Plural(naming.Lower(e.name))
}

func (e *EntityDefinition) NameLower() string { return naming.Lower(e.name) }
func (e *EntityDefinition) NameCamel() string { return naming.Camel(e.name) }

// FillableFields lists field names followed by the foreign key columns of
// relationships that require one.
func (e *EntityDefinition) FillableFields() []string {
	fillable := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		fillable = append(fillable, f.Name())
	}
	for _, r := range e.relationships {
		if r.RequiresForeignKey() {
			fillable = append(fillable, r.ForeignKeyName())
		}
	}
	return fillable
}

// FieldPair is an ordered field name and type.
type FieldPair struct {
	Name string
	Type string
}

// FieldsMap returns the fields as ordered pairs plus a name->type lookup.
func (e *EntityDefinition) FieldsMap() ([]FieldPair, map[string]string) {
	pairs := make([]FieldPair, 0, len(e.fields))
	lookup := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		pairs = append(pairs, FieldPair{Name: f.Name(), Type: f.Type()})
		lookup[f.Name()] = f.Type()
	}
	return pairs, lookup
}

// RelationshipsByType filters relationships by kind, preserving order.
func (e *EntityDefinition) RelationshipsByType(t RelationshipType) []RelationshipDefinition {
	var out []RelationshipDefinition
	for _, r := range e.relationships {
		if r.Type() == t {
			out = append(out, r)
		}
	}
	return out
}

// RelatedModels lists distinct related model names in first-seen order.
func (e *EntityDefinition) RelatedModels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range e.relationships {
		if !seen[r.RelatedModel()] {
			seen[r.RelatedModel()] = true
			out = append(out, r.RelatedModel())
		}
	}
	return out
}
