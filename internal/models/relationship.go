package models

import (
	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/naming"
)

// RelationshipType enumerates the supported association kinds.
type RelationshipType string

const (
	OneToOne   RelationshipType = "oneToOne"
	OneToMany  RelationshipType = "oneToMany"
	ManyToOne  RelationshipType = "manyToOne"
	ManyToMany RelationshipType = "manyToMany"
)

// RelationshipTypes lists every kind in declaration order.
var RelationshipTypes = []RelationshipType{OneToOne, OneToMany, ManyToOne, ManyToMany}

func (t RelationshipType) valid() bool {
	switch t {
	case OneToOne, OneToMany, ManyToOne, ManyToMany:
		return true
	}
	return false
}

// RelationshipDefinition is a named association from one entity to another.
type RelationshipDefinition struct {
	relType      RelationshipType
	relatedModel string
	role         string
	foreignKey   string
	localKey     string
	pivotTable   string
}

// RelationshipOption customizes a RelationshipDefinition during construction.
type RelationshipOption func(*RelationshipDefinition)

func WithForeignKey(key string) RelationshipOption {
	return func(r *RelationshipDefinition) { r.foreignKey = key }
}

func WithLocalKey(key string) RelationshipOption {
	return func(r *RelationshipDefinition) { r.localKey = key }
}

func WithPivotTable(table string) RelationshipOption {
	return func(r *RelationshipDefinition) { r.pivotTable = table }
}

// NewRelationshipDefinition validates and builds a relationship.
func NewRelationshipDefinition(relType RelationshipType, relatedModel, role string, opts ...RelationshipOption) (RelationshipDefinition, error) {
	if !relType.valid() {
		return RelationshipDefinition{}, apperrors.Validation("invalid relationship type %q", relType)
	}
	if relatedModel == "" {
		return RelationshipDefinition{}, apperrors.Validation("relationship related model is required")
	}
	if role == "" {
		return RelationshipDefinition{}, apperrors.Validation("relationship role is required")
	}

	r := RelationshipDefinition{relType: relType, relatedModel: relatedModel, role: role}
	for _, opt := range opts {
		opt(&r)
	}
	return r, nil
}

func (r RelationshipDefinition) Type() RelationshipType { return r.relType }
func (r RelationshipDefinition) RelatedModel() string   { return r.relatedModel }
func (r RelationshipDefinition) Role() string           { return r.role }
func (r RelationshipDefinition) LocalKey() string       { return r.localKey }
func (r RelationshipDefinition) PivotTable() string     { return r.pivotTable }

// EloquentMethod returns the association builder used in the model accessor.
func (r RelationshipDefinition) EloquentMethod() string {
	switch r.relType {
	case OneToOne:
		return "hasOne"
	case OneToMany:
		return "hasMany"
	case ManyToOne:
		return "belongsTo"
	default:
		return "belongsToMany"
	}
}

// RequiresForeignKey reports whether the owning table carries the key column.
func (r RelationshipDefinition) RequiresForeignKey() bool {
	return r.relType == OneToOne || r.relType == ManyToOne
}

// ForeignKeyName returns the explicit foreign key or snake(role)+"_id".
func (r RelationshipDefinition) ForeignKeyName() string {
	if r.foreignKey != "" {
		return r.foreignKey
	}
	return naming.ForeignKey(r.role)
}

// MethodName is the accessor method name on the model.
func (r RelationshipDefinition) MethodName() string {
	return naming.Camel(r.role)
}

// RelatedTable is the table of the related model.
func (r RelationshipDefinition) RelatedTable() string {
	return naming.TableName(r.relatedModel)
}
