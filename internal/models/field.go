package models

import (
	"regexp"
	"strings"

	"github.com/example/apigen/internal/apperrors"
)

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Supported field types.
const (
	TypeString    = "string"
	TypeInteger   = "integer"
	TypeInt       = "int"
	TypeBoolean   = "boolean"
	TypeBool      = "bool"
	TypeText      = "text"
	TypeFloat     = "float"
	TypeDecimal   = "decimal"
	TypeJSON      = "json"
	TypeDate      = "date"
	TypeDatetime  = "datetime"
	TypeTimestamp = "timestamp"
	TypeTime      = "time"
	TypeUUID      = "uuid"
	TypeUUIDUpper = "UUID"
	TypeBigint    = "bigint"
)

var allowedFieldTypes = map[string]bool{
	TypeString: true, TypeInteger: true, TypeInt: true, TypeBoolean: true, TypeBool: true,
	TypeText: true, TypeFloat: true, TypeDecimal: true, TypeJSON: true, TypeDate: true,
	TypeDatetime: true, TypeTimestamp: true, TypeTime: true, TypeUUID: true, TypeUUIDUpper: true,
	TypeBigint: true,
}

// IsAllowedFieldType reports whether t belongs to the closed set of field types.
func IsAllowedFieldType(t string) bool {
	return allowedFieldTypes[t]
}

// FieldDefinition is one typed attribute of an entity. Values are immutable once built.
type FieldDefinition struct {
	name            string
	fieldType       string
	nullable        bool
	defaultValue    *string
	validationRules []string
	attributes      map[string]string
}

// FieldOption customizes a FieldDefinition during construction.
type FieldOption func(*FieldDefinition)

// WithNullable overrides the default nullable=true.
func WithNullable(nullable bool) FieldOption {
	return func(f *FieldDefinition) { f.nullable = nullable }
}

// WithDefault sets a default value literal.
func WithDefault(value string) FieldOption {
	return func(f *FieldDefinition) { f.defaultValue = &value }
}

// WithValidationRules sets explicit rules that replace the type-derived rule.
func WithValidationRules(rules ...string) FieldOption {
	return func(f *FieldDefinition) { f.validationRules = append([]string(nil), rules...) }
}

// WithAttribute attaches a free-form attribute.
func WithAttribute(key, value string) FieldOption {
	return func(f *FieldDefinition) {
		if f.attributes == nil {
			f.attributes = make(map[string]string)
		}
		f.attributes[key] = value
	}
}

// NewFieldDefinition validates name and type and returns the field.
func NewFieldDefinition(name, fieldType string, opts ...FieldOption) (FieldDefinition, error) {
	if !fieldNamePattern.MatchString(name) {
		return FieldDefinition{}, apperrors.Validation("invalid field name %q", name)
	}
	if !IsAllowedFieldType(fieldType) {
		return FieldDefinition{}, apperrors.Validation("invalid field type %q for field %q", fieldType, name)
	}

	f := FieldDefinition{name: name, fieldType: fieldType, nullable: true}
	for _, opt := range opts {
		opt(&f)
	}
	return f, nil
}

func (f FieldDefinition) Name() string   { return f.name }
func (f FieldDefinition) Type() string   { return f.fieldType }
func (f FieldDefinition) Nullable() bool { return f.nullable }

// Default returns the default literal and whether one was set.
func (f FieldDefinition) Default() (string, bool) {
	if f.defaultValue == nil {
		return "", false
	}
	return *f.defaultValue, true
}

func (f FieldDefinition) ValidationRules() []string {
	return append([]string(nil), f.validationRules...)
}

func (f FieldDefinition) Attribute(key string) (string, bool) {
	v, ok := f.attributes[key]
	return v, ok
}

// IsDateLike reports whether the field holds a point in time.
func (f FieldDefinition) IsDateLike() bool {
	switch f.fieldType {
	case TypeDate, TypeDatetime, TypeTimestamp, TypeTime:
		return true
	}
	return false
}

// DatabaseType maps the field type to a migration column method.
func (f FieldDefinition) DatabaseType() string {
	switch f.fieldType {
	case TypeString:
		return "string"
	case TypeInteger, TypeInt:
		return "integer"
	case TypeBoolean, TypeBool:
		return "boolean"
	case TypeText:
		return "text"
	case TypeFloat, TypeDecimal:
		return "decimal"
	case TypeJSON:
		return "json"
	case TypeDate, TypeDatetime, TypeTimestamp, TypeTime:
		return "timestamp"
	case TypeUUID, TypeUUIDUpper:
		return "uuid"
	case TypeBigint:
		return "bigInteger"
	}
	return "string"
}

// PHPType maps the field type to a PHP property type.
func (f FieldDefinition) PHPType() string {
	switch f.fieldType {
	case TypeInteger, TypeInt, TypeBigint:
		return "int"
	case TypeBoolean, TypeBool:
		return "bool"
	case TypeFloat, TypeDecimal:
		return "float"
	case TypeJSON:
		return "array"
	case TypeDate, TypeDatetime, TypeTimestamp, TypeTime:
		return `\DateTimeInterface`
	}
	return "string"
}

// TypeRule returns the type-derived validation rule without the presence prefix.
func (f FieldDefinition) TypeRule() string {
	switch f.fieldType {
	case TypeString:
		return "string|max:255"
	case TypeInteger, TypeInt, TypeBigint:
		return "integer"
	case TypeBoolean, TypeBool:
		return "boolean"
	case TypeUUID, TypeUUIDUpper:
		return "uuid"
	case TypeFloat, TypeDecimal:
		return "numeric"
	case TypeJSON:
		return "json"
	case TypeDate, TypeDatetime, TypeTimestamp:
		return "date"
	}
	return "string"
}

// ValidationRule returns the explicit rules joined by "|" when present, otherwise the
// type-derived rule prefixed with "sometimes|" (nullable) or "required|".
func (f FieldDefinition) ValidationRule() string {
	if len(f.validationRules) > 0 {
		return strings.Join(f.validationRules, "|")
	}
	if f.nullable {
		return "sometimes|" + f.TypeRule()
	}
	return "required|" + f.TypeRule()
}

// FakeValue returns a factory expression producing a plausible value.
func (f FieldDefinition) FakeValue() string {
	switch f.fieldType {
	case TypeInteger, TypeInt, TypeBigint:
		return "fake()->randomNumber()"
	case TypeBoolean, TypeBool:
		return "fake()->boolean()"
	case TypeText:
		return "fake()->sentence()"
	case TypeUUID, TypeUUIDUpper:
		return "fake()->uuid()"
	case TypeFloat, TypeDecimal:
		return "fake()->randomFloat(2, 1, 1000)"
	case TypeJSON:
		return "json_encode(['key' => 'value'])"
	case TypeDate, TypeDatetime, TypeTimestamp, TypeTime:
		return "fake()->dateTime()"
	}
	return "fake()->word()"
}
