package scaffold

import (
	"fmt"
	"strings"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
)

// ParseFieldsString parses the --fields DSL into ordered name/type pairs.
// Format: "title:string,body:text,published:boolean"
//
// Types are lowercased. A repeated name keeps the type of its last occurrence at the
// position of its first occurrence.
func ParseFieldsString(fieldsStr string) ([]models.FieldPair, error) {
	if strings.TrimSpace(fieldsStr) == "" {
		return nil, apperrors.Parse("fields string is empty")
	}

	var pairs []models.FieldPair
	index := make(map[string]int)

	for _, part := range strings.Split(fieldsStr, ",") {
		pair, err := parseFieldPair(part)
		if err != nil {
			return nil, err
		}
		if i, ok := index[pair.Name]; ok {
			pairs[i].Type = pair.Type
			continue
		}
		index[pair.Name] = len(pairs)
		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// parseFieldPair parses a single "name:type" entry.
func parseFieldPair(pair string) (models.FieldPair, error) {
	parts := strings.Split(pair, ":")
	if len(parts) != 2 {
		return models.FieldPair{}, apperrors.Parse("invalid field format %q: expected 'name:type'", strings.TrimSpace(pair))
	}

	name := strings.TrimSpace(parts[0])
	fieldType := strings.ToLower(strings.TrimSpace(parts[1]))
	if name == "" || fieldType == "" {
		return models.FieldPair{}, apperrors.Parse("invalid field format %q: name and type are required", strings.TrimSpace(pair))
	}

	return models.FieldPair{Name: name, Type: fieldType}, nil
}

// BuildEntity builds an entity from a name and a --fields string. The name is capitalized;
// the entity has no relationships.
func BuildEntity(name, fieldsStr string) (*models.EntityDefinition, error) {
	if name == "" {
		return nil, apperrors.Validation("entity name is required")
	}

	pairs, err := ParseFieldsString(fieldsStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}

	fields := make([]models.FieldDefinition, 0, len(pairs))
	for _, p := range pairs {
		field, err := models.NewFieldDefinition(p.Name, p.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	return models.NewEntityDefinition(naming.Capitalize(name), fields, nil)
}
