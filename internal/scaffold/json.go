package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/models"
	"github.com/example/apigen/internal/naming"
)

// JSONParser converts JSON class descriptions into entity definitions.
type JSONParser struct{}

// NewJSONParser creates a new JSONParser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// ParseJSONToEntities accepts three shapes: {"data": {...}} for one class, a top-level
// list of classes, or a single class object.
func (p *JSONParser) ParseJSONToEntities(data []byte) ([]*models.EntityDefinition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, apperrors.InvalidJSON(fmt.Errorf("empty input"))
	}

	var raws []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, apperrors.InvalidJSON(err)
		}
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, apperrors.InvalidJSON(err)
		}
		_, hasData := probe["data"]
		_, hasName := probe["name"]
		if !hasData && !hasName {
			return nil, apperrors.InvalidJSON(fmt.Errorf("object has neither 'data' nor 'name'"))
		}
		raws = []json.RawMessage{trimmed}
	default:
		return nil, apperrors.InvalidJSON(fmt.Errorf("expected an object or a list"))
	}

	entities := make([]*models.EntityDefinition, 0, len(raws))
	for i, raw := range raws {
		entity, err := p.parseClass(raw)
		if err != nil {
			return nil, fmt.Errorf("class %d: %w", i, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// parseClass builds one entity, unwrapping an optional "data" envelope.
func (p *JSONParser) parseClass(raw json.RawMessage) (*models.EntityDefinition, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apperrors.InvalidJSON(err)
	}
	if len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		raw = envelope.Data
	}

	var doc classDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.InvalidJSON(err)
	}

	fields := make([]models.FieldDefinition, 0, len(doc.Attributes))
	for _, attr := range doc.Attributes {
		field, err := models.NewFieldDefinition(attr.Name, NormalizeType(attr.rawType()))
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	var rels []models.RelationshipDefinition
	groups := []struct {
		relType models.RelationshipType
		raw     json.RawMessage
	}{
		{models.OneToOne, doc.OneToOne},
		{models.OneToMany, doc.OneToMany},
		{models.ManyToOne, doc.ManyToOne},
		{models.ManyToMany, doc.ManyToMany},
	}
	for _, g := range groups {
		entries, err := decodeRelationships(g.raw)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			rel, err := models.NewRelationshipDefinition(g.relType, naming.Capitalize(entry.Comodel), entry.Role)
			if err != nil {
				return nil, err
			}
			rels = append(rels, rel)
		}
	}

	var opts []models.EntityOption
	if doc.Parent != "" {
		opts = append(opts, models.WithParent(naming.Capitalize(doc.Parent)))
	}

	return models.NewEntityDefinition(naming.Capitalize(doc.Name), fields, rels, opts...)
}

// decodeRelationships decodes a relationship list. Anything other than an array counts as empty.
func decodeRelationships(raw json.RawMessage) ([]relationshipDocument, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}
	var entries []relationshipDocument
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, apperrors.InvalidJSON(err)
	}
	return entries, nil
}

// NormalizeType maps source-language type names onto the field type vocabulary.
// Matching is case-insensitive and the function is idempotent.
func NormalizeType(t string) string {
	lower := strings.ToLower(strings.TrimSpace(t))
	switch lower {
	case "integer", "long", "int", "bigint":
		return models.TypeInt
	case "str", "string", "text", "java.time.offsetdatetime", "java.time.localdate":
		return models.TypeString
	case "boolean", "bool":
		return models.TypeBool
	case "java.math.bigdecimal", "bigdecimal":
		return models.TypeFloat
	case "java.util.map", "map":
		return models.TypeJSON
	}
	return lower
}
