// Package scaffold turns user input (an inline field list or a JSON class description)
// into validated entity definitions.
package scaffold

import "encoding/json"

// classDocument is one class entry of the JSON input. Unknown keys are ignored.
type classDocument struct {
	Name       string              `json:"name"`
	Parent     string              `json:"parent"`
	Attributes []attributeDocument `json:"attributes"`

	OneToOne   json.RawMessage `json:"oneToOneRelationships"`
	OneToMany  json.RawMessage `json:"oneToManyRelationships"`
	ManyToOne  json.RawMessage `json:"manyToOneRelationships"`
	ManyToMany json.RawMessage `json:"manyToManyRelationships"`
}

// attributeDocument is one attribute entry. "_type" wins over the legacy "type" key.
type attributeDocument struct {
	Name       string `json:"name"`
	Type       string `json:"_type"`
	LegacyType string `json:"type"`
}

func (a attributeDocument) rawType() string {
	if a.Type != "" {
		return a.Type
	}
	return a.LegacyType
}

// relationshipDocument is one relationship entry.
type relationshipDocument struct {
	Role    string `json:"role"`
	Comodel string `json:"comodel"`
}
