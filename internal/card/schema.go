// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package card

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the catalog file schema.
const SchemaID = "https://holomush.dev/schemas/holocards-catalog.schema.json"

var compiled = sync.OnceValues(compileSchema)

// GenerateSchema generates the JSON Schema of catalog files from File.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		FieldNameTag:   "yaml",
	}
	schema := r.Reflect(&File{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "holocards card catalog"
	schema.Description = "Schema for card catalog YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code(CodeInvalidCatalog).Wrapf(err, "failed to marshal schema")
	}
	return data, nil
}

// ValidateSchema validates catalog YAML against the generated schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.Code(CodeInvalidCatalog).Errorf("catalog data is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code(CodeInvalidCatalog).Wrapf(err, "invalid YAML")
	}

	sch, err := compiled()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return oops.Code(CodeInvalidCatalog).Wrapf(err, "schema validation failed")
	}
	return nil
}

func compileSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.Code(CodeInvalidCatalog).Wrapf(err, "failed to parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("catalog.schema.json", doc); err != nil {
		return nil, oops.Code(CodeInvalidCatalog).Wrapf(err, "failed to add schema resource")
	}
	sch, err := c.Compile("catalog.schema.json")
	if err != nil {
		return nil, oops.Code(CodeInvalidCatalog).Wrapf(err, "failed to compile schema")
	}
	return sch, nil
}

// toJSONTypes rewrites YAML-decoded values into the types the validator
// understands.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = toJSONTypes(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = toJSONTypes(v)
		}
		return out
	case string, int, int64, float64, bool, nil:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return val
		}
		var out any
		if err := json.Unmarshal(b, &out); err != nil {
			return val
		}
		return out
	}
}
