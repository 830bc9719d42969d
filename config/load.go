package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/declarr/declarr/faults"
)

//go:embed document.schema.json
var documentSchemaJSON string

var documentSchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document.schema.json", strings.NewReader(documentSchemaJSON)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("document.schema.json")
}()

// Load reads and parses a desired-state document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError,
			fmt.Sprintf("cannot read configuration file %s", path), err)
	}
	return Parse(data)
}

// Parse validates and decodes a desired-state document. The document shape
// is checked against an embedded JSON schema before decoding, so shape
// mistakes surface with a precise path instead of a zero-valued struct.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "configuration is not valid YAML", err)
	}
	if raw == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "configuration is empty", nil)
	}

	if err := documentSchema.Validate(jsonValue(raw)); err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "configuration does not match the expected shape", err)
	}

	var document Document
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "configuration could not be decoded", err)
	}
	return &document, nil
}

// jsonValue reshapes a YAML-decoded value into JSON-decoded types, which is
// what the schema validator understands.
func jsonValue(raw any) any {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return raw
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return raw
	}
	return out
}
