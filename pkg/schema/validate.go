package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed settings.schema.json
var documentSchemaJSON []byte

const documentSchemaURL = "settings.schema.json"

var (
	documentSchemaOnce sync.Once
	documentSchema     *jsonschema.Schema
	documentSchemaErr  error

	defaultPrinter = message.NewPrinter(language.English)
)

// DocumentSchema returns the JSON Schema settings documents are checked
// against.
func DocumentSchema() []byte {
	return append([]byte(nil), documentSchemaJSON...)
}

// ValidateRaw checks a YAML or JSON payload against the document schema.
// Every failing location is reported.
func ValidateRaw(raw []byte) error {
	compiled, err := compiledSchema()
	if err != nil {
		return err
	}

	var decoded any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	// YAML scalars and maps are normalized through JSON so the validator
	// sees the same value shapes for both encodings.
	encoded, err := json.Marshal(stringKeys(decoded))
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	err = compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("validate document: %w", err)
	}
	return errors.Join(rootCauses(validationErr)...)
}

func compiledSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(documentSchemaJSON))
		if err != nil {
			documentSchemaErr = fmt.Errorf("schema: load document schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(documentSchemaURL, doc); err != nil {
			documentSchemaErr = fmt.Errorf("schema: add document schema: %w", err)
			return
		}
		documentSchema, documentSchemaErr = compiler.Compile(documentSchemaURL)
	})
	return documentSchema, documentSchemaErr
}

func rootCauses(err *jsonschema.ValidationError) []error {
	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		return []error{fmt.Errorf("%s: %s", location, err.ErrorKind.LocalizedString(defaultPrinter))}
	}
	var out []error
	for _, cause := range err.Causes {
		out = append(out, rootCauses(cause)...)
	}
	return out
}

func stringKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = stringKeys(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = stringKeys(item)
		}
		return out
	case []any:
		for idx, item := range v {
			v[idx] = stringKeys(item)
		}
		return v
	default:
		return v
	}
}
