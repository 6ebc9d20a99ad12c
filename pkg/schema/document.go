package schema

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingspage/pkg/model"
)

// Document is a settings page description: the menu registration data and
// the ordered tabs. YAML and JSON encodings are both accepted.
type Document struct {
	Page model.PageConfig `json:"page" yaml:"page"`
	Tabs model.TabSet     `json:"tabs" yaml:"tabs"`
}

// Parse validates raw against the document JSON Schema, decodes it, and
// checks the structural rules of the page config and tab set.
func Parse(raw []byte) (Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("raw document is empty")
	}
	if err := ValidateRaw(raw); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// MustParse panics if raw cannot be parsed. Useful for tests and embedded
// documents.
func MustParse(raw []byte) Document {
	doc, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Validate checks the page config and the tab set, and rejects field ids
// used more than once.
func (d Document) Validate() error {
	errs := []error{d.Page.Validate(), d.Tabs.Validate()}
	seen := make(map[string]string)
	for _, tab := range d.Tabs {
		for _, field := range tab.Fields {
			if field.ID == "" {
				continue
			}
			if prev, ok := seen[field.ID]; ok {
				errs = append(errs, fmt.Errorf("field id %q is used in tabs %q and %q", field.ID, prev, tab.Name))
				continue
			}
			seen[field.ID] = tab.Name
		}
	}
	return errors.Join(errs...)
}

// Marshal encodes the document as YAML, keeping tab and option order.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("schema: encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("schema: encode document: %w", err)
	}
	return buf.Bytes(), nil
}
