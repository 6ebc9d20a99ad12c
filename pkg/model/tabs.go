package model

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tab groups fields under a display name.
type Tab struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Key returns the normalized URL identifier for the tab.
func (t Tab) Key() string {
	return TabKey(t.Name)
}

// TabSet is the ordered list of tabs rendered by a settings page.
type TabSet []Tab

// UnmarshalYAML accepts a mapping (tab name: fields) in document order or a
// sequence of {name, fields} entries.
func (s *TabSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(TabSet, 0, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			name, body := node.Content[idx], node.Content[idx+1]
			var fields []Field
			if err := body.Decode(&fields); err != nil {
				return fmt.Errorf("model: decode tab %q: %w", name.Value, err)
			}
			out = append(out, Tab{Name: name.Value, Fields: fields})
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		out := make(TabSet, 0, len(node.Content))
		for _, item := range node.Content {
			var tab Tab
			if err := item.Decode(&tab); err != nil {
				return fmt.Errorf("model: decode tab (line %d): %w", item.Line, err)
			}
			out = append(out, tab)
		}
		*s = out
		return nil
	}
	return fmt.Errorf("model: tabs must be a mapping or a sequence (line %d)", node.Line)
}

// First returns the first declared tab.
func (s TabSet) First() (Tab, bool) {
	if len(s) == 0 {
		return Tab{}, false
	}
	return s[0], true
}

// Lookup finds a tab by its normalized key.
func (s TabSet) Lookup(key string) (Tab, int, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Tab{}, -1, false
	}
	for idx, tab := range s {
		if tab.Key() == key {
			return tab, idx, true
		}
	}
	return Tab{}, -1, false
}

// Resolve returns the key of the tab named by requested, falling back to the
// first tab when requested is empty or unknown.
func (s TabSet) Resolve(requested string) string {
	if tab, _, ok := s.Lookup(requested); ok {
		return tab.Key()
	}
	if first, ok := s.First(); ok {
		return first.Key()
	}
	return ""
}

// Fields flattens every tab's fields in render order.
func (s TabSet) Fields() []Field {
	var out []Field
	for _, tab := range s {
		out = append(out, tab.Fields...)
	}
	return out
}

// Types reports which field types appear in the set, in first-seen order.
func (s TabSet) Types() []FieldType {
	seen := make(map[FieldType]struct{})
	var out []FieldType
	for _, field := range s.Fields() {
		kind := field.Kind()
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		out = append(out, kind)
	}
	return out
}

// Has reports whether any field uses kind.
func (s TabSet) Has(kind FieldType) bool {
	for _, field := range s.Fields() {
		if field.Kind() == kind {
			return true
		}
	}
	return false
}

// Validate checks the structural rules a page needs to render. Field id
// uniqueness across tabs is left to the caller.
func (s TabSet) Validate() error {
	if len(s) == 0 {
		return errors.New("model: tab set is empty")
	}

	var errs []error
	keys := make(map[string]string, len(s))
	for idx, tab := range s {
		name := strings.TrimSpace(tab.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("model: tab %d has no name", idx))
			continue
		}
		key := tab.Key()
		if key == "" {
			errs = append(errs, fmt.Errorf("model: tab %q normalizes to an empty key", name))
			continue
		}
		if prev, ok := keys[key]; ok {
			errs = append(errs, fmt.Errorf("model: tabs %q and %q share key %q", prev, name, key))
			continue
		}
		keys[key] = name

		for fieldIdx, field := range tab.Fields {
			if err := field.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("model: tab %q field %d: %w", name, fieldIdx, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate reports descriptor errors for a single field.
func (f Field) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errors.New("field id is required")
	}
	if !f.Type.Valid() {
		return fmt.Errorf("field %q has unknown type %q", f.ID, f.Type)
	}
	switch f.Kind() {
	case FieldSelect, FieldRadio:
		if len(f.Options) == 0 {
			return fmt.Errorf("field %q of type %s needs options", f.ID, f.Kind())
		}
	case FieldRichText:
		if f.DefaultEditor != "" && f.DefaultEditor != EditorHTML && f.DefaultEditor != EditorCSS {
			return fmt.Errorf("field %q has unknown default editor %q", f.ID, f.DefaultEditor)
		}
	}
	return nil
}
