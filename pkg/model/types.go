package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType enumerates the supported field kinds. An empty type renders and
// sanitizes as FieldText.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldSwitch   FieldType = "switch"
	FieldColor    FieldType = "color"
	FieldRichText FieldType = "richtext_editor"
)

// FieldTypes lists every supported type in declaration order.
var FieldTypes = []FieldType{
	FieldText,
	FieldTextarea,
	FieldSelect,
	FieldRadio,
	FieldCheckbox,
	FieldSwitch,
	FieldColor,
	FieldRichText,
}

// Valid reports whether t is a known type. The empty type is valid.
func (t FieldType) Valid() bool {
	if t == "" {
		return true
	}
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// OrDefault returns FieldText for the empty type.
func (t FieldType) OrDefault() FieldType {
	if t == "" {
		return FieldText
	}
	return t
}

// IsFlag reports whether values of this type persist as a "1"/"" flag.
func (t FieldType) IsFlag() bool {
	return t == FieldCheckbox || t == FieldSwitch
}

// EditorMode selects the pane a richtext editor opens on.
type EditorMode string

const (
	EditorHTML EditorMode = "html"
	EditorCSS  EditorMode = "css"
)

// Option is a single value/label pair offered by select and radio fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Options keeps select/radio choices in declaration order. In documents it
// accepts either a mapping (value: label) or a sequence of scalars or
// {value, label} objects.
type Options []Option

// Values returns the option values in order.
func (o Options) Values() []string {
	if len(o) == 0 {
		return nil
	}
	out := make([]string, len(o))
	for idx, opt := range o {
		out[idx] = opt.Value
	}
	return out
}

// Label returns the label registered for value.
func (o Options) Label(value string) (string, bool) {
	for _, opt := range o {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// UnmarshalYAML decodes mapping and sequence forms while preserving order.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Options, 0, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key, value := node.Content[idx], node.Content[idx+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("model: option %q label must be a scalar (line %d)", key.Value, value.Line)
			}
			out = append(out, Option{Value: key.Value, Label: value.Value})
		}
		*o = out
		return nil
	case yaml.SequenceNode:
		out := make(Options, 0, len(node.Content))
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				out = append(out, Option{Value: item.Value, Label: item.Value})
			case yaml.MappingNode:
				var opt Option
				if err := item.Decode(&opt); err != nil {
					return fmt.Errorf("model: decode option (line %d): %w", item.Line, err)
				}
				if opt.Label == "" {
					opt.Label = opt.Value
				}
				out = append(out, opt)
			default:
				return fmt.Errorf("model: unsupported option node (line %d)", item.Line)
			}
		}
		*o = out
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*o = nil
			return nil
		}
	}
	return fmt.Errorf("model: options must be a mapping or a sequence (line %d)", node.Line)
}

// MarshalYAML emits the compact mapping form.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, opt := range o {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Value},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Label},
		)
	}
	return node, nil
}

// Field describes one settings control. ID doubles as the option store key
// and the form input name.
type Field struct {
	ID            string     `json:"id" yaml:"id"`
	Type          FieldType  `json:"type,omitempty" yaml:"type,omitempty"`
	Label         string     `json:"label,omitempty" yaml:"label,omitempty"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	// Default is used when the submitted form omits the field and when the
	// stored value is empty. A checkbox or switch defaulting to true can
	// therefore not be turned off from the form: an unchecked box is not
	// submitted, and an empty stored flag reads back as the default.
	Default       any        `json:"default,omitempty" yaml:"default,omitempty"`
	Options       Options    `json:"options,omitempty" yaml:"options,omitempty"`
	DefaultEditor EditorMode `json:"default_editor,omitempty" yaml:"default_editor,omitempty"`
}

// Kind returns the field type, defaulting to FieldText.
func (f Field) Kind() FieldType {
	return f.Type.OrDefault()
}

// HasDefault reports whether a default value was declared.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// DefaultString renders the declared default as the string the store and
// the form use. Booleans map onto the "1"/"" flag convention.
func (f Field) DefaultString() string {
	switch v := f.Default.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(v)
	case CodeValue:
		return v.Encode()
	case *CodeValue:
		if v == nil {
			return ""
		}
		return v.Encode()
	case map[string]any:
		return codeValueFromMap(v).Encode()
	default:
		return fmt.Sprint(v)
	}
}

// DefaultCode returns the default of a richtext field. A plain string default
// is taken as the HTML pane.
func (f Field) DefaultCode() CodeValue {
	switch v := f.Default.(type) {
	case nil:
		return CodeValue{}
	case CodeValue:
		return v
	case *CodeValue:
		if v == nil {
			return CodeValue{}
		}
		return *v
	case map[string]any:
		return codeValueFromMap(v)
	case string:
		if code, ok := DecodeCodeValue(v); ok {
			return code
		}
		return CodeValue{HTML: v}
	default:
		return CodeValue{HTML: fmt.Sprint(v)}
	}
}

// Editor returns the pane a richtext editor opens on, defaulting to HTML.
func (f Field) Editor() EditorMode {
	if f.DefaultEditor == EditorCSS {
		return EditorCSS
	}
	return EditorHTML
}

// ShowsEditorTabs reports whether the richtext widget renders its HTML/CSS
// sub-tab selector, which happens when the options are exactly html and css.
func (f Field) ShowsEditorTabs() bool {
	values := f.Options.Values()
	return len(values) == 2 &&
		values[0] == string(EditorHTML) &&
		values[1] == string(EditorCSS)
}

// CodeValue is the persisted shape of a richtext_editor field.
type CodeValue struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// IsZero reports whether both panes are empty.
func (c CodeValue) IsZero() bool {
	return c.HTML == "" && c.CSS == ""
}

// Encode returns the JSON form stored in the option store.
func (c CodeValue) Encode() string {
	payload, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(payload)
}

// DecodeCodeValue parses a stored richtext value. It returns false when raw
// is not a JSON object.
func DecodeCodeValue(raw string) (CodeValue, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return CodeValue{}, false
	}
	var out CodeValue
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return CodeValue{}, false
	}
	return out, true
}

func codeValueFromMap(in map[string]any) CodeValue {
	var out CodeValue
	if html, ok := in["html"]; ok && html != nil {
		out.HTML = fmt.Sprint(html)
	}
	if css, ok := in["css"]; ok && css != nil {
		out.CSS = fmt.Sprint(css)
	}
	return out
}
