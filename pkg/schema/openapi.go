package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingspage/pkg/model"
)

// ExtensionKey is the vendor extension read by FromOpenAPI. On the object
// schema it may carry "page" (a page config) and "tabs" (tab order); on a
// property it may carry "tab", "type", "label", "order", "default_editor"
// and "labels" (option value to label).
const ExtensionKey = "x-settings"

// DefaultTab holds properties that name no tab.
const DefaultTab = "General"

// DefaultCapability is used when the extension names no capability.
const DefaultCapability = "manage_options"

type schemaExtension struct {
	Page model.PageConfig `json:"page"`
	Tabs []string         `json:"tabs"`
}

type propertyExtension struct {
	Tab           string            `json:"tab"`
	Type          model.FieldType   `json:"type"`
	Label         string            `json:"label"`
	Order         int               `json:"order"`
	DefaultEditor model.EditorMode  `json:"default_editor"`
	Labels        map[string]string `json:"labels"`
	Skip          bool              `json:"skip"`
}

// FromOpenAPI derives a settings Document from the object schema named
// schemaName under components.schemas. Properties become fields; the field
// type follows the extension, then the JSON type and format.
func FromOpenAPI(ctx context.Context, raw []byte, schemaName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	apiDoc, err := loader.LoadFromData(raw)
	if err != nil {
		return Document{}, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if apiDoc.Components == nil || len(apiDoc.Components.Schemas) == 0 {
		return Document{}, errors.New("schema: openapi document has no component schemas")
	}
	ref, ok := apiDoc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return Document{}, fmt.Errorf("schema: component schema %q not found", schemaName)
	}
	object := ref.Value
	if len(object.Properties) == 0 {
		return Document{}, fmt.Errorf("schema: component schema %q has no properties", schemaName)
	}

	var ext schemaExtension
	if err := decodeExtension(object.Extensions, &ext); err != nil {
		return Document{}, fmt.Errorf("schema: %s %s: %w", schemaName, ExtensionKey, err)
	}
	page := ext.Page
	if page.MenuSlug == "" {
		page.MenuSlug = model.TabKey(schemaName)
	}
	if page.Capability == "" {
		page.Capability = DefaultCapability
	}
	if page.PageTitle == "" {
		page.PageTitle = object.Title
	}

	type entry struct {
		name  string
		field model.Field
		tab   string
		order int
	}
	var entries []entry
	for name, prop := range object.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		var pext propertyExtension
		if err := decodeExtension(prop.Value.Extensions, &pext); err != nil {
			return Document{}, fmt.Errorf("schema: property %q %s: %w", name, ExtensionKey, err)
		}
		if pext.Skip || prop.Value.ReadOnly {
			continue
		}
		tab := strings.TrimSpace(pext.Tab)
		if tab == "" {
			tab = DefaultTab
		}
		entries = append(entries, entry{
			name:  name,
			field: fieldFromProperty(name, prop.Value, pext),
			tab:   tab,
			order: pext.Order,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].name < entries[j].name
	})

	tabOrder := append([]string(nil), ext.Tabs...)
	fieldsByTab := make(map[string][]model.Field)
	for _, e := range entries {
		if _, ok := fieldsByTab[e.tab]; !ok && !containsString(tabOrder, e.tab) {
			tabOrder = append(tabOrder, e.tab)
		}
		fieldsByTab[e.tab] = append(fieldsByTab[e.tab], e.field)
	}

	doc := Document{Page: page}
	for _, name := range tabOrder {
		fields := fieldsByTab[name]
		if len(fields) == 0 {
			continue
		}
		doc.Tabs = append(doc.Tabs, model.Tab{Name: name, Fields: fields})
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("schema: %s: %w", schemaName, err)
	}
	return doc, nil
}

func fieldFromProperty(name string, prop *openapi3.Schema, ext propertyExtension) model.Field {
	field := model.Field{
		ID:            name,
		Type:          ext.Type,
		Label:         firstNonEmpty(ext.Label, prop.Title),
		Description:   prop.Description,
		Default:       prop.Default,
		DefaultEditor: ext.DefaultEditor,
	}
	for _, value := range prop.Enum {
		raw := fmt.Sprint(value)
		label := raw
		if custom, ok := ext.Labels[raw]; ok {
			label = custom
		}
		field.Options = append(field.Options, model.Option{Value: raw, Label: label})
	}

	if field.Type == "" {
		field.Type = inferType(prop, len(field.Options) > 0)
	}
	if field.Kind() == model.FieldRichText && len(field.Options) == 0 {
		field.Options = model.Options{
			{Value: string(model.EditorHTML), Label: "HTML"},
			{Value: string(model.EditorCSS), Label: "CSS"},
		}
	}
	if field.Kind() == model.FieldCheckbox || field.Kind() == model.FieldSwitch {
		if on, ok := prop.Default.(bool); ok {
			field.Default = on
		}
	}
	return field
}

func inferType(prop *openapi3.Schema, hasEnum bool) model.FieldType {
	switch {
	case hasEnum:
		return model.FieldSelect
	case schemaType(prop.Type) == openapi3.TypeBoolean:
		return model.FieldCheckbox
	}
	switch strings.ToLower(prop.Format) {
	case "color", "hex-color":
		return model.FieldColor
	case "textarea", "multiline":
		return model.FieldTextarea
	case "html", "code":
		return model.FieldRichText
	}
	return model.FieldText
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func decodeExtension(extensions map[string]any, target any) error {
	raw, ok := extensions[ExtensionKey]
	if !ok || raw == nil {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
