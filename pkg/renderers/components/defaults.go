package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
)

// TemplatePrefix is where the default descriptors look up their templates.
const TemplatePrefix = "templates/components/"

// PartialKey names the theme partial that replaces the template for kind.
func PartialKey(kind model.FieldType) string {
	return "settings." + string(kind.OrDefault())
}

// NewDefaultRegistry returns a registry with a descriptor for every built-in
// field type.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(string(model.FieldText), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldText), TemplatePrefix+"text.tmpl"),
	})
	registry.MustRegister(string(model.FieldTextarea), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldTextarea), TemplatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(string(model.FieldSelect), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldSelect), TemplatePrefix+"select.tmpl"),
	})
	registry.MustRegister(string(model.FieldRadio), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldRadio), TemplatePrefix+"radio.tmpl"),
	})
	registry.MustRegister(string(model.FieldCheckbox), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldCheckbox), TemplatePrefix+"checkbox.tmpl"),
	})
	registry.MustRegister(string(model.FieldSwitch), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldSwitch), TemplatePrefix+"switch.tmpl"),
	})
	registry.MustRegister(string(model.FieldColor), Descriptor{
		Renderer: templateComponentRenderer(PartialKey(model.FieldColor), TemplatePrefix+"color.tmpl"),
		Widgets:  []string{WidgetColorPicker},
	})
	registry.MustRegister(string(model.FieldRichText), Descriptor{
		Renderer:        templateComponentRenderer(PartialKey(model.FieldRichText), TemplatePrefix+"richtext_editor.tmpl"),
		Widgets:         []string{WidgetCodeEditorHTML, WidgetCodeEditorCSS},
		OwnsDescription: true,
	})

	return registry
}

// FieldView is the template payload for a single control.
type FieldView struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Value       string          `json:"value"`
	Checked     bool            `json:"checked"`
	Options     []OptionView    `json:"options"`
	Editor      string          `json:"editor"`
	EditorTabs  bool            `json:"editor_tabs"`
	Code        model.CodeValue `json:"code"`
}

// OptionView is a select/radio choice with its selection state.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// NewFieldView derives the template payload for field holding value.
func NewFieldView(field model.Field, value string) FieldView {
	view := FieldView{
		ID:          field.ID,
		Type:        string(field.Kind()),
		Label:       field.Label,
		Description: field.Description,
		Value:       value,
	}

	switch field.Kind() {
	case model.FieldCheckbox, model.FieldSwitch:
		view.Checked = value == "1"
	case model.FieldSelect, model.FieldRadio:
		view.Options = make([]OptionView, 0, len(field.Options))
		for _, opt := range field.Options {
			view.Options = append(view.Options, OptionView{
				Value:    opt.Value,
				Label:    opt.Label,
				Selected: opt.Value == value,
			})
		}
	case model.FieldRichText:
		view.Editor = string(field.Editor())
		view.EditorTabs = field.ShowsEditorTabs()
		if code, ok := model.DecodeCodeValue(value); ok {
			view.Code = code
		} else {
			view.Code = model.CodeValue{HTML: value}
		}
	}
	return view
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		payload := map[string]any{
			"field":  NewFieldView(field, data.Value),
			"config": data.Config,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
