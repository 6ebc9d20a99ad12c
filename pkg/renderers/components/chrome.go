package components

import (
	"html"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
)

func buildFieldMarkup(field model.Field, descriptor Descriptor, control string) string {
	kind := string(field.Kind())

	var builder strings.Builder
	builder.Grow(len(control) + 160)

	builder.WriteString(`<div class="field-wrap field-`)
	builder.WriteString(html.EscapeString(kind))
	builder.WriteString(`">`)
	builder.WriteByte('\n')

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(field.ID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString("</label>\n")
	}

	// control is written unchanged; textarea bodies in it are stored values.
	builder.WriteString(control)
	if !strings.HasSuffix(control, "\n") {
		builder.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" && !descriptor.OwnsDescription {
		builder.WriteString(`    <p class="description">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
