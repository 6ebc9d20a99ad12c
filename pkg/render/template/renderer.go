package template

import (
	"io"
)

// TemplateRenderer renders named templates or inline template strings with
// a data context. Implementations must escape interpolated values by default;
// callers mark pre-rendered markup as safe inside the template itself.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// Func adapts a plain function to a single-template renderer, mostly for
// tests that want to stub component output.
type Func func(name string, data any) (string, error)

// Render calls f and copies the result to out.
func (f Func) Render(name string, data any, out ...io.Writer) (string, error) {
	rendered, err := f(name, data)
	if err != nil {
		return "", err
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// RenderTemplate is Render.
func (f Func) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	return f.Render(name, data, out...)
}

// RenderString is Render with the template content passed as the name.
func (f Func) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return f.Render(templateContent, data, out...)
}

// RegisterFilter is a no-op.
func (Func) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

// GlobalContext is a no-op.
func (Func) GlobalContext(any) error { return nil }

var _ TemplateRenderer = Func(nil)
