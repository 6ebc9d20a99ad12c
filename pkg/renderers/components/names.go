package components

// Host widget handles a descriptor can depend on. Hosts map them to concrete
// stylesheet/script bundles.
const (
	WidgetColorPicker    = "color-picker"
	WidgetCodeEditorHTML = "code-editor-html"
	WidgetCodeEditorCSS  = "code-editor-css"
)

// WidgetHandles lists every handle the default registry references.
var WidgetHandles = []string{
	WidgetColorPicker,
	WidgetCodeEditorHTML,
	WidgetCodeEditorCSS,
}
