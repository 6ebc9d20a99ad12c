package schema

import _ "embed"

//go:embed defaults/stock-notifier.yaml
var defaultDocument []byte

// DefaultDocument returns the bundled example page, a stock notification
// settings screen covering every field type.
func DefaultDocument() Document {
	return MustParse(defaultDocument)
}

// DefaultDocumentYAML returns the raw bundled example.
func DefaultDocumentYAML() []byte {
	return append([]byte(nil), defaultDocument...)
}
