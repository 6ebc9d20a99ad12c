// Package schema loads settings page documents. A document pairs the menu
// registration data with an ordered tab set, is written in YAML or JSON, and
// is checked against an embedded JSON Schema before decoding. FromOpenAPI
// derives a document from an OpenAPI component schema.
package schema
