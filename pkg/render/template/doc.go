// Package template defines the renderer-agnostic template contract used by
// settings pages, the admin host layout, and field components.
package template
