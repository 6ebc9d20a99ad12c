// Package components maps settings field types to control renderers. Each
// descriptor renders the bare control for a field and declares the host
// widget bundles (color picker, code editors) the control needs on the page.
// RenderField wraps the control in the shared field chrome.
package components
