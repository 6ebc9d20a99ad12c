// Package model defines the declarative description of a settings page: the
// field descriptors a plugin author supplies, the ordered tab set that groups
// them, and the page configuration used to register the page with a host.
//
// Field descriptors are immutable once built. The TabSet keeps the order in
// which tabs and fields were declared, both when constructed as Go literals
// and when decoded from YAML/JSON documents, because render order and the
// "first tab" fallback depend on it.
//
// Tab identity for URLs is derived with TabKey, a deterministic folding of the
// display name (for example "General Settings" becomes "general-settings").
package model
