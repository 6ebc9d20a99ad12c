package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-settingspage/pkg/model"
	rendertemplate "github.com/goliatone/go-settingspage/pkg/render/template"
)

// Renderer writes the control markup for field into buf.
type Renderer func(buf *bytes.Buffer, field model.Field, data ComponentData) error

// ComponentData carries the current value and helpers for a renderer. Value
// is the stored option or, when that is empty, the field default. Partials
// maps partial keys such as "settings.color" to replacement template paths.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	Value    string
	Config   map[string]any
	Partials map[string]string
}

// Descriptor bundles a renderer with the widget handles it depends on.
// OwnsDescription marks controls that render the field description
// themselves.
type Descriptor struct {
	Name            string
	Renderer        Renderer
	Widgets         []string
	OwnsDescription bool
}

// Registry tracks descriptors keyed by field type.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates descriptor with name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns the registered names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Widgets returns the widget handles required by the named components, in
// first-seen order without duplicates.
func (r *Registry) Widgets(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, handle := range descriptor.Widgets {
			if handle == "" {
				continue
			}
			if _, exists := seen[handle]; exists {
				continue
			}
			seen[handle] = struct{}{}
			out = append(out, handle)
		}
	}
	return out
}

// RenderField renders field through the descriptor registered for its type
// and wraps the control in the field chrome.
func (r *Registry) RenderField(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	kind := string(field.Kind())
	descriptor, ok := r.Descriptor(kind)
	if !ok {
		return fmt.Errorf("components: component %q not registered for field %q", kind, field.ID)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return fmt.Errorf("components: render %q for field %q: %w", kind, field.ID, err)
	}

	buf.WriteString(buildFieldMarkup(field, descriptor, control.String()))
	return nil
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:            src.Name,
		Renderer:        src.Renderer,
		Widgets:         slices.Clone(src.Widgets),
		OwnsDescription: src.OwnsDescription,
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
