package settings

import (
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingspage/pkg/renderers/components"
)

// Theme keys read from a manifest. Widget files live under
// "widgets.<handle>.css" and "widgets.<handle>.js"; the page layout can be
// replaced with the "settings.page" template.
const (
	themeWidgetPrefix = "widgets."
	themePageTemplate = "settings.page"
)

// ManifestSelector is a theme.ThemeSelector over one manifest.
type ManifestSelector struct {
	Manifest *theme.Manifest
}

// Select returns the manifest with the requested variant.
func (s ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.Manifest == nil {
		return nil, fmt.Errorf("settings: theme manifest is nil")
	}
	if name != "" && name != s.Manifest.Name {
		return nil, fmt.Errorf("settings: unknown theme %q", name)
	}
	return &theme.Selection{
		Theme:    s.Manifest.Name,
		Variant:  variant,
		Manifest: s.Manifest,
	}, nil
}

var _ theme.ThemeSelector = ManifestSelector{}

type themeAssets struct {
	widgets  map[string]WidgetBundle
	partials map[string]string
}

func resolveTheme(selection *theme.Selection) themeAssets {
	out := themeAssets{
		widgets:  make(map[string]WidgetBundle),
		partials: make(map[string]string),
	}
	if selection == nil || selection.Manifest == nil {
		return out
	}
	manifest := selection.Manifest

	prefix := manifest.Assets.Prefix
	files := copyStrings(manifest.Assets.Files)
	for key, value := range manifest.Templates {
		out.partials[key] = value
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
		for key, value := range variant.Templates {
			out.partials[key] = value
		}
	}

	for _, handle := range components.WidgetHandles {
		var bundle WidgetBundle
		if file := files[themeWidgetPrefix+handle+".css"]; file != "" {
			bundle.Styles = append(bundle.Styles, assetURL(prefix, file))
		}
		if file := files[themeWidgetPrefix+handle+".js"]; file != "" {
			bundle.Scripts = append(bundle.Scripts, assetURL(prefix, file))
		}
		if len(bundle.Styles) > 0 || len(bundle.Scripts) > 0 {
			out.widgets[handle] = bundle
		}
	}
	return out
}

func assetURL(prefix, file string) string {
	if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	if strings.Contains(prefix, "://") {
		return strings.TrimRight(prefix, "/") + "/" + file
	}
	return path.Join(prefix, file)
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
