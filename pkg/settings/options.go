package settings

import (
	"io/fs"
	"log/slog"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	rendertemplate "github.com/goliatone/go-settingspage/pkg/render/template"
	"github.com/goliatone/go-settingspage/pkg/renderers/components"
)

// Defaults applied by New.
const (
	DefaultAdminURL    = "admin.php"
	DefaultAssetPrefix = "/settings-assets"
)

// Option configures a Page.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	overlays         []fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	logger           *slog.Logger
	adminURL         string
	assetPrefix      string
	widgets          map[string]WidgetBundle
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WidgetBundle lists the stylesheet and script URLs behind a widget handle.
type WidgetBundle struct {
	Styles  []string `json:"styles" yaml:"styles" mapstructure:"styles"`
	Scripts []string `json:"scripts" yaml:"scripts" mapstructure:"scripts"`
}

// WithTemplatesFS replaces the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateOverlay adds a filesystem whose templates shadow the bundle,
// typically the directory holding a theme's partials.
func WithTemplateOverlay(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.overlays = append(cfg.overlays, files)
		}
	}
}

// WithTemplateRenderer injects a template renderer. Template FS options are
// ignored when one is set.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRegistry replaces the default component registry.
func WithRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithLogger sets the logger. Pages log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithAdminURL sets the URL tab links point at.
func WithAdminURL(url string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cfg.adminURL = trimmed
		}
	}
}

// WithAssetPrefix sets the URL prefix the page-local assets are served from.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			cfg.assetPrefix = trimmed
		}
	}
}

// WithWidgetAssets maps widget handles to their bundles. Entries win over
// theme-provided files.
func WithWidgetAssets(bundles map[string]WidgetBundle) Option {
	return func(cfg *config) {
		if len(bundles) == 0 {
			return
		}
		if cfg.widgets == nil {
			cfg.widgets = make(map[string]WidgetBundle, len(bundles))
		}
		for handle, bundle := range bundles {
			cfg.widgets[strings.TrimSpace(handle)] = bundle
		}
	}
}

// WithThemeSelector resolves widget asset files and template partials from a
// go-theme selection made once at construction.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		if selector == nil {
			return
		}
		cfg.selector = selector
		cfg.themeName = strings.TrimSpace(name)
		cfg.themeVariant = strings.TrimSpace(variant)
	}
}

// WithTheme is WithThemeSelector for a single manifest.
func WithTheme(manifest *theme.Manifest, variant string) Option {
	return func(cfg *config) {
		if manifest == nil {
			return
		}
		cfg.selector = ManifestSelector{Manifest: manifest}
		cfg.themeName = manifest.Name
		cfg.themeVariant = strings.TrimSpace(variant)
	}
}
