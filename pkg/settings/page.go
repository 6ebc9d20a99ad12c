package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/nonce"
	rendertemplate "github.com/goliatone/go-settingspage/pkg/render/template"
	gotemplate "github.com/goliatone/go-settingspage/pkg/render/template/gotemplate"
	"github.com/goliatone/go-settingspage/pkg/renderers/components"
	"github.com/goliatone/go-settingspage/pkg/store"
)

// Page is a registered settings page. It is immutable after New and safe for
// concurrent requests.
type Page struct {
	cfg    model.PageConfig
	tabs   model.TabSet
	store  store.OptionStore
	nonces *nonce.Manager

	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	logger       *slog.Logger
	adminURL     string
	assetPrefix  string
	widgets      map[string]WidgetBundle
	partials     map[string]string
	pageTemplate string
}

// New validates the page description and wires its dependencies.
func New(cfg model.PageConfig, tabs model.TabSet, options store.OptionStore, nonces *nonce.Manager, opts ...Option) (*Page, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if err := tabs.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if options == nil {
		return nil, errors.New("settings: option store is required")
	}
	if nonces == nil {
		return nil, errors.New("settings: nonce manager is required")
	}

	conf := config{
		templateFS:  TemplatesFS(),
		logger:      slog.New(slog.DiscardHandler),
		adminURL:    DefaultAdminURL,
		assetPrefix: DefaultAssetPrefix,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&conf)
	}

	renderer := conf.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithFS(conf.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		for _, overlay := range conf.overlays {
			engineOpts = append(engineOpts, gotemplate.WithOverlay(overlay))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("settings: configure template renderer: %w", err)
		}
		renderer = engine
	}

	// the page keeps its own copy so later registrations on a shared
	// registry cannot change a constructed page.
	registry := components.NewDefaultRegistry()
	if conf.registry != nil {
		registry = conf.registry.Clone()
	}
	for _, kind := range tabs.Types() {
		if _, ok := registry.Descriptor(string(kind)); !ok {
			return nil, fmt.Errorf("settings: no component registered for field type %q", kind)
		}
	}

	page := &Page{
		cfg:          cfg,
		tabs:         tabs,
		store:        options,
		nonces:       nonces,
		templates:    renderer,
		registry:     registry,
		logger:       conf.logger,
		adminURL:     conf.adminURL,
		assetPrefix:  conf.assetPrefix,
		widgets:      make(map[string]WidgetBundle),
		partials:     make(map[string]string),
		pageTemplate: PageTemplate,
	}

	if conf.selector != nil {
		selection, err := conf.selector.Select(conf.themeName, conf.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("settings: select theme %q: %w", conf.themeName, err)
		}
		resolved := resolveTheme(selection)
		page.widgets = resolved.widgets
		page.partials = resolved.partials
		if candidate := strings.TrimSpace(resolved.partials[themePageTemplate]); candidate != "" {
			page.pageTemplate = candidate
		}
	}
	for handle, bundle := range conf.widgets {
		page.widgets[handle] = bundle
	}

	return page, nil
}

// Config returns the page configuration.
func (p *Page) Config() model.PageConfig {
	return p.cfg
}

// Tabs returns the page's tab set.
func (p *Page) Tabs() model.TabSet {
	return p.tabs
}

// Store returns the option store the page persists into.
func (p *Page) Store() store.OptionStore {
	return p.store
}

// Register adds the page's menu entry, init hook and asset hook to host.
func (p *Page) Register(host Host) error {
	if host == nil {
		return errors.New("settings: host is nil")
	}
	err := host.AddSubmenuPage(MenuEntry{
		Parent:     p.cfg.ParentSlug,
		Slug:       p.cfg.MenuSlug,
		PageTitle:  p.cfg.Title(),
		MenuTitle:  menuTitle(p.cfg),
		Capability: p.cfg.Capability,
		Render:     p.Render,
	})
	if err != nil {
		return fmt.Errorf("settings: register menu %q: %w", p.cfg.MenuSlug, err)
	}
	host.OnInit(p.init)
	host.OnEnqueueAssets(p.Assets)
	return nil
}

func (p *Page) init(ctx context.Context, req Request) (string, error) {
	result, err := p.Save(ctx, req)
	if err != nil {
		return "", err
	}
	if result.Status != StatusSaved {
		return "", nil
	}
	return result.Redirect, nil
}

func menuTitle(cfg model.PageConfig) string {
	if cfg.MenuTitle != "" {
		return cfg.MenuTitle
	}
	return cfg.Title()
}
