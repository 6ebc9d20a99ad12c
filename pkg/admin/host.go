package admin

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-settingspage/pkg/render/template"
	gotemplate "github.com/goliatone/go-settingspage/pkg/render/template/gotemplate"
	"github.com/goliatone/go-settingspage/pkg/settings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Defaults applied by New.
const (
	DefaultTitle       = "Settings"
	DefaultAdminScript = "admin.php"
	layoutTemplate     = "templates/layout.tmpl"
	indexTemplate      = "templates/index.tmpl"
)

// Config describes the host.
type Config struct {
	// BasePath prefixes every admin route, e.g. "/wp-admin".
	BasePath string `json:"base_path" yaml:"base_path" mapstructure:"base_path"`
	Title    string `json:"title" yaml:"title" mapstructure:"title"`
	Users    []User `json:"users" yaml:"users" mapstructure:"users"`
	// DevUser names the user assumed when a request carries no token.
	DevUser string `json:"dev_user" yaml:"dev_user" mapstructure:"dev_user"`
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithAssets serves files under prefix. Pages point their asset URLs there
// through settings.WithAssetPrefix.
func WithAssets(prefix string, files fs.FS) Option {
	return func(h *Host) {
		prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
		if prefix == "/" || files == nil {
			return
		}
		h.assets = append(h.assets, assetMount{prefix: prefix, files: files})
	}
}

// WithTemplateRenderer replaces the layout renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(h *Host) {
		if renderer != nil {
			h.templates = renderer
		}
	}
}

type assetMount struct {
	prefix string
	files  fs.FS
}

// Host implements settings.Host over HTTP.
type Host struct {
	cfg       Config
	logger    *slog.Logger
	templates rendertemplate.TemplateRenderer
	assets    []assetMount

	mu         sync.RWMutex
	menu       []settings.MenuEntry
	inits      []settings.InitFunc
	assetHooks []settings.AssetFunc
}

var _ settings.Host = (*Host)(nil)

// New constructs a Host.
func New(cfg Config, opts ...Option) (*Host, error) {
	cfg.BasePath = strings.TrimRight(strings.TrimSpace(cfg.BasePath), "/")
	if cfg.BasePath != "" && !strings.HasPrefix(cfg.BasePath, "/") {
		cfg.BasePath = "/" + cfg.BasePath
	}
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = DefaultTitle
	}
	seen := make(map[string]struct{}, len(cfg.Users))
	for _, user := range cfg.Users {
		if strings.TrimSpace(user.Name) == "" {
			return nil, errors.New("admin: user name is required")
		}
		if _, ok := seen[user.Name]; ok {
			return nil, fmt.Errorf("admin: duplicate user %q", user.Name)
		}
		seen[user.Name] = struct{}{}
	}
	if cfg.DevUser != "" {
		if _, ok := seen[cfg.DevUser]; !ok {
			return nil, fmt.Errorf("admin: dev user %q is not a configured user", cfg.DevUser)
		}
	}

	h := &Host{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithSetName("settingspage-admin"),
		)
		if err != nil {
			return nil, fmt.Errorf("admin: configure layout renderer: %w", err)
		}
		h.templates = engine
	}
	return h, nil
}

// AddSubmenuPage adds a page to the menu. Slugs are unique.
func (h *Host) AddSubmenuPage(entry settings.MenuEntry) error {
	if strings.TrimSpace(entry.Slug) == "" {
		return errors.New("admin: menu slug is required")
	}
	if entry.Render == nil {
		return fmt.Errorf("admin: menu %q has no render function", entry.Slug)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.menu {
		if existing.Slug == entry.Slug {
			return fmt.Errorf("admin: menu slug %q already registered", entry.Slug)
		}
	}
	h.menu = append(h.menu, entry)
	h.logger.Debug("admin menu page added", "slug", entry.Slug, "parent", entry.Parent)
	return nil
}

// OnInit adds a hook run, in registration order, before any admin page
// renders.
func (h *Host) OnInit(fn settings.InitFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.inits = append(h.inits, fn)
	h.mu.Unlock()
}

// OnEnqueueAssets adds an asset hook.
func (h *Host) OnEnqueueAssets(fn settings.AssetFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.assetHooks = append(h.assetHooks, fn)
	h.mu.Unlock()
}

// Menu returns the registered entries in registration order.
func (h *Host) Menu() []settings.MenuEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]settings.MenuEntry(nil), h.menu...)
}

// AdminURL is the URL of the page dispatcher, suitable for
// settings.WithAdminURL.
func (h *Host) AdminURL() string {
	return h.cfg.BasePath + "/" + DefaultAdminScript
}

// HookName is the asset hook name for a menu entry: "<parent>_page_<slug>",
// or "toplevel_page_<slug>" without a parent.
func HookName(entry settings.MenuEntry) string {
	parent := strings.TrimSpace(entry.Parent)
	if parent == "" {
		parent = "toplevel"
	}
	return parent + "_page_" + entry.Slug
}

func (h *Host) lookup(slug string) (settings.MenuEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, entry := range h.menu {
		if entry.Slug == slug {
			return entry, true
		}
	}
	return settings.MenuEntry{}, false
}

func (h *Host) hooks() ([]settings.InitFunc, []settings.AssetFunc) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]settings.InitFunc(nil), h.inits...), append([]settings.AssetFunc(nil), h.assetHooks...)
}

func (h *Host) renderLayout(w http.ResponseWriter, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if _, err := h.templates.RenderTemplate(name, data, &buf); err != nil {
		h.logger.Error("admin layout render failed", "template", name, "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
