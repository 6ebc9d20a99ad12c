// Package settingspage builds admin settings pages from declarative tab and
// field descriptions: tabbed HTML forms, token-protected saves into an option
// store, per-type sanitizing and widget asset loading.
//
// Quick start:
//
//	nonces, _ := settingspage.NewNonceManager(secret)
//	page, err := settingspage.NewPage(cfg, tabs, store.NewMemory(nil), nonces)
//	if err != nil { ... }
//	mux.Handle("/admin.php", page.Handler(resolvePrincipal))
package settingspage

import (
	"context"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/nonce"
	"github.com/goliatone/go-settingspage/pkg/schema"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
)

// Field describes one input on a settings page.
type Field = model.Field

// FieldType names the control a field renders as.
type FieldType = model.FieldType

// Tab groups fields under a display name.
type Tab = model.Tab

// TabSet is the ordered list of tabs.
type TabSet = model.TabSet

// PageConfig carries the menu registration data.
type PageConfig = model.PageConfig

// Page is a settings page.
type Page = settings.Page

// Option configures a Page.
type Option = settings.Option

// OptionStore persists option values.
type OptionStore = store.OptionStore

// Document is a settings page description loaded from YAML or JSON.
type Document = schema.Document

// NewPage validates the description and returns a page ready to register
// with a host or serve through Page.Handler.
func NewPage(cfg PageConfig, tabs TabSet, options OptionStore, nonces *nonce.Manager, opts ...Option) (*Page, error) {
	return settings.New(cfg, tabs, options, nonces, opts...)
}

// NewNonceManager returns a token manager signing with secret and the
// default lifetime.
func NewNonceManager(secret []byte, opts ...nonce.Option) (*nonce.Manager, error) {
	return nonce.New(secret, opts...)
}

// NewPageFromFile loads a settings document from path and builds its page.
func NewPageFromFile(ctx context.Context, path string, options OptionStore, nonces *nonce.Manager, opts ...Option) (*Page, error) {
	doc, err := schema.Load(ctx, schema.SourceFromFile(path))
	if err != nil {
		return nil, err
	}
	return settings.New(doc.Page, doc.Tabs, options, nonces, opts...)
}
