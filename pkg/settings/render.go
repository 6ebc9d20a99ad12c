package settings

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/renderers/components"
)

type pageView struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Updated   bool      `json:"updated"`
	Action    string    `json:"action"`
	NonceName string    `json:"nonce_name"`
	Nonce     string    `json:"nonce"`
	Tabs      []tabView `json:"tabs"`
}

type tabView struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
	Body   string `json:"body"`
}

// Render writes the page for req. A tab link whose token fails verification
// produces no output and no error.
func (p *Page) Render(ctx context.Context, w io.Writer, req Request) error {
	if req.Query.Has(ParamNonce) {
		token := req.Query.Get(ParamNonce)
		if !p.nonces.Valid(token, p.cfg.TabSwitchAction(), req.session()) {
			p.logger.Debug("settings render skipped", "slug", p.cfg.MenuSlug, "reason", ReasonInvalidTabNonce)
			return nil
		}
	}

	current := p.tabs.Resolve(req.Query.Get(ParamTab))
	session := req.session()
	tabToken := p.nonces.Create(p.cfg.TabSwitchAction(), session)

	view := pageView{
		Slug:      p.cfg.MenuSlug,
		Title:     p.cfg.Title(),
		Updated:   req.Query.Has(ParamUpdated),
		Action:    p.formAction(req),
		NonceName: p.cfg.NonceName(),
		Nonce:     p.nonces.Create(p.cfg.NonceAction(), session),
		Tabs:      make([]tabView, 0, len(p.tabs)),
	}

	for _, tab := range p.tabs {
		body, err := p.renderTab(ctx, tab)
		if err != nil {
			return err
		}
		key := tab.Key()
		view.Tabs = append(view.Tabs, tabView{
			Key:    key,
			Name:   tab.Name,
			Href:   p.tabURL(key, tabToken),
			Active: key == current,
			Body:   body,
		})
	}

	if _, err := p.templates.RenderTemplate(p.pageTemplate, map[string]any{"page": view}, w); err != nil {
		return fmt.Errorf("settings: render page %q: %w", p.cfg.MenuSlug, err)
	}
	return nil
}

func (p *Page) renderTab(ctx context.Context, tab model.Tab) (string, error) {
	var buf bytes.Buffer
	for _, field := range tab.Fields {
		value, err := p.Value(ctx, field)
		if err != nil {
			return "", err
		}
		data := components.ComponentData{
			Template: p.templates,
			Value:    value,
			Partials: p.partials,
		}
		if err := p.registry.RenderField(&buf, field, data); err != nil {
			return "", fmt.Errorf("settings: tab %q: %w", tab.Name, err)
		}
	}
	return buf.String(), nil
}

// Value is the stored value of field, or its default when nothing (or an
// empty string) is stored.
func (p *Page) Value(ctx context.Context, field model.Field) (string, error) {
	value, ok, err := p.store.Get(ctx, field.ID)
	if err != nil {
		return "", fmt.Errorf("settings: read option %q: %w", field.ID, err)
	}
	if !ok || value == "" {
		return field.DefaultString(), nil
	}
	return value, nil
}

// Values returns Value for every field, keyed by field id.
func (p *Page) Values(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	for _, field := range p.tabs.Fields() {
		value, err := p.Value(ctx, field)
		if err != nil {
			return nil, err
		}
		out[field.ID] = value
	}
	return out, nil
}

func (p *Page) tabURL(key, token string) string {
	var b strings.Builder
	b.WriteString(p.adminURL)
	if strings.Contains(p.adminURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString(ParamPage + "=" + url.QueryEscape(p.cfg.MenuSlug))
	b.WriteString("&" + ParamTab + "=" + url.QueryEscape(key))
	b.WriteString("&" + ParamNonce + "=" + url.QueryEscape(token))
	return b.String()
}

func (p *Page) pageURL() string {
	sep := "?"
	if strings.Contains(p.adminURL, "?") {
		sep = "&"
	}
	return p.adminURL + sep + ParamPage + "=" + url.QueryEscape(p.cfg.MenuSlug)
}

func (p *Page) formAction(req Request) string {
	if req.URI != "" {
		return req.URI
	}
	return p.pageURL()
}
