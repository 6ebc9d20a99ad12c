package settings_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/renderers/components"
	"github.com/goliatone/go-settingspage/pkg/settings"
)

func TestRenderShowsDefaultsWhenNothingStored(t *testing.T) {
	f := newFixture(t)
	out := f.render(t, pageQuery(), admin)

	assertContains(t, out,
		`<h1>Stock Notifier</h1>`,
		`<input type="text" id="store_name" name="store_name" value="My Store" class="regular-text">`,
		`<input type="checkbox" id="enabled" name="enabled" value="1" checked>`,
		`<input type="checkbox" id="beta" name="beta" value="1">`,
		`<option value="weekly" selected>Weekly</option>`,
		`<option value="daily">Daily</option>`,
		`<input type="text" id="accent" name="accent" value="#336699" class="color-picker">`,
		`<input type="radio" name="layout" value="grid" checked> Grid</label><br>`,
		`<textarea id="footer" name="footer" rows="4" cols="50"></textarea>`,
		`<textarea class="html" id="custom_code" name="custom_code[html]" rows="10">&lt;p&gt;hi&lt;/p&gt;</textarea>`,
		`name="custom_code[css]" rows="10" style="display:none">`,
		`<p>* Injected on the product page</p>`,
		`<p class="description">Shown in emails</p>`,
		`<label class="switch">`,
		`<span class="slider round"></span>`,
		`<div class="field-wrap field-richtext_editor">`,
		`<label for="store_name">Store name</label>`,
		`value="Save Settings"`,
	)
	assertNotContains(t, out, "Settings saved successfully!")
}

func TestRenderEscapesStoredValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.store.Set(ctx, "store_name", `<script>alert("x")</script>`)
	_ = f.store.Set(ctx, "enabled", "")
	_ = f.store.Set(ctx, "mode", "daily")

	out := f.render(t, pageQuery(), admin)
	assertContains(t, out,
		`value="&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"`,
		`<option value="daily" selected>Daily</option>`,
	)
	assertNotContains(t, out, `<script>alert`)

	// an empty stored flag falls back to the default.
	assertContains(t, out, `<input type="checkbox" id="enabled" name="enabled" value="1" checked>`)
}

func TestRenderSingleFormWithAllTabs(t *testing.T) {
	f := newFixture(t)
	out := f.render(t, pageQuery(), admin)

	if got := strings.Count(out, "<form "); got != 1 {
		t.Fatalf("expected one form, got %d", got)
	}
	formStart := strings.Index(out, "<form ")
	formEnd := strings.Index(out, "</form>")
	form := out[formStart:formEnd]
	assertContains(t, form,
		`class="tab-content tab-0" data-tab="general-settings">`,
		`class="tab-content tab-1" data-tab="appearance" style="display:none">`,
		`name="stock-notifier_nonce"`,
	)
}

func TestRenderDefaultsToFirstTab(t *testing.T) {
	f := newFixture(t)
	out := f.render(t, pageQuery(), admin)

	assertContains(t, out,
		`class="nav-tab nav-tab-active" data-tab="general-settings"`,
		`class="nav-tab" data-tab="appearance"`,
	)
}

func TestRenderSelectsRequestedTab(t *testing.T) {
	f := newFixture(t)
	out := f.render(t, pageQuery("tab", "appearance", "_wpnonce", f.tabToken(admin)), admin)

	assertContains(t, out,
		`class="nav-tab" data-tab="general-settings"`,
		`class="nav-tab nav-tab-active" data-tab="appearance"`,
		`class="tab-content tab-0" data-tab="general-settings" style="display:none">`,
		`class="tab-content tab-1" data-tab="appearance">`,
	)
}

func TestRenderUnknownTabFallsBack(t *testing.T) {
	f := newFixture(t)
	out := f.render(t, pageQuery("tab", "missing"), admin)
	assertContains(t, out, `class="nav-tab nav-tab-active" data-tab="general-settings"`)
}

func TestRenderAbortsOnInvalidTabToken(t *testing.T) {
	f := newFixture(t)

	if out := f.render(t, pageQuery("tab", "appearance", "_wpnonce", "forged"), admin); out != "" {
		t.Fatalf("expected no output for forged token, got %d bytes", len(out))
	}
	// tokens are bound to the session they were issued for.
	if out := f.render(t, pageQuery("tab", "appearance", "_wpnonce", f.tabToken(admin)), editor); out != "" {
		t.Fatalf("expected no output for foreign token")
	}
}

func TestRenderTabLinksCarryTokens(t *testing.T) {
	f := newFixture(t, settings.WithAdminURL("/wp-admin/admin.php"))
	out := f.render(t, pageQuery(), admin)

	want := `href="/wp-admin/admin.php?page=stock-notifier&amp;tab=appearance&amp;_wpnonce=` + f.tabToken(admin) + `"`
	assertContains(t, out, want)
}

func TestRenderSuccessNotice(t *testing.T) {
	f := newFixture(t)
	out := f.render(t, pageQuery("settings-updated", "true"), admin)
	assertContains(t, out, "Settings saved successfully!")
}

func TestRenderUsesThemePartials(t *testing.T) {
	overlay := fstest.MapFS{
		"themes/acme/color.tmpl": {Data: []byte(`<input type="color" id="{{ field.id }}" value="{{ field.value }}">`)},
	}
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Templates: map[string]string{
			"settings.color": "themes/acme/color.tmpl",
		},
	}
	f := newFixture(t, settings.WithTemplateOverlay(overlay), settings.WithTheme(manifest, ""))
	out := f.render(t, pageQuery(), admin)

	assertContains(t, out, `<input type="color" id="accent" value="#336699">`)
	assertNotContains(t, out, `class="color-picker"`)
}

func TestNewRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	mem := f.page.Store()

	if _, err := settings.New(model.PageConfig{MenuSlug: "x"}, testTabs(), mem, f.nonces); err == nil {
		t.Fatalf("expected error for missing capability")
	}
	if _, err := settings.New(testConfig(), nil, mem, f.nonces); err == nil {
		t.Fatalf("expected error for empty tab set")
	}
	if _, err := settings.New(testConfig(), testTabs(), nil, f.nonces); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := settings.New(testConfig(), testTabs(), mem, nil); err == nil {
		t.Fatalf("expected error for nil nonce manager")
	}
}

func TestRenderIgnoresRegistryChangesAfterNew(t *testing.T) {
	reg := components.NewDefaultRegistry()
	f := newFixture(t, settings.WithRegistry(reg))

	override := func(buf *bytes.Buffer, field model.Field, data components.ComponentData) error {
		buf.WriteString("overridden-" + field.ID)
		return nil
	}
	if err := reg.Register(string(model.FieldText), components.Descriptor{Renderer: override}); err != nil {
		t.Fatalf("register: %v", err)
	}

	out := f.render(t, pageQuery(), admin)
	assertNotContains(t, out, "overridden-store_name")
	assertContains(t, out, `<input type="text" id="store_name" name="store_name" value="My Store" class="regular-text">`)
}
