package settings_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/nonce"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
)

const (
	testSlug       = "stock-notifier"
	testCapability = "manage_options"
)

var admin = settings.StaticPrincipal{
	UserID:       "1",
	Session:      "session-admin",
	Capabilities: []string{testCapability},
}

var editor = settings.StaticPrincipal{
	UserID:  "2",
	Session: "session-editor",
}

func testConfig() model.PageConfig {
	return model.PageConfig{
		ParentSlug: "woocommerce",
		MenuSlug:   testSlug,
		PageTitle:  "Stock Notifier",
		MenuTitle:  "Notifier",
		Capability: testCapability,
	}
}

func testTabs() model.TabSet {
	return model.TabSet{
		{Name: "General Settings", Fields: []model.Field{
			{ID: "store_name", Label: "Store name", Description: "Shown in emails", Default: "My Store"},
			{ID: "enabled", Type: model.FieldCheckbox, Label: "Enabled", Default: true},
			{ID: "beta", Type: model.FieldSwitch, Label: "Beta features"},
			{ID: "mode", Type: model.FieldSelect, Label: "Mode", Default: "weekly", Options: model.Options{
				{Value: "daily", Label: "Daily"},
				{Value: "weekly", Label: "Weekly"},
			}},
		}},
		{Name: "Appearance", Fields: []model.Field{
			{ID: "accent", Type: model.FieldColor, Label: "Accent", Default: "#336699"},
			{ID: "layout", Type: model.FieldRadio, Label: "Layout", Default: "grid", Options: model.Options{
				{Value: "grid", Label: "Grid"},
				{Value: "list", Label: "List"},
			}},
			{ID: "footer", Type: model.FieldTextarea, Label: "Footer"},
			{ID: "custom_code", Type: model.FieldRichText, Label: "Custom code", Description: "Injected on the product page",
				Options: model.Options{{Value: "html", Label: "HTML"}, {Value: "css", Label: "CSS"}},
				Default: map[string]any{"html": "<p>hi</p>", "css": ""}},
		}},
	}
}

type fixture struct {
	page   *settings.Page
	store  *store.Memory
	nonces *nonce.Manager
}

func newFixture(t *testing.T, opts ...settings.Option) fixture {
	t.Helper()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	nonces, err := nonce.New([]byte("secret"), nonce.WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("nonce manager: %v", err)
	}
	mem := store.NewMemory(nil)
	page, err := settings.New(testConfig(), testTabs(), mem, nonces, opts...)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return fixture{page: page, store: mem, nonces: nonces}
}

func (f fixture) render(t *testing.T, query url.Values, principal settings.Principal) string {
	t.Helper()
	var buf strings.Builder
	req := settings.Request{
		Method:    "GET",
		URI:       "/admin.php?" + query.Encode(),
		Query:     query,
		Principal: principal,
	}
	if err := f.page.Render(context.Background(), &buf, req); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func (f fixture) saveToken(principal settings.StaticPrincipal) string {
	return f.nonces.Create(testConfig().NonceAction(), principal.Session)
}

func (f fixture) tabToken(principal settings.StaticPrincipal) string {
	return f.nonces.Create(testConfig().TabSwitchAction(), principal.Session)
}

func pageQuery(extra ...string) url.Values {
	q := url.Values{"page": {testSlug}}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return q
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if t.Failed() {
		t.Logf("output:\n%s", out)
	}
}

func assertNotContains(t *testing.T, out string, unwanted ...string) {
	t.Helper()
	for _, s := range unwanted {
		if strings.Contains(out, s) {
			t.Errorf("output unexpectedly contains %q", s)
		}
	}
}
