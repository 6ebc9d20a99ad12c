package settings_test

import (
	"context"
	"errors"
	"html"
	"net/url"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
)

func saveRequest(f fixture, principal settings.Principal, form url.Values) settings.Request {
	return settings.Request{
		Method:    "POST",
		URI:       "/admin.php?page=" + testSlug + "&tab=appearance",
		Query:     pageQuery("tab", "appearance"),
		Form:      form,
		Principal: principal,
	}
}

func TestSavePersistsSanitizedValues(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"stock-notifier_nonce": {f.saveToken(admin)},
		"store_name":           {"  <b>Acme</b>\n Store "},
		"enabled":              {"1"},
		"beta":                 {"on"},
		"mode":                 {"daily"},
		"accent":               {"not-a-color"},
		"layout":               {"list"},
		"footer":               {"line one\r\n<i>line two</i>"},
		"custom_code[html]":    {`<div class="x">raw</div>`},
		"custom_code[css]":     {".x { color: red; }"},
	}

	result, err := f.page.Save(context.Background(), saveRequest(f, admin, form))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !result.Saved() || result.Written != 8 {
		t.Fatalf("unexpected result %#v", result)
	}

	redirect, err := url.Parse(result.Redirect)
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if redirect.Path != "/admin.php" || redirect.Query().Get("settings-updated") != "true" || redirect.Query().Get("tab") != "appearance" {
		t.Fatalf("unexpected redirect %q", result.Redirect)
	}

	want := map[string]string{
		"store_name":  "Acme Store",
		"enabled":     "1",
		"beta":        "",
		"mode":        "daily",
		"accent":      "",
		"layout":      "list",
		"footer":      "line one\nline two",
		"custom_code": model.CodeValue{HTML: `<div class="x">raw</div>`, CSS: ".x { color: red; }"}.Encode(),
	}
	if diff := cmp.Diff(want, f.store.Snapshot()); diff != "" {
		t.Fatalf("stored values mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveKeepsValidColor(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"stock-notifier_nonce": {f.saveToken(admin)},
		"accent":               {"#ff0000"},
	}
	if _, err := f.page.Save(context.Background(), saveRequest(f, admin, form)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := f.store.Snapshot()["accent"]; got != "#ff0000" {
		t.Fatalf("accent = %q", got)
	}
}

func TestSaveFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)
	form := url.Values{"stock-notifier_nonce": {f.saveToken(admin)}}

	if _, err := f.page.Save(context.Background(), saveRequest(f, admin, form)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := f.store.Snapshot()
	want := map[string]string{
		"store_name":  "My Store",
		"enabled":     "1",
		"beta":        "",
		"mode":        "weekly",
		"accent":      "#336699",
		"layout":      "grid",
		"footer":      "",
		"custom_code": model.CodeValue{HTML: "<p>hi</p>"}.Encode(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stored values mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveCheckboxWithoutDefaultStoresEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.store.Set(ctx, "beta", "1")

	form := url.Values{"stock-notifier_nonce": {f.saveToken(admin)}}
	if _, err := f.page.Save(ctx, saveRequest(f, admin, form)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := f.store.Snapshot()["beta"]; got != "" {
		t.Fatalf("unchecked switch stored %q", got)
	}
}

func TestSaveGuards(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f fixture, req *settings.Request)
		wantRsn   string
		principal settings.Principal
	}{
		{
			name: "other page",
			mutate: func(f fixture, req *settings.Request) {
				req.Query.Set("page", "other-plugin")
			},
			wantRsn: settings.ReasonOtherPage,
		},
		{
			name: "missing page",
			mutate: func(f fixture, req *settings.Request) {
				req.Query.Del("page")
			},
			wantRsn: settings.ReasonOtherPage,
		},
		{
			name: "missing token",
			mutate: func(f fixture, req *settings.Request) {
				req.Form.Del("stock-notifier_nonce")
			},
			wantRsn: settings.ReasonMissingNonce,
		},
		{
			name: "wrong token",
			mutate: func(f fixture, req *settings.Request) {
				req.Form.Set("stock-notifier_nonce", "deadbeef")
			},
			wantRsn: settings.ReasonInvalidNonce,
		},
		{
			name: "tab token reused for save",
			mutate: func(f fixture, req *settings.Request) {
				req.Form.Set("stock-notifier_nonce", f.tabToken(admin))
			},
			wantRsn: settings.ReasonInvalidNonce,
		},
		{
			name: "missing capability",
			mutate: func(f fixture, req *settings.Request) {
				req.Principal = editor
				req.Form.Set("stock-notifier_nonce", f.nonces.Create(testConfig().NonceAction(), editor.Session))
			},
			wantRsn: settings.ReasonForbidden,
		},
		{
			name: "anonymous",
			mutate: func(f fixture, req *settings.Request) {
				req.Principal = nil
				req.Form.Set("stock-notifier_nonce", f.nonces.Create(testConfig().NonceAction(), ""))
			},
			wantRsn: settings.ReasonForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			form := url.Values{
				"stock-notifier_nonce": {f.saveToken(admin)},
				"store_name":           {"changed"},
			}
			req := saveRequest(f, admin, form)
			tt.mutate(f, &req)

			result, err := f.page.Save(context.Background(), req)
			if err != nil {
				t.Fatalf("save returned error: %v", err)
			}
			if result.Saved() || result.Reason != tt.wantRsn {
				t.Fatalf("result = %#v, want reason %q", result, tt.wantRsn)
			}
			if got := len(f.store.Snapshot()); got != 0 {
				t.Fatalf("guarded save wrote %d options", got)
			}
		})
	}
}

type failingStore struct {
	store.OptionStore
	failOn string
}

func (s failingStore) Set(ctx context.Context, key, value string) error {
	if key == s.failOn {
		return errors.New("disk full")
	}
	return s.OptionStore.Set(ctx, key, value)
}

func TestPersistStopsOnStoreError(t *testing.T) {
	f := newFixture(t)
	mem := store.NewMemory(nil)
	page, err := settings.New(testConfig(), testTabs(), failingStore{OptionStore: mem, failOn: "mode"}, f.nonces)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}

	written, err := page.Persist(context.Background(), url.Values{"store_name": {"x"}})
	if err == nil {
		t.Fatalf("expected store error")
	}
	if written != 3 {
		t.Fatalf("written = %d, want 3", written)
	}
	// earlier writes are not rolled back.
	if got := mem.Snapshot()["store_name"]; got != "x" {
		t.Fatalf("store_name = %q", got)
	}
}

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		field model.Field
		raw   string
		want  string
	}{
		{field: model.Field{ID: "a"}, raw: " a\tb ", want: "a b"},
		{field: model.Field{ID: "a", Type: model.FieldSwitch}, raw: "1", want: "1"},
		{field: model.Field{ID: "a", Type: model.FieldCheckbox}, raw: "true", want: ""},
		{field: model.Field{ID: "a", Type: model.FieldColor}, raw: "#abc", want: "#abc"},
		{field: model.Field{ID: "a", Type: model.FieldRichText}, raw: "<b>kept</b>", want: "<b>kept</b>"},
		{field: model.Field{ID: "a", Type: model.FieldSelect}, raw: "<i>x</i>", want: "x"},
		{field: model.Field{ID: "a"}, raw: "Tom &amp; Jerry", want: "Tom &amp; Jerry"},
	}
	for _, tt := range tests {
		if got := settings.SanitizeValue(tt.field, tt.raw); got != tt.want {
			t.Errorf("SanitizeValue(%s, %q) = %q, want %q", tt.field.Kind(), tt.raw, got, tt.want)
		}
	}
}

func textareaBody(t *testing.T, out, name string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)<textarea[^>]* name="` + regexp.QuoteMeta(name) + `"[^>]*>(.*?)</textarea>`)
	match := re.FindStringSubmatch(out)
	if match == nil {
		t.Fatalf("no textarea named %q in output:\n%s", name, out)
	}
	return html.UnescapeString(match[1])
}

func TestRenderSaveRoundTripKeepsMultilineValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	footer := "line one\n\nline three"
	code := model.CodeValue{HTML: "<div>\n  <p>hi</p>\n</div>", CSS: ".a {\n  color: red;\n}"}
	_ = f.store.Set(ctx, "footer", footer)
	_ = f.store.Set(ctx, "custom_code", code.Encode())

	for round := 1; round <= 2; round++ {
		out := f.render(t, pageQuery("tab", "appearance"), admin)
		form := url.Values{
			"stock-notifier_nonce": {f.saveToken(admin)},
			"footer":               {textareaBody(t, out, "footer")},
			"custom_code[html]":    {textareaBody(t, out, "custom_code[html]")},
			"custom_code[css]":     {textareaBody(t, out, "custom_code[css]")},
		}
		if _, err := f.page.Save(ctx, saveRequest(f, admin, form)); err != nil {
			t.Fatalf("round %d save: %v", round, err)
		}

		stored := f.store.Snapshot()
		if stored["footer"] != footer {
			t.Fatalf("round %d footer = %q, want %q", round, stored["footer"], footer)
		}
		got, ok := model.DecodeCodeValue(stored["custom_code"])
		if !ok {
			t.Fatalf("round %d: stored code %q does not decode", round, stored["custom_code"])
		}
		if diff := cmp.Diff(code, got); diff != "" {
			t.Fatalf("round %d code mismatch (-want +got):\n%s", round, diff)
		}
	}
}
