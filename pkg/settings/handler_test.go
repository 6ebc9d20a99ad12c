package settings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-settingspage/pkg/settings"
)

func resolveAs(principal settings.Principal) settings.PrincipalResolver {
	return func(*http.Request) settings.Principal { return principal }
}

func TestHandlerRendersOnGet(t *testing.T) {
	f := newFixture(t)
	handler := f.page.Handler(resolveAs(admin))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin.php?page="+testSlug, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	assertContains(t, rec.Body.String(), `<h1>Stock Notifier</h1>`, `name="stock-notifier_nonce"`)
}

func TestHandlerHeadWritesNoBody(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.page.Handler(resolveAs(admin)).ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/admin.php?page="+testSlug, nil))

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("status = %d, body length = %d", rec.Code, rec.Body.Len())
	}
}

func TestHandlerPostRedirectsAfterSave(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"stock-notifier_nonce": {f.saveToken(admin)},
		"store_name":           {"Corner Shop"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin.php?page="+testSlug+"&tab=appearance", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.page.Handler(resolveAs(admin)).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Query().Get("settings-updated") != "true" || location.Query().Get("tab") != "appearance" {
		t.Fatalf("unexpected location %q", location)
	}

	value, ok, err := f.store.Get(context.Background(), "store_name")
	if err != nil || !ok || value != "Corner Shop" {
		t.Fatalf("store_name = %q, %v, %v", value, ok, err)
	}
}

func TestHandlerPostWithoutCapabilityRerenders(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"stock-notifier_nonce": {f.nonces.Create(testConfig().NonceAction(), editor.Session)},
		"store_name":           {"Hijacked"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin.php?page="+testSlug, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.page.Handler(resolveAs(editor)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok, _ := f.store.Get(context.Background(), "store_name"); ok {
		t.Fatalf("store written without capability")
	}
	assertNotContains(t, rec.Body.String(), "Settings saved successfully!")
}

func TestHandlerRejectsOtherMethods(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.page.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin.php?page="+testSlug, nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("allow = %q", allow)
	}
}
