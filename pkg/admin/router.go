package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-settingspage/pkg/settings"
)

const forbiddenMessage = "Sorry, you are not allowed to access this page."

type menuView struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Parent string `json:"parent"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

type assetView struct {
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

// Router returns the chi router serving the admin: the page dispatcher at
// <base>/admin.php, a menu index at <base>/, a token login at <base>/login,
// mounted asset directories and /healthz.
func (h *Host) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(h.authenticate)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "pages": len(h.Menu())})
	})

	for _, mount := range h.assets {
		fileServer := http.StripPrefix(mount.prefix, http.FileServer(http.FS(mount.files)))
		r.Handle(mount.prefix+"/*", fileServer)
	}

	base := h.cfg.BasePath
	r.Get(base+"/", h.serveIndex)
	r.Get(base+"/login", h.serveLogin)
	r.Get(h.AdminURL(), h.servePage)
	r.Post(h.AdminURL(), h.servePage)
	return r
}

func (h *Host) servePage(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get(settings.ParamPage)
	entry, ok := h.lookup(slug)
	if !ok {
		http.NotFound(w, r)
		return
	}

	principal := PrincipalFromContext(r.Context())
	req, err := settings.RequestFromHTTP(r, principal)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	inits, assetHooks := h.hooks()
	for _, fn := range inits {
		redirect, err := fn(r.Context(), req)
		if err != nil {
			h.logger.Error("admin init hook failed", "slug", slug, "error", err)
			http.Error(w, "could not process request", http.StatusInternalServerError)
			return
		}
		if redirect != "" {
			http.Redirect(w, r, redirect, http.StatusFound)
			return
		}
	}

	if principal == nil || !principal.Can(entry.Capability) {
		h.renderLayout(w, http.StatusForbidden, layoutTemplate, h.layoutData(r, entry.Slug, principal, forbiddenMessage, nil, nil))
		return
	}

	var body bytes.Buffer
	if err := entry.Render(r.Context(), &body, req); err != nil {
		h.logger.Error("admin page render failed", "slug", slug, "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	var styles, scripts []assetView
	hook := HookName(entry)
	for _, fn := range assetHooks {
		for _, asset := range fn(hook) {
			view := assetView{Handle: asset.Handle, URL: asset.URL}
			if asset.Kind == settings.AssetStyle {
				styles = append(styles, view)
			} else {
				scripts = append(scripts, view)
			}
		}
	}

	data := h.layoutData(r, entry.Slug, principal, "", styles, scripts)
	data["title"] = entry.PageTitle
	data["body"] = body.String()
	h.renderLayout(w, http.StatusOK, layoutTemplate, data)
}

func (h *Host) serveIndex(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	h.renderLayout(w, http.StatusOK, indexTemplate, h.layoutData(r, "", principal, "", nil, nil))
}

func (h *Host) serveLogin(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}
	probe := r.Clone(r.Context())
	probe.Header.Set("Authorization", "Bearer "+token)
	if h.ResolvePrincipal(probe) == nil {
		http.Error(w, "unknown token", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, h.cfg.BasePath+"/", http.StatusFound)
}

func (h *Host) layoutData(r *http.Request, active string, principal settings.Principal, message string, styles, scripts []assetView) map[string]any {
	var menu []menuView
	for _, entry := range h.Menu() {
		if principal == nil || !principal.Can(entry.Capability) {
			continue
		}
		menu = append(menu, menuView{
			Slug:   entry.Slug,
			Title:  entry.MenuTitle,
			Parent: entry.Parent,
			Href:   h.AdminURL() + "?" + settings.ParamPage + "=" + entry.Slug,
			Active: entry.Slug == active,
		})
	}
	user := ""
	if principal != nil {
		user = principal.ID()
	}
	return map[string]any{
		"site":    h.cfg.Title,
		"title":   h.cfg.Title,
		"menu":    menu,
		"user":    user,
		"message": message,
		"styles":  styles,
		"scripts": scripts,
		"body":    "",
	}
}

func (h *Host) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if r.URL.Path == "/healthz" {
			return
		}
		h.logger.Info("admin request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
