package settings

import (
	"bytes"
	"net/http"
)

// Handler serves the page without a host. GET and HEAD render; POST saves
// and redirects with a 302, or re-renders the form when the save was skipped.
func (p *Page) Handler(resolve PrincipalResolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var principal Principal
		if resolve != nil {
			principal = resolve(r)
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead:
		case http.MethodPost:
			req, err := RequestFromHTTP(r, principal)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			result, err := p.Save(r.Context(), req)
			if err != nil {
				p.logger.Error("settings save failed", "slug", p.cfg.MenuSlug, "error", err)
				http.Error(w, "could not save settings", http.StatusInternalServerError)
				return
			}
			if result.Saved() {
				http.Redirect(w, r, result.Redirect, http.StatusFound)
				return
			}
		default:
			w.Header().Set("Allow", "GET, HEAD, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req := Request{
			Method:    r.Method,
			URI:       r.URL.RequestURI(),
			Query:     r.URL.Query(),
			Principal: principal,
		}
		var buf bytes.Buffer
		if err := p.Render(r.Context(), &buf, req); err != nil {
			p.logger.Error("settings render failed", "slug", p.cfg.MenuSlug, "error", err)
			http.Error(w, "could not render settings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(buf.Bytes())
	})
}
