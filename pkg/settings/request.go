package settings

import (
	"fmt"
	"net/http"
	"net/url"
)

// Query and form parameter names understood by a Page.
const (
	ParamPage    = "page"
	ParamTab     = "tab"
	ParamNonce   = "_wpnonce"
	ParamUpdated = "settings-updated"
)

// Principal is the authenticated user behind a request.
type Principal interface {
	ID() string
	SessionToken() string
	Can(capability string) bool
}

// PrincipalResolver finds the principal for an HTTP request. It returns nil
// for anonymous requests.
type PrincipalResolver func(r *http.Request) Principal

// Request is the request context a Page reads. Query holds URL parameters and
// Form the submitted body.
type Request struct {
	Method    string
	URI       string
	Query     url.Values
	Form      url.Values
	Principal Principal
}

// RequestFromHTTP parses r into a Request.
func RequestFromHTTP(r *http.Request, principal Principal) (Request, error) {
	if err := r.ParseForm(); err != nil {
		return Request{}, fmt.Errorf("settings: parse form: %w", err)
	}
	return Request{
		Method:    r.Method,
		URI:       r.URL.RequestURI(),
		Query:     r.URL.Query(),
		Form:      r.PostForm,
		Principal: principal,
	}, nil
}

func (r Request) session() string {
	if r.Principal == nil {
		return ""
	}
	return r.Principal.SessionToken()
}

func (r Request) can(capability string) bool {
	return r.Principal != nil && r.Principal.Can(capability)
}

// StaticPrincipal is a fixed Principal, handy for tools and tests.
type StaticPrincipal struct {
	UserID       string
	Session      string
	Capabilities []string
}

func (p StaticPrincipal) ID() string           { return p.UserID }
func (p StaticPrincipal) SessionToken() string { return p.Session }

func (p StaticPrincipal) Can(capability string) bool {
	for _, held := range p.Capabilities {
		if held == capability {
			return true
		}
	}
	return false
}
