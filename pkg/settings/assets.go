package settings

import (
	"strconv"
	"strings"
)

// AssetKind distinguishes stylesheets from scripts.
type AssetKind string

const (
	AssetStyle  AssetKind = "style"
	AssetScript AssetKind = "script"
)

// Asset is a stylesheet or script a host should enqueue.
type Asset struct {
	Handle string    `json:"handle"`
	Kind   AssetKind `json:"kind"`
	URL    string    `json:"url"`
	Deps   []string  `json:"deps,omitempty"`
}

// Assets returns what the page needs on hook. Hooks whose name does not
// contain the menu slug get nothing. Widget bundles come first, for the field
// types present on the page only, followed by the page stylesheet and script.
func (p *Page) Assets(hook string) []Asset {
	if !strings.Contains(hook, p.cfg.MenuSlug) {
		return nil
	}

	kinds := p.tabs.Types()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	handles := p.registry.Widgets(names)

	var out []Asset
	for _, handle := range handles {
		bundle, ok := p.widgets[handle]
		if !ok {
			p.logger.Debug("settings widget has no bundle", "slug", p.cfg.MenuSlug, "handle", handle)
			continue
		}
		for idx, href := range bundle.Styles {
			out = append(out, Asset{Handle: bundleHandle(handle, idx), Kind: AssetStyle, URL: href})
		}
		for idx, src := range bundle.Scripts {
			out = append(out, Asset{Handle: bundleHandle(handle, idx), Kind: AssetScript, URL: src})
		}
	}

	local := p.cfg.MenuSlug + "-settings"
	out = append(out,
		Asset{Handle: local, Kind: AssetStyle, URL: p.assetPrefix + "/" + StylesheetName},
		Asset{Handle: local, Kind: AssetScript, URL: p.assetPrefix + "/" + ScriptName, Deps: handles},
	)
	return out
}

func bundleHandle(handle string, idx int) string {
	if idx == 0 {
		return handle
	}
	return handle + "-" + strconv.Itoa(idx)
}
