package settings

import (
	"context"
	"io"
)

// RenderFunc writes a page body for req.
type RenderFunc func(ctx context.Context, w io.Writer, req Request) error

// InitFunc runs before a page renders. A non-empty redirect tells the host to
// redirect and stop handling the request.
type InitFunc func(ctx context.Context, req Request) (redirect string, err error)

// AssetFunc returns the assets to enqueue for an admin hook.
type AssetFunc func(hook string) []Asset

// MenuEntry describes a submenu page.
type MenuEntry struct {
	Parent     string
	Slug       string
	PageTitle  string
	MenuTitle  string
	Capability string
	Render     RenderFunc
}

// Host is the admin environment a Page registers with.
type Host interface {
	AddSubmenuPage(entry MenuEntry) error
	OnInit(fn InitFunc)
	OnEnqueueAssets(fn AssetFunc)
}
