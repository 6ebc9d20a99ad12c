package settingspage

import (
	"io/fs"

	"github.com/goliatone/go-settingspage/pkg/settings"
)

// TemplatesFS exposes the built-in page and component templates so callers
// can copy or overlay them without importing the settings package directly.
func TemplatesFS() fs.FS {
	return settings.TemplatesFS()
}

// AssetsFS exposes the page stylesheet and script.
//
// Typical mount:
//
//	mux.Handle("/settings-assets/",
//	  http.StripPrefix("/settings-assets/",
//	    http.FileServerFS(settingspage.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return settings.AssetsFS()
}
