package settings

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// Page-local asset file names served from AssetsFS.
const (
	StylesheetName = "settings.css"
	ScriptName     = "settings.js"
)

// PageTemplate is the template that lays out the page.
const PageTemplate = "templates/page.tmpl"

// TemplatesFS exposes the embedded page and component templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the page-local stylesheet and script.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
