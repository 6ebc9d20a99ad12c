// Package admin is a small admin host for settings pages. It keeps the menu,
// runs init hooks before a page renders, collects asset hooks, resolves the
// signed-in principal and wraps page bodies in a pongo2 layout, all behind a
// chi router.
package admin
