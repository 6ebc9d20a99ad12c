// Package settings implements a tabbed settings page for an admin host.
//
// A Page is built from a model.PageConfig and a model.TabSet. It renders one
// form containing every tab (only the selected tab visible), persists
// submitted values into a store.OptionStore after checking the page slug,
// the anti-forgery token and the principal's capability, and reports which
// host widget bundles and page-local assets the page needs.
//
// Pages can be mounted on a Host (menu entry, init hook, asset hook) or
// served directly through Handler.
//
//	page, err := settings.New(cfg, tabs, store.NewMemory(nil), nonces)
//	if err != nil {
//		return err
//	}
//	mux.Handle("/admin.php", page.Handler(resolvePrincipal))
package settings
