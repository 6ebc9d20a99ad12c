package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingspage/pkg/admin"
	"github.com/goliatone/go-settingspage/pkg/settings"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the settings page behind the admin host",
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			handler, err := buildServer(a)
			if err != nil {
				return err
			}
			return listen(cmd.Context(), a, handler)
		}),
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}

func buildServer(a *app) (http.Handler, error) {
	host, err := admin.New(a.cfg.Admin,
		admin.WithLogger(a.logger),
		admin.WithAssets(a.cfg.Assets.Prefix, settings.AssetsFS()),
	)
	if err != nil {
		return nil, err
	}
	page, err := a.newPage(settings.WithAdminURL(host.AdminURL()))
	if err != nil {
		return nil, err
	}
	if err := page.Register(host); err != nil {
		return nil, err
	}
	a.logger.Info("settings page registered",
		"slug", a.doc.Page.MenuSlug,
		"url", host.AdminURL()+"?"+settings.ParamPage+"="+a.doc.Page.MenuSlug,
		"tabs", len(a.doc.Tabs),
	)
	return host.Router(), nil
}

func listen(ctx context.Context, a *app, handler http.Handler) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("settingspage listening", "addr", srv.Addr, "store", a.cfg.Store.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("settingspage shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
