package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingspage/internal/config"
	"github.com/goliatone/go-settingspage/internal/logging"
	"github.com/goliatone/go-settingspage/pkg/nonce"
	"github.com/goliatone/go-settingspage/pkg/schema"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
	"github.com/goliatone/go-settingspage/pkg/store/sqlstore"
)

type rootOptions struct {
	configFile string
	envFiles   []string
	schemaFile string
}

// app is what every subcommand works with once configuration is loaded.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	doc    schema.Document
	store  store.OptionStore
	nonces *nonce.Manager
	close  func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "settingspage",
		Short: "Serve, render and edit settings pages described in YAML",
		Long: `settingspage renders tabbed admin settings forms from a settings document,
persists submitted values into an option store and serves them behind a small
admin host. Without --schema the bundled stock notifier example is used.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default ./settingspage.yaml when present)")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, ".env files loaded before reading the environment")
	root.PersistentFlags().StringVarP(&opts.schemaFile, "schema", "s", "", "settings document (overrides page.schema)")

	root.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newEditCmd(opts),
		newOptionsCmd(opts),
		newValidateCmd(opts),
		newImportOpenAPICmd(),
	)
	return root
}

func loadApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(config.Options{File: opts.configFile, EnvFiles: opts.envFiles})
	if err != nil {
		return nil, err
	}
	if opts.schemaFile != "" {
		cfg.Page.Schema = opts.schemaFile
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	doc, err := loadDocument(ctx, cfg.Page.Schema)
	if err != nil {
		return nil, err
	}

	var nonces *nonce.Manager
	if cfg.Security.NonceSecret == "" {
		logger.Warn("security.nonce_secret is empty; using a random secret, tokens will not survive a restart")
		nonces, err = nonce.NewRandom(nonce.WithLifetime(cfg.Security.NonceLifetime))
	} else {
		nonces, err = nonce.New([]byte(cfg.Security.NonceSecret), nonce.WithLifetime(cfg.Security.NonceLifetime))
	}
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, doc: doc, nonces: nonces, close: func() error { return nil }}
	switch cfg.Store.Driver {
	case config.StoreMemory:
		a.store = store.NewMemory(nil)
	default:
		db, err := sqlstore.New(ctx, cfg.Store.DSN, sqlstore.WithDriver(cfg.Store.Driver), sqlstore.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		a.store = db
		a.close = db.Close
	}
	return a, nil
}

func loadDocument(ctx context.Context, path string) (schema.Document, error) {
	if path == "" {
		return schema.DefaultDocument(), nil
	}
	return schema.Load(ctx, schema.SourceFromFile(path))
}

// pageOptions maps configuration onto page options shared by every command.
func (a *app) pageOptions(extra ...settings.Option) ([]settings.Option, error) {
	opts := []settings.Option{
		settings.WithLogger(a.logger),
		settings.WithAssetPrefix(a.cfg.Assets.Prefix),
		settings.WithWidgetAssets(a.cfg.Assets.Widgets),
	}
	if dir := a.cfg.Page.TemplatesDir; dir != "" {
		opts = append(opts, settings.WithTemplatesDir(dir))
	}
	if path := a.cfg.Theme.Manifest; path != "" {
		manifest, err := loadManifest(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			settings.WithTheme(manifest, a.cfg.Theme.Variant),
			settings.WithTemplateOverlay(os.DirFS(filepath.Dir(path))),
		)
	}
	return append(opts, extra...), nil
}

func (a *app) newPage(extra ...settings.Option) (*settings.Page, error) {
	opts, err := a.pageOptions(extra...)
	if err != nil {
		return nil, err
	}
	return settings.New(a.doc.Page, a.doc.Tabs, a.store, a.nonces, opts...)
}

func loadManifest(path string) (*theme.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("decode theme manifest %s: %w", path, err)
	}
	if manifest.Name == "" {
		return nil, errors.New("theme manifest has no name")
	}
	return &manifest, nil
}

func withApp(opts *rootOptions, run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); cerr != nil {
				a.logger.Error("close store", "error", cerr)
			}
		}()
		return run(cmd, a, args)
	}
}
