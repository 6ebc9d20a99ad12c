// Package config loads process configuration for the settingspage binary
// from an optional YAML file, .env files and SETTINGSPAGE_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-settingspage/pkg/admin"
	"github.com/goliatone/go-settingspage/pkg/settings"
)

// EnvPrefix prefixes every environment override, e.g.
// SETTINGSPAGE_SERVER_ADDR for server.addr.
const EnvPrefix = "SETTINGSPAGE"

// Config is the process configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Security SecurityConfig `mapstructure:"security"`
	Admin    admin.Config   `mapstructure:"admin"`
	Page     PageConfig     `mapstructure:"page"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	// Driver is "memory", "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type SecurityConfig struct {
	NonceSecret   string        `mapstructure:"nonce_secret"`
	NonceLifetime time.Duration `mapstructure:"nonce_lifetime"`
}

type PageConfig struct {
	// Schema is a settings document path. Empty uses the bundled example.
	Schema       string `mapstructure:"schema"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

type AssetsConfig struct {
	Prefix  string                           `mapstructure:"prefix"`
	Widgets map[string]settings.WidgetBundle `mapstructure:"widgets"`
}

// ThemeConfig points at a go-theme manifest whose "widgets.<handle>.css|js"
// files and "settings.*" templates are applied to the page.
type ThemeConfig struct {
	Manifest string `mapstructure:"manifest"`
	Variant  string `mapstructure:"variant"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Store drivers.
const (
	StoreMemory    = "memory"
	StoreSQLiteCGO = "sqlite3"
	StoreSQLite    = "sqlite"
)

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When empty, settingspage.yaml is
	// searched in the working directory.
	File string
	// EnvFiles are loaded into the environment before viper reads it.
	// Missing files are skipped.
	EnvFiles []string
}

// Defaults seeds viper with the built-in values.
func Defaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.dsn", "settings.db")
	v.SetDefault("security.nonce_lifetime", 24*time.Hour)
	v.SetDefault("admin.base_path", "/wp-admin")
	v.SetDefault("admin.title", "Settings")
	v.SetDefault("assets.prefix", settings.DefaultAssetPrefix)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration.
func Load(opts Options) (Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("settingspage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read settingspage.yaml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLiteCGO, StoreSQLite:
		if strings.TrimSpace(c.Store.DSN) == "" {
			errs = append(errs, errors.New("config: store.dsn is required for sqlite drivers"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown store.driver %q", c.Store.Driver))
	}
	if c.Security.NonceLifetime < time.Minute {
		errs = append(errs, fmt.Errorf("config: security.nonce_lifetime %s is shorter than a minute", c.Security.NonceLifetime))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log.format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
