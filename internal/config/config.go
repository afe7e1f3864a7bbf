// Package config loads chemlayout settings for the CLI and the HTTP server.
//
// Settings are resolved in three steps, later steps winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/chemlayout/config.toml
//  3. CHEMLAYOUT_* environment variables
//
// A missing default file is not an error; a missing file passed explicitly is.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/cache"
	"github.com/matzehuels/chemlayout/pkg/errors"
	"github.com/matzehuels/chemlayout/pkg/layout"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

const (
	appName  = "chemlayout"
	fileName = "config.toml"

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "CHEMLAYOUT_"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// =============================================================================
// Config
// =============================================================================

// Config is the complete set of runtime settings.
type Config struct {
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	Layout   LayoutConfig   `toml:"layout" envPrefix:"LAYOUT_"`
	Viewport ViewportConfig `toml:"viewport" envPrefix:"VIEWPORT_"`
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Cache    CacheConfig    `toml:"cache" envPrefix:"CACHE_"`
}

// LayoutConfig mirrors [layout.Config] with file and environment bindings.
type LayoutConfig struct {
	MinDistance          float64 `toml:"min_distance" env:"MIN_DISTANCE"`
	Iterations           int     `toml:"iterations" env:"ITERATIONS"`
	Padding              float64 `toml:"padding" env:"PADDING"`
	MaxScale             float64 `toml:"max_scale" env:"MAX_SCALE"`
	SpringLength         float64 `toml:"spring_length" env:"SPRING_LENGTH"`
	Enabled              bool    `toml:"enabled" env:"ENABLED"`
	DisableSizeHeuristic bool    `toml:"disable_size_heuristic" env:"DISABLE_SIZE_HEURISTIC"`
}

// ViewportConfig holds the default drawing area.
type ViewportConfig struct {
	Width   float64 `toml:"width" env:"WIDTH"`
	Height  float64 `toml:"height" env:"HEIGHT"`
	Spacing float64 `toml:"spacing" env:"SPACING"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `toml:"addr" env:"ADDR"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" env:"MAX_BODY_BYTES"`
}

// CacheConfig selects and configures the pipeline cache.
type CacheConfig struct {
	Backend       string `toml:"backend" env:"BACKEND"`
	Dir           string `toml:"dir" env:"DIR"`
	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"REDIS_DB"`
	Prefix        string `toml:"prefix" env:"PREFIX"`
}

// Default returns the built-in settings.
func Default() *Config {
	lc := layout.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Layout: LayoutConfig{
			MinDistance:  lc.MinDistance,
			Iterations:   lc.Iterations,
			Padding:      lc.Padding,
			MaxScale:     lc.MaxScale,
			SpringLength: lc.SpringLength,
			Enabled:      lc.Enabled,
		},
		Viewport: ViewportConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Spacing: layout.DefaultSpacing,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load resolves the configuration from defaults, the TOML file at path and
// the environment. An empty path selects [DefaultPath].
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		err := cfg.loadFile(path)
		if err != nil && (explicit || !errors.Is(err, errors.ErrCodeFileNotFound)) {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes a TOML file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/chemlayout/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// DefaultCacheDir returns the file cache directory using the XDG cache
// convention (~/.cache/chemlayout/).
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log level: %q (must be debug, info, warn, or error)", c.LogLevel)
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return err
	}
	if err := c.Viewport.viewport(c.Layout.Padding).Validate(); err != nil {
		return err
	}
	if c.Viewport.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport spacing cannot be negative (got %g)", c.Viewport.Spacing)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server address is required")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server request timeout cannot be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max body size must be positive")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache backend requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend: %q (must be file, redis, or none)", c.Cache.Backend)
	}
	return nil
}

// =============================================================================
// Accessors
// =============================================================================

// Level returns the parsed log level. Validate guarantees it parses.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LayoutConfig converts the [layout] section to a [layout.Config].
func (c *Config) LayoutConfig() layout.Config {
	return layout.Config{
		MinDistance:          c.Layout.MinDistance,
		Iterations:           c.Layout.Iterations,
		Padding:              c.Layout.Padding,
		MaxScale:             c.Layout.MaxScale,
		SpringLength:         c.Layout.SpringLength,
		Enabled:              c.Layout.Enabled,
		DisableSizeHeuristic: c.Layout.DisableSizeHeuristic,
	}
}

func (v ViewportConfig) viewport(padding float64) layout.Viewport {
	return layout.Viewport{Width: v.Width, Height: v.Height, Padding: padding}
}

// Apply fills the zero-valued layout fields of opts from the configuration.
// Values the caller set explicitly are kept.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Viewport.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Viewport.Height
	}
	if opts.Spacing == 0 {
		opts.Spacing = c.Viewport.Spacing
	}
	if opts.Layout == nil {
		lc := c.LayoutConfig()
		opts.Layout = &lc
	}
}

// NewCache opens the configured cache backend. The returned keyer scopes
// keys with Cache.Prefix when one is set.
func (c *Config) NewCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Cache.Prefix)
	}

	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), keyer, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisAddr, c.Cache.RedisPassword, c.Cache.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rc, keyer, nil
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return cache.NewNullCache(), keyer, nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, keyer, nil
	}
}
