package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/cache"
	"github.com/matzehuels/chemlayout/pkg/errors"
	"github.com/matzehuels/chemlayout/pkg/layout"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchesLayoutDefaults(t *testing.T) {
	cfg := Default()
	if got := cfg.LayoutConfig(); got != layout.DefaultConfig() {
		t.Errorf("LayoutConfig() = %+v, want %+v", got, layout.DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Viewport.Width != pipeline.DefaultWidth {
		t.Errorf("Width = %f, want default", cfg.Viewport.Width)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "chemlayout"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "chemlayout", "config.toml"), []byte("log_level = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[layout]
iterations = 10
spring_length = 40

[viewport]
width = 1024
spacing = 120

[server]
addr = ":9000"
request_timeout = "5s"

[cache]
backend = "none"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	lc := cfg.LayoutConfig()
	if lc.Iterations != 10 || lc.SpringLength != 40 {
		t.Errorf("layout = %+v", lc)
	}
	// Unset keys keep their defaults.
	if lc.MinDistance != 50 || lc.MaxScale != 2.5 || !lc.Enabled {
		t.Errorf("defaults lost: %+v", lc)
	}
	if cfg.Viewport.Width != 1024 || cfg.Viewport.Height != pipeline.DefaultHeight || cfg.Viewport.Spacing != 120 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[layout]\nspring = 40\n")

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "[layout\n")

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[layout]\niterations = 10\n")
	t.Setenv("CHEMLAYOUT_LAYOUT_ITERATIONS", "7")
	t.Setenv("CHEMLAYOUT_LAYOUT_ENABLED", "false")
	t.Setenv("CHEMLAYOUT_VIEWPORT_HEIGHT", "480")
	t.Setenv("CHEMLAYOUT_SERVER_REQUEST_TIMEOUT", "2s")
	t.Setenv("CHEMLAYOUT_CACHE_BACKEND", "redis")
	t.Setenv("CHEMLAYOUT_CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("CHEMLAYOUT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Iterations != 7 {
		t.Errorf("Iterations = %d, want 7 from env", cfg.Layout.Iterations)
	}
	if cfg.Layout.Enabled {
		t.Error("Enabled should be false from env")
	}
	if cfg.Viewport.Height != 480 {
		t.Errorf("Height = %f, want 480", cfg.Viewport.Height)
	}
	if cfg.Server.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Level() != log.WarnLevel {
		t.Errorf("Level() = %v, want warn", cfg.Level())
	}
}

func TestEnvInvalidValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CHEMLAYOUT_LAYOUT_ITERATIONS", "many")

	_, err := Load("")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   errors.Code
	}{
		{"defaults", func(*Config) {}, ""},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, errors.ErrCodeInvalidConfig},
		{"max scale", func(c *Config) { c.Layout.MaxScale = 0 }, errors.ErrCodeInvalidConfig},
		{"negative iterations", func(c *Config) { c.Layout.Iterations = -1 }, errors.ErrCodeInvalidConfig},
		{"padding eats viewport", func(c *Config) { c.Viewport.Width = 60 }, errors.ErrCodeInvalidViewport},
		{"negative spacing", func(c *Config) { c.Viewport.Spacing = -1 }, errors.ErrCodeInvalidConfig},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, errors.ErrCodeInvalidConfig},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, errors.ErrCodeInvalidConfig},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, errors.ErrCodeInvalidConfig},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis }, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Viewport.Width = 1000
	cfg.Layout.Iterations = 9

	opts := pipeline.Options{Height: 300}
	cfg.Apply(&opts)

	if opts.Width != 1000 {
		t.Errorf("Width = %f, want 1000 from config", opts.Width)
	}
	if opts.Height != 300 {
		t.Errorf("Height = %f, explicit value should be kept", opts.Height)
	}
	if opts.Spacing != layout.DefaultSpacing {
		t.Errorf("Spacing = %f", opts.Spacing)
	}
	if opts.Layout == nil || opts.Layout.Iterations != 9 {
		t.Errorf("Layout = %+v", opts.Layout)
	}

	own := layout.DefaultConfig()
	opts = pipeline.Options{Layout: &own}
	cfg.Apply(&opts)
	if opts.Layout != &own {
		t.Error("explicit layout config should be kept")
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, keyer, err := cfg.NewCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T, want *cache.NullCache", c)
	}
	if _, ok := keyer.(cache.DefaultKeyer); !ok {
		t.Errorf("keyer = %T, want cache.DefaultKeyer", keyer)
	}

	cfg = Default()
	cfg.Cache.Dir = t.TempDir()
	cfg.Cache.Prefix = "tenant"
	c, keyer, err = cfg.NewCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("file backend = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != cfg.Cache.Dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), cfg.Cache.Dir)
	}
	if _, ok := keyer.(*cache.ScopedKeyer); !ok {
		t.Errorf("keyer = %T, want *cache.ScopedKeyer", keyer)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "chemlayout") {
		t.Errorf("DefaultCacheDir() = %q", dir)
	}
}
