// Package config loads the albumstack configuration file.
//
// The file lives at $XDG_CONFIG_HOME/albumstack/config.toml (falling back to
// ~/.config/albumstack/config.toml) and is optional. Values in the file
// override built-in defaults; command-line flags override the file.
//
//	width = 640
//	theme = "dark"
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/albumstack/albums.db"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/albumstack/pkg/pipeline"
	"github.com/matzehuels/albumstack/pkg/store"
)

// AppName names the config and cache directories.
const AppName = "albumstack"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Width float64 `toml:"width"`
	Theme string  `toml:"theme"`

	Store  store.Config `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Watch  WatchConfig  `toml:"watch"`
}

// CacheConfig selects where placed pages and artifacts are cached.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis or none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	Scope     string `toml:"scope"` // key namespace when several installs share a cache
}

// ServerConfig configures "albumstack serve".
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// WatchConfig configures "albumstack watch".
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration written as a string ("250ms", "5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width: pipeline.DefaultWidth,
		Theme: pipeline.DefaultTheme,
		Store: store.Config{Backend: store.BackendFile},
		Cache: CacheConfig{Backend: CacheFile},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
		Watch: WatchConfig{Debounce: Duration{200 * time.Millisecond}},
	}
}

// Dir returns the config directory using XDG standard (~/.config/albumstack/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at path on top of [Default]. An empty path means
// the default location; a missing file there is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the file can get wrong.
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width must be positive, got %v", c.Width)
	}
	if c.Theme != "" {
		if err := pipeline.ValidateTheme(c.Theme); err != nil {
			return err
		}
	}
	if c.Store.Backend != "" && !slices.Contains(store.Backends, c.Store.Backend) {
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New("cache backend redis needs redis_addr")
	}
	return nil
}

// Write encodes c as TOML at path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// CacheDir returns the cache directory using XDG standard (~/.cache/albumstack/)
// unless the config names one.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
