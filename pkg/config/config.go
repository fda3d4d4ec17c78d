// Package config loads the blueprint configuration file.
//
// The file is TOML, by default at $XDG_CONFIG_HOME/blueprint/config.toml:
//
//	[layout]
//	card_width = 200
//	available_width = 1200
//
//	[backend]
//	url = "http://localhost:8000"
//	timeout = "2m"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Every key is optional; missing keys keep the values of [Default].
// Environment variables override the file, see [Config.ApplyEnv].
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/blueprint/pkg/layout"
)

// AppName names the configuration, cache and data directories.
const AppName = "blueprint"

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreFile   = "file"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Environment overrides.
const (
	EnvBackendURL = "BLUEPRINT_BACKEND_URL"
	EnvRedisAddr  = "BLUEPRINT_REDIS_ADDR"
	EnvMongoURI   = "BLUEPRINT_MONGO_URI"
	EnvServerAddr = "BLUEPRINT_ADDR"
	EnvCacheDir   = "BLUEPRINT_CACHE_DIR"
	EnvRedisDB    = "BLUEPRINT_REDIS_DB"
)

// Config is the complete configuration.
type Config struct {
	Layout  Layout  `toml:"layout"`
	Backend Backend `toml:"backend"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
	Server  Server  `toml:"server"`
}

// Layout holds the default geometry and render settings.
type Layout struct {
	layout.Config
	AvailableWidth float64 `toml:"available_width" validate:"gte=0"`
	Style          string  `toml:"style" validate:"oneof=simple mono"`
}

// Backend locates the planning backend.
type Backend struct {
	URL     string   `toml:"url" validate:"required,url"`
	Timeout Duration `toml:"timeout"`
	Retries int      `toml:"retries" validate:"gte=1,lte=10"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string   `toml:"backend" validate:"oneof=file redis none"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db" validate:"gte=0"`
	Prefix        string   `toml:"prefix"`
	LayoutTTL     Duration `toml:"layout_ttl"`
	BlueprintTTL  Duration `toml:"blueprint_ttl"`
}

// Store selects and configures the project store.
type Store struct {
	Backend       string `toml:"backend" validate:"oneof=file mongo memory"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures `blueprint serve`.
type Server struct {
	Addr           string   `toml:"addr" validate:"required"`
	RequestTimeout Duration `toml:"request_timeout"`
	Metrics        bool     `toml:"metrics"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct{ time.Duration }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration. Directories are left empty
// and resolved by [Config.CacheDir] and [Config.StoreDir].
func Default() Config {
	return Config{
		Layout: Layout{Config: layout.DefaultConfig(), Style: "simple"},
		Backend: Backend{
			URL:     "http://localhost:8000",
			Timeout: Duration{120 * time.Second},
			Retries: 3,
		},
		Cache: Cache{
			Backend:      CacheFile,
			LayoutTTL:    Duration{7 * 24 * time.Hour},
			BlueprintTTL: Duration{24 * time.Hour},
		},
		Store:  Store{Backend: StoreFile},
		Server: Server{Addr: ":8080", RequestTimeout: Duration{3 * time.Minute}, Metrics: true},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path over [Default], applies the environment and
// validates the result. An empty path means [DefaultPath]; a missing
// default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = Default()
		} else {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over [Default] without touching the environment.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ApplyEnv overrides fields from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
		c.Store.Backend = StoreMongo
	}
	if v := getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := getenv(EnvRedisDB); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.RedisDB = n
		}
	}
}

// =============================================================================
// Validation
// =============================================================================

var validate = validator.New()

// Validate checks every field and reports the first problem.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required", "required_if":
			return fmt.Errorf("%s: field is required", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s, got %q", field, e.Param(), e.Value())
		case "url":
			return fmt.Errorf("%s: not a valid URL: %q", field, e.Value())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/blueprint/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the configured cache directory or
// $XDG_CACHE_HOME/blueprint.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// StoreDir returns the configured project directory or
// $XDG_DATA_HOME/blueprint/projects.
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
