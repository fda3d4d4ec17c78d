package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/blueprint/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	src := `
[layout]
card_width = 240
available_width = 900
style = "mono"

[backend]
url = "https://planner.example.com"
timeout = "45s"

[cache]
backend = "redis"
redis_addr = "cache:6379"
`
	cfg, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Layout.CardWidth != 240 || cfg.Layout.AvailableWidth != 900 || cfg.Layout.Style != "mono" {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.CardHeight != layout.DefaultCardHeight {
		t.Errorf("unset key lost its default: %v", cfg.Layout.CardHeight)
	}
	if cfg.Backend.URL != "https://planner.example.com" || cfg.Backend.Timeout.Duration != 45*time.Second {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Backend.Retries != 3 {
		t.Errorf("Retries = %d", cfg.Backend.Retries)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodeBadDuration(t *testing.T) {
	if _, err := Decode(strings.NewReader("[backend]\ntimeout = \"soon\"\n")); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "Backend: must be one of"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }, "RedisAddr: field is required"},
		{"mongo without uri", func(c *Config) { c.Store.Backend = StoreMongo }, "MongoURI: field is required"},
		{"bad url", func(c *Config) { c.Backend.URL = "not a url" }, "URL: not a valid URL"},
		{"retries", func(c *Config) { c.Backend.Retries = 0 }, "Retries: must be at least 1"},
		{"scale floor", func(c *Config) { c.Layout.ScaleFloor = 2 }, "ScaleFloor: must not exceed 1"},
		{"style", func(c *Config) { c.Layout.Style = "fancy" }, "Style: must be one of"},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "Addr: field is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackendURL: "http://backend:9000",
		EnvRedisAddr:  "redis:6379",
		EnvMongoURI:   "mongodb://mongo:27017",
		EnvRedisDB:    "2",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Backend.URL != "http://backend:9000" {
		t.Errorf("URL = %q", cfg.Backend.URL)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.MongoURI != "mongodb://mongo:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{EnvBackendURL, EnvRedisAddr, EnvMongoURI, EnvServerAddr, EnvCacheDir, EnvRedisDB} {
		t.Setenv(k, "")
	}

	// Missing default file.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	// Missing explicit file.
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit file")
	}

	// Invalid file.
	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[store]\nbackend = \"sqlite\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "Backend") {
		t.Errorf("Load invalid = %v", err)
	}

	// Env overrides file.
	good := filepath.Join(t.TempDir(), "good.toml")
	if err := os.WriteFile(good, []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvServerAddr, ":7000")
	cfg, err = Load(good)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, want env override", cfg.Server.Addr)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	want := Default()
	want.Layout.AvailableWidth = 1024
	want.Cache.LayoutTTL = Duration{90 * time.Minute}

	var buf bytes.Buffer
	if err := want.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `layout_ttl = "1h30m0s"`) {
		t.Errorf("durations should be written as strings:\n%s", buf.String())
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestDirs(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != filepath.Join(base, "cache", AppName) {
		t.Errorf("CacheDir = %q", dir)
	}
	if dir, _ := cfg.StoreDir(); dir != filepath.Join(base, "data", AppName, "projects") {
		t.Errorf("StoreDir = %q", dir)
	}
	cfg.Cache.Dir = "/tmp/explicit"
	if dir, _ := cfg.CacheDir(); dir != "/tmp/explicit" {
		t.Errorf("explicit CacheDir = %q", dir)
	}
}
