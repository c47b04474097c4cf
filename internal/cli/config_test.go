package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"ADDR", "MONGO_URI", "REDIS_URL", "STYLE"} {
		t.Setenv(envPrefix+name, "")
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[render]
style = "patent"
formats = ["svg", "pdf"]
scale = 3

[cache]
backend = "none"

[server]
addr = ":9090"
mongo_uri = "mongodb://localhost:27017"
`)
	c := &CLI{configPath: path}

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Render.Style != "patent" {
		t.Errorf("Render.Style = %q, want patent", cfg.Render.Style)
	}
	if !reflect.DeepEqual(cfg.Render.Formats, []string{"svg", "pdf"}) {
		t.Errorf("Render.Formats = %v", cfg.Render.Formats)
	}
	if cfg.Render.Scale != 3 {
		t.Errorf("Render.Scale = %g, want 3", cfg.Render.Scale)
	}
	if cfg.Cache.Backend != cacheNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.MongoDatabase != defaultMongoDatabase {
		t.Errorf("Server.MongoDatabase = %q, want default %q", cfg.Server.MongoDatabase, defaultMongoDatabase)
	}
}

func TestLoadConfigMissingDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := &CLI{}

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Cache.Backend != cacheFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cacheFile)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	c := &CLI{configPath: filepath.Join(t.TempDir(), "nope.toml")}
	if _, err := c.loadConfig(); err == nil {
		t.Error("loadConfig() should fail when --config names a missing file")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", `[render`, ""},
		{"unknown key", "[render]\ncolour = \"red\"\n", "unknown key"},
		{"bad style", "[render]\nstyle = \"crayon\"\n", "crayon"},
		{"negative scale", "[render]\nscale = -1\n", "scale"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "memcached"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", "redis_url"},
		{"redis url scheme", "[cache]\nbackend = \"redis\"\nredis_url = \"http://cache:6379\"\n", "redis_url"},
		{"mongo uri scheme", "[server]\nmongo_uri = \"localhost:27017\"\n", "mongo_uri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			c := &CLI{configPath: writeConfig(t, tt.content)}

			_, err := c.loadConfig()
			if err == nil {
				t.Fatal("loadConfig() should fail")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigApplyEnv(t *testing.T) {
	env := map[string]string{
		"PATENTFIG_ADDR":      ":7070",
		"PATENTFIG_MONGO_URI": "mongodb://db:27017",
		"PATENTFIG_REDIS_URL": "redis://cache:6379/0",
		"PATENTFIG_STYLE":     "patent",
	}
	cfg := defaultConfig()
	cfg.applyEnv(func(k string) string { return env[k] })

	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.MongoURI != "mongodb://db:27017" {
		t.Errorf("Server.MongoURI = %q", cfg.Server.MongoURI)
	}
	if cfg.Cache.Backend != cacheRedis || cfg.Cache.RedisURL != "redis://cache:6379/0" {
		t.Errorf("Cache = %+v, want redis backend", cfg.Cache)
	}
	if cfg.Render.Style != "patent" {
		t.Errorf("Render.Style = %q", cfg.Render.Style)
	}
}

func TestConfigApplyEnvEmpty(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Addr = ":9090"
	cfg.applyEnv(func(string) string { return "" })

	if cfg.Server.Addr != ":9090" {
		t.Errorf("unset variables must not override file values, got %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != cacheFile {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
}
