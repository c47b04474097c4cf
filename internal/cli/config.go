package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/patentfig/pkg/errors"
	"github.com/matzehuels/patentfig/pkg/pipeline"
)

// Cache backends.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Config is the contents of config.toml.
//
//	[render]
//	style = "patent"
//	formats = ["svg", "pdf"]
//	scale = 2
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "patentfig"
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds render defaults for every command.
type RenderConfig struct {
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
	Scale   float64  `toml:"scale"`
}

// CacheConfig selects the scene and artifact cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MaxBodyBytes  int64  `toml:"max_body_bytes"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

const defaultMongoDatabase = appName

// loadConfig reads the config file and applies environment overrides. A
// missing default file is not an error; a missing --config file is.
func (c *CLI) loadConfig() (Config, error) {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		p, err := configFile()
		if err != nil {
			return defaultConfig(), nil
		}
		path = p
	}

	cfg, err := readConfig(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		cfg, err = defaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Cache:  CacheConfig{Backend: cacheFile},
		Server: ServerConfig{MongoDatabase: defaultMongoDatabase},
	}
}

// readConfig decodes a TOML file over the defaults.
func readConfig(path string) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// applyEnv overrides file values with PATENTFIG_* variables.
func (cfg *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	set(&cfg.Render.Style, "STYLE")
	set(&cfg.Server.Addr, "ADDR")
	set(&cfg.Server.MongoURI, "MONGO_URI")
	set(&cfg.Cache.RedisURL, "REDIS_URL")
	if cfg.Cache.RedisURL != "" && getenv(envPrefix+"REDIS_URL") != "" {
		cfg.Cache.Backend = cacheRedis
	}
}

func (cfg Config) validate() error {
	if s := cfg.Render.Style; s != "" {
		if err := pipeline.ValidateStyle(s); err != nil {
			return err
		}
	}
	if cfg.Render.Scale < 0 {
		return fmt.Errorf("render.scale must be positive, got %g", cfg.Render.Scale)
	}
	switch cfg.Cache.Backend {
	case cacheFile, cacheNone:
	case cacheRedis:
		if cfg.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required for the redis backend")
		}
		if err := perrors.ValidateURI(cfg.Cache.RedisURL, "redis", "rediss"); err != nil {
			return fmt.Errorf("cache.redis_url: %w", err)
		}
	default:
		return fmt.Errorf("unknown cache.backend %q (must be 'file', 'redis', or 'none')", cfg.Cache.Backend)
	}
	if uri := cfg.Server.MongoURI; uri != "" {
		if err := perrors.ValidateURI(uri, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("server.mongo_uri: %w", err)
		}
	}
	return nil
}
