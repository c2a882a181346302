package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"

	"github.com/dmitrijs2005/userconsole/internal/flagx"
)

const EnvPrefix = "USERCONSOLE_"

// Config holds runtime settings for the console.
type Config struct {
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	DBPath         string        `koanf:"db_path"`
	LogLevel       string        `koanf:"log_level"`
	LogFile        string        `koanf:"log_file"`
}

var defaults = map[string]any{
	"base_url":        "https://reqres.in/api",
	"request_timeout": "30s",
	"db_path":         "userconsole.db",
	"log_level":       "warn",
}

// Load builds a Config from defaults, the optional config file, the
// environment and finally args (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	k := koanf.New(".")

	if path := flagx.ConfigFileFlag(args); path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, oops.With("config_file", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	for key, v := range defaults {
		if !k.Exists(key) {
			_ = k.Set(key, v)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if err := parseFlags(&cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, oops.With("config_file", path).Errorf("unsupported config file extension: %s", ext)
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return oops.Errorf("base url must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return oops.With("request_timeout", c.RequestTimeout).Errorf("request timeout must be positive")
	}
	if c.DBPath == "" {
		return oops.Errorf("db path must not be empty")
	}
	return nil
}
