package app

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/openaichat"
	"github.com/florianilch/odette-proxy/internal/keystore"
)

// Config is the application configuration, merged from defaults, an optional
// TOML file, and environment variables (highest precedence).
type Config struct {
	Listen string `koanf:"listen"`
	Port   string `koanf:"port"`
	Debug  bool   `koanf:"debug"`

	Backend BackendConfig `koanf:"backend"`
	Routing RoutingConfig `koanf:"routing"`
	Auth    AuthConfig    `koanf:"auth"`
}

// BackendConfig locates the Chat Completions backend.
type BackendConfig struct {
	// BaseURL is the prefix in front of /chat/completions.
	BaseURL string `koanf:"base_url"`
}

// RoutingConfig holds the model routing table.
type RoutingConfig struct {
	Model           string `koanf:"model"`
	ReasoningModel  string `koanf:"reasoning_model"`
	CompletionModel string `koanf:"completion_model"`
	Default         string `koanf:"default"`
}

// AuthConfig selects where the backend API key lives.
type AuthConfig struct {
	Storage string `koanf:"storage"`
	KeyFile string `koanf:"key_file"`
}

// envKeys maps recognized environment variables to config keys. Unlisted
// variables are ignored rather than merged, so unrelated environment noise
// cannot reach the config tree.
var envKeys = map[string]string{
	"MODEL":                "routing.model",
	"REASONING_MODEL":      "routing.reasoning_model",
	"COMPLETION_MODEL":     "routing.completion_model",
	"OPENAI_API_BASE":      "backend.base_url",
	"PORT":                 "port",
	"DEBUG":                "debug",
	"ODETTE_LISTEN":        "listen",
	"ODETTE_AUTH_STORAGE":  "auth.storage",
	"ODETTE_AUTH_KEY_FILE": "auth.key_file",
}

func defaults() map[string]any {
	return map[string]any{
		"listen":           "127.0.0.1:3000",
		"debug":            false,
		"backend.base_url": "https://api.openai.com/v1",
		"routing.default":  openaichat.DefaultModel,
		"auth.storage":     string(keystore.BackendEnv),
	}
}

// LoadConfig merges defaults, the optional TOML file at configFile, and
// environment variables.
func LoadConfig(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			mapped, ok := envKeys[key]
			if !ok {
				return "", nil
			}
			if mapped == "debug" {
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return "", nil
				}
				return mapped, enabled
			}
			return mapped, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize folds the PORT shorthand into the listen address and checks the
// values that would otherwise fail deep inside the stack.
func (c *Config) normalize() error {
	if c.Port != "" {
		if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
		}
		host, _, err := net.SplitHostPort(c.Listen)
		if err != nil {
			host = "127.0.0.1"
		}
		c.Listen = net.JoinHostPort(host, c.Port)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL must not be empty")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base URL %q must start with http:// or https://", c.Backend.BaseURL)
	}

	switch keystore.Backend(c.Auth.Storage) {
	case keystore.BackendEnv, keystore.BackendKeyring:
	case keystore.BackendFile:
		if c.Auth.KeyFile == "" {
			return fmt.Errorf("auth storage %q requires auth.key_file", c.Auth.Storage)
		}
	default:
		return fmt.Errorf("unknown auth storage %q (expected: env, file, keyring)", c.Auth.Storage)
	}

	return nil
}

// NewKeyStore builds the key store selected by the auth section.
func (c *Config) NewKeyStore() (keystore.Store, error) {
	return keystore.New(keystore.Backend(c.Auth.Storage), c.Auth.KeyFile)
}

// ModelRouter builds the routing table for the adapter.
func (c *Config) ModelRouter() openaichat.ModelRouter {
	return openaichat.ModelRouter{
		Model:           c.Routing.Model,
		ReasoningModel:  c.Routing.ReasoningModel,
		CompletionModel: c.Routing.CompletionModel,
		Default:         c.Routing.Default,
	}
}
