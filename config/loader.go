package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Default returns the built-in configuration.
func Default() ServiceConfig {
	dataDir := DefaultDataDir()
	return ServiceConfig{
		Port:      3000,
		LogLevel:  "info",
		LogFormat: "text",
		Roadmap: RoadmapConfig{
			Path:  filepath.Join("public", "data", "roadmap.json"),
			Watch: true,
		},
		Store: StoreConfig{
			Kind:      StoreFile,
			StatePath: filepath.Join(dataDir, "state.json"),
			Redis: RedisConfig{
				Addr: "127.0.0.1:6379",
				Key:  "sprint:state",
			},
		},
		Portfolio: PortfolioConfig{
			BaseURL: "https://api.github.com",
			Limit:   12,
			Timeout: 10 * time.Second,
		},
		Agent: AgentConfig{
			OllamaURL: "http://127.0.0.1:11434",
			Timeout:   60 * time.Second,
		},
		Core: CoreConfig{
			HealthInterval: 15 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and environment overrides, in that order. An empty path or a
// missing file is not an error.
func Load(path string) (*ServiceConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *ServiceConfig, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	if err := integer("SPRINT_PORT", &cfg.Port); err != nil {
		return err
	}
	if err := integer("SPRINT_REDIS_DB", &cfg.Store.Redis.DB); err != nil {
		return err
	}
	str("SPRINT_LOG_LEVEL", &cfg.LogLevel)
	str("SPRINT_PUBLIC_DIR", &cfg.PublicDir)
	str("SPRINT_ROADMAP_PATH", &cfg.Roadmap.Path)
	str("SPRINT_STORE", &cfg.Store.Kind)
	str("SPRINT_STATE_PATH", &cfg.Store.StatePath)
	str("SPRINT_REDIS_ADDR", &cfg.Store.Redis.Addr)
	str("SPRINT_REDIS_PASSWORD", &cfg.Store.Redis.Password)
	str("OLLAMA_URL", &cfg.Agent.OllamaURL)
	str("OLLAMA_MODEL", &cfg.Agent.Model)
	str("GITHUB_TOKEN", &cfg.Portfolio.Token)
	return nil
}

// Validate checks the fields the service cannot start without.
func (c *ServiceConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	c.Store.Kind = strings.ToLower(strings.TrimSpace(c.Store.Kind))
	switch c.Store.Kind {
	case StoreFile:
		if c.Store.StatePath == "" {
			return fmt.Errorf("%w: store.state_path is required for the file store", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("%w: store.redis.addr is required for the redis store", ErrInvalidConfig)
		}
		if c.Store.Redis.Key == "" {
			c.Store.Redis.Key = "sprint:state"
		}
	default:
		return fmt.Errorf("%w: unknown store kind %q", ErrInvalidConfig, c.Store.Kind)
	}
	if c.Roadmap.Path == "" {
		return fmt.Errorf("%w: roadmap.path is required", ErrInvalidConfig)
	}
	if c.Portfolio.Limit <= 0 {
		c.Portfolio.Limit = 12
	}
	if c.Core.HealthInterval <= 0 {
		c.Core.HealthInterval = 15 * time.Second
	}
	return nil
}

// DefaultDataDir returns the OS-appropriate directory for the state file.
//
//   - macOS:   ~/Library/Application Support/dex-sprint
//   - Linux:   $XDG_DATA_HOME/dex-sprint (fallback ~/.local/share/dex-sprint)
//   - Windows: %LOCALAPPDATA%\dex-sprint
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS, os.Getenv)
}

func defaultDataDirForOS(goos string, getenv func(string) string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "dex-sprint")
	case "windows":
		if dir := getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "dex-sprint")
		}
		return filepath.Join(home, "dex-sprint")
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "dex-sprint")
		}
		return filepath.Join(home, ".local", "share", "dex-sprint")
	}
}
