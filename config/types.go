package config

import "time"

// Store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// ServiceConfig is the full runtime configuration of the service.
type ServiceConfig struct {
	Port      int             `yaml:"port"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
	PublicDir string          `yaml:"public_dir"`
	Roadmap   RoadmapConfig   `yaml:"roadmap"`
	Store     StoreConfig     `yaml:"store"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Agent     AgentConfig     `yaml:"agent"`
	Core      CoreConfig      `yaml:"core"`
}

// RoadmapConfig locates the roadmap document.
type RoadmapConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// StoreConfig selects and configures the state backend.
type StoreConfig struct {
	Kind      string      `yaml:"kind"`
	StatePath string      `yaml:"state_path"`
	Redis     RedisConfig `yaml:"redis"`
}

// RedisConfig holds the connection details of the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// PortfolioConfig configures the GitHub portfolio sync.
type PortfolioConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Limit   int           `yaml:"limit"`
	Timeout time.Duration `yaml:"timeout"`
}

// AgentConfig configures the planning assistant.
type AgentConfig struct {
	OllamaURL string        `yaml:"ollama_url"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CoreConfig tunes the background core loop.
type CoreConfig struct {
	HealthInterval time.Duration `yaml:"health_interval"`
}

// Sanitized returns the configuration with secrets removed, for status reports.
func (c ServiceConfig) Sanitized() map[string]interface{} {
	return map[string]interface{}{
		"port":       c.Port,
		"log_level":  c.LogLevel,
		"public_dir": c.PublicDir,
		"roadmap":    c.Roadmap.Path,
		"store":      c.Store.Kind,
		"redis_addr": c.Store.Redis.Addr,
		"ollama_url": c.Agent.OllamaURL,
		"model":      c.Agent.Model,
		"github":     c.Portfolio.BaseURL,
		"token_set":  c.Portfolio.Token != "",
	}
}
