package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wayfarer/internal/planner"
)

// Config holds the service configuration. Structured settings come from the YAML
// file at CONFIG_PATH, secrets and endpoints from the environment.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Planner     planner.Config    `yaml:"planner"`
	Search      SearchConfig      `yaml:"search"`
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Preferences PreferencesConfig `yaml:"preferences"`

	PostgresURL string `yaml:"-"`
	JWTSecret   string `yaml:"-"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// SearchConfig bounds the place search collaborator.
type SearchConfig struct {
	Timeout       Duration `yaml:"timeout"`
	HitsPerPage   int      `yaml:"hits_per_page"`
	Retries       int      `yaml:"retries"`
	MinSimilarity float64  `yaml:"min_similarity"`
}

// LLMConfig selects the optional enrichment provider.
type LLMConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Timeout  Duration `yaml:"timeout"`
	Provider string   `yaml:"provider"` // "none", "openai", "gemini"
	Model    string   `yaml:"model"`
	BaseURL  string   `yaml:"base_url"`
	Key      string   `yaml:"-"`
}

type CacheConfig struct {
	TTL      Duration `yaml:"ttl"`
	Size     int      `yaml:"size"`
	RedisURL string   `yaml:"-"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type PreferencesConfig struct {
	TTL Duration `yaml:"ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"*"},
		},
		Planner: planner.DefaultConfig(),
		Search: SearchConfig{
			Timeout:       Duration(5 * time.Second),
			HitsPerPage:   30,
			Retries:       2,
			MinSimilarity: 0.7,
		},
		LLM: LLMConfig{
			Timeout:  Duration(20 * time.Second),
			Provider: "none",
		},
		Cache: CacheConfig{
			TTL:  Duration(time.Hour),
			Size: 10_000,
		},
		RateLimit: RateLimitConfig{
			RPS:   2,
			Burst: 5,
		},
		Preferences: PreferencesConfig{
			TTL: Duration(30 * Day),
		},
	}
}

// Load reads .env (when present), the YAML file at path (when present) and then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads only the YAML file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvWithDefault("PORT", c.Server.Port)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	c.PostgresURL = os.Getenv("POSTGRES_URL")
	c.JWTSecret = os.Getenv("JWT_SECRET")
	c.Cache.RedisURL = os.Getenv("REDIS_URL")

	c.LLM.Provider = strings.ToLower(getEnvWithDefault("LLM_PROVIDER", c.LLM.Provider))
	switch c.LLM.Provider {
	case "openai":
		c.LLM.Key = os.Getenv("OPENAI_API_KEY")
		c.LLM.Model = getEnvWithDefault("OPENAI_MODEL", orDefault(c.LLM.Model, "gpt-4o-mini"))
		c.LLM.BaseURL = getEnvWithDefault("OPENAI_BASE_URL", c.LLM.BaseURL)
	case "gemini":
		c.LLM.Key = os.Getenv("GEMINI_API_KEY")
		c.LLM.Model = getEnvWithDefault("GEMINI_MODEL", orDefault(c.LLM.Model, "gemini-1.5-flash"))
	}
	if v := os.Getenv("LLM_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.LLM.Enabled = enabled
		}
	}
}

// Validate rejects settings the planner cannot work with.
func (c *Config) Validate() error {
	w := c.Planner.Weights
	if w.Interest < 0 || w.Rating < 0 || w.Popularity < 0 {
		return fmt.Errorf("planner.weights must not be negative")
	}
	v := c.Planner.VisitsPerDay
	if v.Relaxed <= 0 || v.Moderate <= 0 || v.Fast <= 0 {
		return fmt.Errorf("planner.visits_per_day must be positive for every pace")
	}
	if v.Relaxed >= v.Moderate || v.Moderate >= v.Fast {
		return fmt.Errorf("planner.visits_per_day must grow from relaxed to moderate to fast, got %d/%d/%d",
			v.Relaxed, v.Moderate, v.Fast)
	}
	b := c.Planner.Budgets
	if b.Morning <= 0 || b.Afternoon <= 0 || b.Evening <= 0 {
		return fmt.Errorf("planner.budgets must be positive for every block")
	}
	if c.Search.HitsPerPage <= 0 {
		return fmt.Errorf("search.hits_per_page must be positive")
	}
	if c.Search.Retries < 0 {
		return fmt.Errorf("search.retries must not be negative")
	}
	switch c.LLM.Provider {
	case "", "none", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported llm provider %q, use none, openai or gemini", c.LLM.Provider)
	}
	if c.LLM.Enabled && (c.LLM.Provider == "" || c.LLM.Provider == "none") {
		log.Printf("llm.enabled is set but no provider is configured, enrichment stays off")
	}
	return nil
}

// LLMActive reports whether enrichment has everything it needs.
func (c *Config) LLMActive() bool {
	return c.LLM.Enabled && c.LLM.Key != "" && (c.LLM.Provider == "openai" || c.LLM.Provider == "gemini")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
