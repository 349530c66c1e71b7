// Package config loads service configuration from an optional YAML file
// with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drift-line/nlcmd/pkg/cost"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Logging   LoggingConfig           `yaml:"logging"`
	Detection DetectionConfig         `yaml:"detection"`
	Router    RouterConfig            `yaml:"router"`
	Hybrid    HybridConfig            `yaml:"hybrid"`
	Sampler   SamplerConfig           `yaml:"sampler"`
	LLM       LLMConfig               `yaml:"llm"`
	Cache     CacheConfig             `yaml:"cache"`
	Tracing   TracingConfig           `yaml:"tracing"`
	Pricing   map[string]cost.Pricing `yaml:"pricing"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" | "console"
}

// DetectionConfig tunes the cascade.
type DetectionConfig struct {
	EnableFuzzy       bool    `yaml:"enable_fuzzy"`
	SemanticThreshold float64 `yaml:"semantic_threshold"`
}

// RouterConfig holds the decision thresholds.
type RouterConfig struct {
	RejectThreshold        float64 `yaml:"reject_threshold"`
	ClarificationThreshold float64 `yaml:"clarification_threshold"`
	EntityThreshold        int     `yaml:"entity_threshold"`
}

// HybridConfig tunes the rules-vs-LLM path.
type HybridConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	AdaptationRate      float64 `yaml:"adaptation_rate"`
	MinThreshold        float64 `yaml:"min_threshold"`
	MaxThreshold        float64 `yaml:"max_threshold"`
	MaxTokens           int     `yaml:"max_tokens"`
}

// SamplerConfig tunes the Langevin sampler.
type SamplerConfig struct {
	Steps          int           `yaml:"steps"`
	StepSize       float64       `yaml:"step_size"`
	KT             float64       `yaml:"kt"`
	Chains         int           `yaml:"chains"`
	Budget         time.Duration `yaml:"budget"`
	RouteThreshold float64       `yaml:"route_threshold"`
}

// LLMConfig names the fallback model.
type LLMConfig struct {
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig sizes the detection cache.
type CacheConfig struct {
	MaxSize int           `yaml:"max_size"`
	TTL     time.Duration `yaml:"ttl"`
}

// TracingConfig points at the span collector.
type TracingConfig struct {
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
	Environment    string `yaml:"environment"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Detection: DetectionConfig{
			EnableFuzzy:       true,
			SemanticThreshold: 0.90,
		},
		Router: RouterConfig{
			RejectThreshold:        0.3,
			ClarificationThreshold: 0.6,
			EntityThreshold:        5,
		},
		Hybrid: HybridConfig{
			ConfidenceThreshold: 0.7,
			AdaptationRate:      0.02,
			MinThreshold:        0.4,
			MaxThreshold:        0.95,
			MaxTokens:           256,
		},
		Sampler: SamplerConfig{
			StepSize:       0.01,
			KT:             1.0,
			Chains:         8,
			Budget:         2 * time.Second,
			RouteThreshold: 0.5,
		},
		LLM: LLMConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			MaxSize: 1024,
			TTL:     10 * time.Minute,
		},
		Pricing: cost.DefaultTable(),
	}
}

// Load reads path (optional, "" skips the file) and applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("NLCMD_ADDR", c.Server.Addr)
	c.Logging.Level = getEnv("NLCMD_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("NLCMD_LOG_FORMAT", c.Logging.Format)
	c.LLM.Model = getEnv("NLCMD_LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	c.Router.RejectThreshold = getEnvFloat("NLCMD_REJECT_THRESHOLD", c.Router.RejectThreshold)
	c.Router.ClarificationThreshold = getEnvFloat("NLCMD_CLARIFICATION_THRESHOLD", c.Router.ClarificationThreshold)
	c.Hybrid.ConfidenceThreshold = getEnvFloat("NLCMD_CONFIDENCE_THRESHOLD", c.Hybrid.ConfidenceThreshold)
	c.Sampler.Chains = getEnvInt("NLCMD_SAMPLER_CHAINS", c.Sampler.Chains)
	c.Sampler.KT = getEnvFloat("NLCMD_SAMPLER_KT", c.Sampler.KT)
	c.Tracing.JaegerEndpoint = getEnv("NLCMD_JAEGER_ENDPOINT", c.Tracing.JaegerEndpoint)
}

func (c *Config) validate() error {
	if c.Router.RejectThreshold >= c.Router.ClarificationThreshold {
		return fmt.Errorf("reject threshold %.2f must be below clarification threshold %.2f",
			c.Router.RejectThreshold, c.Router.ClarificationThreshold)
	}
	if c.Hybrid.MinThreshold >= c.Hybrid.MaxThreshold {
		return fmt.Errorf("hybrid min threshold %.2f must be below max threshold %.2f",
			c.Hybrid.MinThreshold, c.Hybrid.MaxThreshold)
	}
	if c.Sampler.Chains <= 0 {
		return fmt.Errorf("sampler chains must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
