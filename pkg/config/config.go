// Package config loads the triage configuration from a YAML file with
// environment-variable overrides. Rule tables are part of the
// configuration so deployments can ship their own keyword, routing,
// and template data without code changes.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval"`
	Drafting    DraftingConfig    `mapstructure:"drafting"`
	AutoResolve AutoResolveConfig `mapstructure:"auto_resolve"`
	Duplicates  DuplicateConfig   `mapstructure:"duplicates"`
	Rules       RulesConfig       `mapstructure:"rules"`
}

// StorageConfig selects and configures the storage driver.
type StorageConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `mapstructure:"driver"`

	// Path is the SQLite database file path.
	Path string `mapstructure:"path"`
}

// OpenAIConfig configures the generative provider. An empty APIKey
// disables the generative and hybrid drafting strategies.
type OpenAIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	Temperature       float64 `mapstructure:"temperature"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
}

// RetrievalConfig tunes knowledge retrieval.
type RetrievalConfig struct {
	MaxResults       int     `mapstructure:"max_results"`
	MinScore         float64 `mapstructure:"min_score"`
	SemanticTopN     int     `mapstructure:"semantic_top_n"`
	CacheSize        int     `mapstructure:"cache_size"`
	PopularViewCount int     `mapstructure:"popular_view_count"`
}

// DraftingConfig tunes response drafting.
type DraftingConfig struct {
	MaxLength          int     `mapstructure:"max_length"`
	TopMatches         int     `mapstructure:"top_matches"`
	TemplateConfidence float64 `mapstructure:"template_confidence"`
	AgentName          string  `mapstructure:"agent_name"`
}

// AutoResolveConfig gates automatic resolution.
type AutoResolveConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Categories  []string `mapstructure:"categories"`
	MaxPriority string   `mapstructure:"max_priority"`
	Threshold   float64  `mapstructure:"threshold"`
}

// DuplicateConfig tunes duplicate detection.
type DuplicateConfig struct {
	Threshold   float64 `mapstructure:"threshold"`
	WindowHours int     `mapstructure:"window_hours"`
}

// RulesConfig optionally overrides the built-in rule tables. Empty
// tables fall back to the defaults.
type RulesConfig struct {
	CategoryKeywords     map[string][]string `mapstructure:"category_keywords"`
	UrgencyKeywords      []string            `mapstructure:"urgency_keywords"`
	TroubleshootingSteps map[string][]string `mapstructure:"troubleshooting_steps"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply. Environment variables use
// the TRIAGE_ prefix (e.g. TRIAGE_OPENAI_API_KEY); OPENAI_API_KEY is
// honoured as a conventional fallback.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "triage.db")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.timeout_seconds", 20)
	v.SetDefault("openai.requests_per_minute", 20)
	v.SetDefault("retrieval.max_results", 5)
	v.SetDefault("retrieval.min_score", 0.2)
	v.SetDefault("retrieval.semantic_top_n", 20)
	v.SetDefault("retrieval.cache_size", 128)
	v.SetDefault("retrieval.popular_view_count", 100)
	v.SetDefault("drafting.max_length", 2000)
	v.SetDefault("drafting.top_matches", 3)
	v.SetDefault("drafting.template_confidence", 0.5)
	v.SetDefault("drafting.agent_name", "Support Team")
	v.SetDefault("auto_resolve.enabled", false)
	v.SetDefault("auto_resolve.max_priority", "medium")
	v.SetDefault("auto_resolve.threshold", 0.85)
	v.SetDefault("duplicates.threshold", 0.8)
	v.SetDefault("duplicates.window_hours", 24)

	v.SetEnvPrefix("TRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if key := v.GetString("openai.api_key"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return &cfg, nil
}
