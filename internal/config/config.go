// Package config loads and validates the settings the core reads at
// startup: embedding dimension, LLM endpoint/model, request timeouts,
// default result limits, quality thresholds, minimum document similarity,
// and the fallback embedder's semantic-boost table.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Timeouts holds the per-call deadlines described in the concurrency model.
// All are configurable; the zero value of Config.Timeouts is never used
// directly, Load always fills in the documented defaults first.
type Timeouts struct {
	Embed          time.Duration `yaml:"embed"`
	VectorSearch   time.Duration `yaml:"vector_search"`
	DocumentFetch  time.Duration `yaml:"document_fetch"`
	DataSourceFetch time.Duration `yaml:"data_source_fetch"`
	LLM            time.Duration `yaml:"llm"`
	Overall        time.Duration `yaml:"overall"`
}

// DefaultTimeouts returns the §5 documented defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Embed:           10 * time.Second,
		VectorSearch:    5 * time.Second,
		DocumentFetch:   5 * time.Second,
		DataSourceFetch: 10 * time.Second,
		LLM:             120 * time.Second,
		Overall:         150 * time.Second,
	}
}

// QualityThresholds sets the band cutoffs used by the Data Quality Assessor.
type QualityThresholds struct {
	Green float64 `yaml:"green"`
	Yellow float64 `yaml:"yellow"`
	FreshnessFullWithin time.Duration `yaml:"freshness_full_within"`
	FreshnessZeroAfter  time.Duration `yaml:"freshness_zero_after"`
	RecencyFullWithin   time.Duration `yaml:"recency_full_within"`
}

// DefaultQualityThresholds returns the spec's documented band and freshness
// cutoffs (§4.4, §9 Open Question: "spec picks one consistent set").
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		Green:               0.80,
		Yellow:              0.50,
		FreshnessFullWithin:  15 * time.Minute,
		FreshnessZeroAfter:   24 * time.Hour,
		RecencyFullWithin:    90 * 24 * time.Hour,
	}
}

// Config is the fully-resolved, validated configuration for one process.
type Config struct {
	EmbeddingDimension int               `yaml:"embedding_dimension"`
	MinDocumentSimilarity float64        `yaml:"min_document_similarity"`
	DefaultResultLimit int               `yaml:"default_result_limit"`
	MaxContextChars    int               `yaml:"max_context_chars"`
	LLMMaxTokens       int               `yaml:"llm_max_tokens"`
	LLMTemperature     float64           `yaml:"llm_temperature"`
	LLMConcurrency     int64             `yaml:"llm_concurrency"`
	LLMEndpoint        string            `yaml:"llm_endpoint"`
	LLMModel           string            `yaml:"llm_model"`

	Timeouts Timeouts          `yaml:"timeouts"`
	Quality  QualityThresholds `yaml:"quality"`

	// SemanticBoosts configures the fallback embedder: for each keyword,
	// a set of dimension-index → additive-boost pairs. Treated as
	// fallback-only illustrative data, never authoritative for a real
	// embedding model (see SPEC_FULL.md GLOSSARY "Fallback embedder").
	SemanticBoosts map[string]map[int]float64 `yaml:"semantic_boosts"`
}

// Default returns a Config populated with every documented default. Callers
// layer Load's YAML/env overrides on top of this.
func Default() *Config {
	return &Config{
		EmbeddingDimension:    384,
		MinDocumentSimilarity: 0.5,
		DefaultResultLimit:    50,
		MaxContextChars:       16_000,
		LLMMaxTokens:          2048,
		LLMTemperature:        0.2,
		LLMConcurrency:        4,
		Timeouts:              DefaultTimeouts(),
		Quality:               DefaultQualityThresholds(),
		SemanticBoosts:        map[string]map[int]float64{},
	}
}

// Load reads YAML from path (if non-empty and present), applies it on top of
// Default(), then applies NETFLEET_* environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Absent config file: defaults stand. This mirrors the data
			// source being optional at this layer; the caller decides
			// whether a missing file is itself an error.
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("NETFLEET_LLM_ENDPOINT"); ok {
		cfg.LLMEndpoint = v
	}
	if v, ok := os.LookupEnv("NETFLEET_LLM_MODEL"); ok {
		cfg.LLMModel = v
	}
	if v, ok := os.LookupEnv("NETFLEET_EMBEDDING_DIMENSION"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.EmbeddingDimension = n
		}
	}
	if v, ok := os.LookupEnv("NETFLEET_MIN_DOCUMENT_SIMILARITY"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinDocumentSimilarity = f
		}
	}
	if v, ok := os.LookupEnv("NETFLEET_LLM_CONCURRENCY"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.LLMConcurrency = n
		}
	}
}

// Validate checks internal consistency. A Config failing validation is a
// startup-time programmer/operator error, never something downstream code
// should have to guard against again.
func (c *Config) Validate() error {
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("config: embedding_dimension must be positive, got %d", c.EmbeddingDimension)
	}
	if c.MinDocumentSimilarity < -1 || c.MinDocumentSimilarity > 1 {
		return fmt.Errorf("config: min_document_similarity must be in [-1,1], got %f", c.MinDocumentSimilarity)
	}
	if c.DefaultResultLimit <= 0 {
		return fmt.Errorf("config: default_result_limit must be positive, got %d", c.DefaultResultLimit)
	}
	if c.LLMConcurrency <= 0 {
		return fmt.Errorf("config: llm_concurrency must be positive, got %d", c.LLMConcurrency)
	}
	if c.Quality.Yellow > c.Quality.Green {
		return fmt.Errorf("config: quality.yellow (%f) must not exceed quality.green (%f)", c.Quality.Yellow, c.Quality.Green)
	}
	return nil
}

// Clone returns a deep copy, following the Clone() convention used
// throughout this codebase for mutable configuration values.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.SemanticBoosts = make(map[string]map[int]float64, len(c.SemanticBoosts))
	for k, v := range c.SemanticBoosts {
		inner := make(map[int]float64, len(v))
		for dim, boost := range v {
			inner[dim] = boost
		}
		clone.SemanticBoosts[k] = inner
	}
	return &clone
}
