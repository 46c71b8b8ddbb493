package model

import "time"

// Config is the root configuration for claimwise.
// Resolution order: CLI flags > CLAIMWISE_* env vars > config file > defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Speech      SpeechConfig      `yaml:"speech"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls the inbound API server.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	AllowOrigin  string        `yaml:"allow_origin"`
}

// LLMConfig configures the model gateway. Credentials are always
// resolved by the caller (env or config file), never embedded.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// SearchConfig configures the tool-using search agent.
type SearchConfig struct {
	MaxSteps      int           `yaml:"max_steps"` // tool-call budget per claim
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"` // per web request
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RatePerSecond float64       `yaml:"rate_per_second"` // per-host politeness
	RateBurst     int           `yaml:"rate_burst"`
	RespectRobots bool          `yaml:"respect_robots"`
	MaxResults    int           `yaml:"max_results"` // per query
}

// SpeechConfig configures the hosted speech-to-text proxy.
type SpeechConfig struct {
	APIKey      string        `yaml:"api_key,omitempty"`
	Endpoint    string        `yaml:"endpoint"`
	ContentType string        `yaml:"content_type"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ConcurrencyConfig bounds the per-request claim fan-out. The effective
// worker count is min(claim count, MaxCheckers).
type ConcurrencyConfig struct {
	MaxCheckers int `yaml:"max_checkers"`
}

// CacheConfig controls search-result caching.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	Pretty  bool `yaml:"pretty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         ":8000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			AllowOrigin:  "*",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "",
			Timeout:   60,
			MaxTokens: 1024,
		},
		Search: SearchConfig{
			MaxSteps:      3,
			UserAgent:     "Claimwise/0.1 (+https://github.com/claimwise/claimwise)",
			Timeout:       15 * time.Second,
			MaxBodyBytes:  1_000_000,
			RatePerSecond: 1,
			RateBurst:     3,
			RespectRobots: true,
			MaxResults:    5,
		},
		Speech: SpeechConfig{
			Endpoint:    "https://router.huggingface.co/hf-inference/models/openai/whisper-large-v3-turbo",
			ContentType: "audio/webm",
			Timeout:     60 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			MaxCheckers: 10,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Output: OutputConfig{
			Verbose: false,
			Pretty:  true,
		},
	}
}
