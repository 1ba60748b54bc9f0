package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrMissingAPIKey is returned by Validate when no model provider key is configured.
var ErrMissingAPIKey = errors.New("llm api key is not set (LLM_API_KEY or GEMINI_API_KEY)")

type LLMConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	MaxTokens int    `toml:"max_tokens"`
}

type CollectorConfig struct {
	URL       string   `toml:"url"`
	Fetcher   string   `toml:"fetcher"` // "http" or "browser"
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
}

type PromptConfig struct {
	Area string `toml:"area"`
	// Role overrides the opening sentence. It may contain one %s for the area.
	Role string `toml:"role"`
}

type SplitterConfig struct {
	AnswerLabel  string `toml:"answer_label"`
	CoordsMarker string `toml:"coords_marker"`
	NewsMarker   string `toml:"news_marker"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Collector CollectorConfig `toml:"collector"`
	Prompt    PromptConfig    `toml:"prompt"`
	Splitter  SplitterConfig  `toml:"splitter"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// Duration lets timeouts be written as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-flash-latest",
			MaxTokens: 2048,
		},
		Collector: CollectorConfig{
			URL:       "https://gtaupdate.com/",
			Fetcher:   "http",
			Timeout:   Duration{15 * time.Second},
			UserAgent: "streetwatch/0.1",
		},
		Prompt: PromptConfig{
			Area: "Toronto",
		},
		Splitter: SplitterConfig{
			AnswerLabel:  "ANSWER:",
			CoordsMarker: "COORDS:",
			NewsMarker:   "NEWS:",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a TOML file on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides config values with environment variables when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("INCIDENTS_URL"); v != "" {
		c.Collector.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

func (c *Config) Validate() error {
	// Ollama ignores the key, the OpenAI-compatible client gets a dummy one.
	if c.LLM.APIKey == "" && !strings.EqualFold(c.LLM.Provider, "ollama") {
		return ErrMissingAPIKey
	}
	if c.Splitter.CoordsMarker == "" || c.Splitter.NewsMarker == "" {
		return errors.New("splitter markers must not be empty")
	}
	if c.Splitter.CoordsMarker == c.Splitter.NewsMarker {
		return errors.New("splitter markers must differ")
	}
	switch c.Collector.Fetcher {
	case "", "http", "browser":
	default:
		return fmt.Errorf("unsupported collector fetcher: %s", c.Collector.Fetcher)
	}
	return nil
}
