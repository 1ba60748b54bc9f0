package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[llm]
provider = "openai"
model = "gpt-4o-mini"

[collector]
timeout = "3s"

[prompt]
area = "Mississauga"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 3*time.Second, cfg.Collector.Timeout.Duration)
	assert.Equal(t, "Mississauga", cfg.Prompt.Area)

	// untouched keys keep defaults
	assert.Equal(t, "https://gtaupdate.com/", cfg.Collector.URL)
	assert.Equal(t, "COORDS:", cfg.Splitter.CoordsMarker)
	assert.Equal(t, "NEWS:", cfg.Splitter.NewsMarker)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[collector]\ntimeout = \"soon\"\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("INCIDENTS_URL", "http://example.test/page")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	assert.Equal(t, "http://example.test/page", cfg.Collector.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnvPrefersGenericKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "generic")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "generic", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)

	cfg.LLM.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Splitter.NewsMarker = cfg.Splitter.CoordsMarker
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Provider = "ollama"
	assert.NoError(t, cfg.Validate())
	cfg.LLM.Provider = "Ollama"
	assert.NoError(t, cfg.Validate())

	cfg.Collector.Fetcher = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}
