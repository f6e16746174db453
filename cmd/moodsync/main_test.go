package main

import (
	"strings"
	"testing"

	"github.com/spf13/viper"

	"moodsync/internal/core"
)

func TestFlagToEnvVar(t *testing.T) {
	tests := map[string]string{
		"llm-api-key":             "MOODSYNC_LLM_API_KEY",
		"server-port":             "MOODSYNC_SERVER_PORT",
		"tracks-limit-per-minute": "MOODSYNC_TRACKS_LIMIT_PER_MINUTE",
	}
	for flag, want := range tests {
		if got := flagToEnvVar(flag); got != want {
			t.Errorf("flagToEnvVar(%q) = %q, want %q", flag, got, want)
		}
	}
}

func TestBuildConfig_FlagDefaults(t *testing.T) {
	cfg := buildConfig()
	defaults := core.DefaultConfig()

	if cfg.Spotify.RedirectURL != defaults.Spotify.RedirectURL {
		t.Errorf("redirect URL = %q, want %q", cfg.Spotify.RedirectURL, defaults.Spotify.RedirectURL)
	}
	if cfg.LLM.Provider != defaults.LLM.Provider || cfg.LLM.Temperature != defaults.LLM.Temperature {
		t.Errorf("LLM config = %+v, want provider %s temperature %v", cfg.LLM, defaults.LLM.Provider, defaults.LLM.Temperature)
	}
	if !cfg.LLM.StructuredOutput {
		t.Error("structured output should default to true")
	}
	if cfg.Compare != defaults.Compare {
		t.Errorf("compare config = %+v, want %+v", cfg.Compare, defaults.Compare)
	}
	if cfg.Server.Port != core.DefaultServerPort || cfg.Server.TracksLimitPerMinute != core.DefaultTracksLimitPerMinute {
		t.Errorf("server config = %+v", cfg.Server)
	}
	if cfg.App.Language != "en" {
		t.Errorf("language = %q, want en", cfg.App.Language)
	}
}

func TestBindEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		key  string
		want string
	}{
		{"Prefixed", map[string]string{"MOODSYNC_COMPARE_STRATEGY": "cosine"}, "compare-strategy", "cosine"},
		{"Legacy OpenAI key", map[string]string{"OPENAI_API_KEY": "sk-legacy"}, "llm-api-key", "sk-legacy"},
		{"Legacy Spotify ID", map[string]string{"SPOTIFY_CLIENT_ID": "legacy-id"}, "spotify-client-id", "legacy-id"},
		{
			"Prefixed wins over legacy",
			map[string]string{"OPENAI_API_KEY": "sk-legacy", "MOODSYNC_LLM_API_KEY": "sk-new"},
			"llm-api-key",
			"sk-new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"OPENAI_API_KEY", "MOODSYNC_LLM_API_KEY", "SPOTIFY_CLIENT_ID", "MOODSYNC_SPOTIFY_CLIENT_ID"} {
				t.Setenv(name, "")
			}
			for name, value := range tt.env {
				t.Setenv(name, value)
			}

			v := viper.New()
			bindEnv(v)

			if got := v.GetString(tt.key); got != tt.want {
				t.Errorf("GetString(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func validCompareConfig() *core.Config {
	cfg := core.DefaultConfig()
	cfg.Spotify.ClientID = "id"
	cfg.Spotify.ClientSecret = "secret"
	cfg.LLM.APIKey = "sk-test"
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*core.Config)
		needsLLM bool
		wantErr  string
	}{
		{"Valid compare", func(*core.Config) {}, true, ""},
		{"Missing client ID", func(c *core.Config) { c.Spotify.ClientID = "" }, true, "client ID"},
		{"Missing client secret", func(c *core.Config) { c.Spotify.ClientSecret = "" }, true, "client secret"},
		{"Missing API key", func(c *core.Config) { c.LLM.APIKey = "" }, true, "API key"},
		{"Ollama needs no key", func(c *core.Config) { c.LLM.Provider = "ollama"; c.LLM.APIKey = "" }, true, ""},
		{"No provider", func(c *core.Config) { c.LLM.Provider = "none" }, true, "LLM provider is required"},
		{"Bad temperature", func(c *core.Config) { c.LLM.Temperature = 3 }, true, "temperature"},
		{"Unknown strategy", func(c *core.Config) { c.Compare.Strategy = "vibes" }, true, "unknown compare strategy"},
		{"Bad threshold", func(c *core.Config) { c.Compare.CosineThreshold = 1.5 }, true, "cosine threshold"},
		{"Serve needs no credentials", func(c *core.Config) { c.Spotify.ClientID = ""; c.LLM.APIKey = "" }, false, ""},
		{"Bad port", func(c *core.Config) { c.Server.Port = 70000 }, false, "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCompareConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg, tt.needsLLM)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateConfig() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateConfig() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateEnvExampleContent(t *testing.T) {
	content := generateEnvExampleContent(rootCmd)

	for _, want := range []string{
		"MOODSYNC_SPOTIFY_CLIENT_ID=your_spotify_client_id_here",
		"MOODSYNC_SPOTIFY_REDIRECT_URL=http://localhost:3000",
		"MOODSYNC_LLM_PROVIDER=openai",
		"MOODSYNC_COMPARE_STRATEGY=llm",
		"MOODSYNC_COSINE_THRESHOLD=0.5",
		"MOODSYNC_SERVER_PORT=8000",
		"# MOODSYNC_TRACKS_URL=",
		"# CLI: --compare-strategy, --cosine-threshold",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("env example lacks %q", want)
		}
	}
}
