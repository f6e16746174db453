package main

import (
	"errors"
	"fmt"

	"moodsync/internal/core"
)

// validateConfig checks cfg before a command runs. needsLLM is set for
// commands that call the language model.
func validateConfig(cfg *core.Config, needsLLM bool) error {
	if err := validateServerConfig(cfg); err != nil {
		return err
	}

	if !needsLLM {
		return nil
	}

	if err := validateSpotifyConfig(cfg); err != nil {
		return err
	}

	if err := validateLLMConfig(cfg); err != nil {
		return err
	}

	return validateCompareConfig(cfg)
}

// validateSpotifyConfig requires client credentials. A remote tracks server
// still needs them in every request.
func validateSpotifyConfig(cfg *core.Config) error {
	if cfg.Spotify.ClientID == "" {
		return errors.New("spotify client ID is required")
	}

	if cfg.Spotify.ClientSecret == "" {
		return errors.New("spotify client secret is required")
	}

	return nil
}

func validateLLMConfig(cfg *core.Config) error {
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("LLM temperature must be between 0 and 2, got %v", cfg.LLM.Temperature)
	}

	switch cfg.LLM.Provider {
	case noneProvider, "":
		return errors.New("an LLM provider is required to infer moods")
	case ollamaProvider:
		return nil
	}

	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required for provider: %s", cfg.LLM.Provider)
	}
	return nil
}

func validateCompareConfig(cfg *core.Config) error {
	switch cfg.Compare.Strategy {
	case core.CompareStrategyLLM, core.CompareStrategyCosine, "":
	default:
		return fmt.Errorf("unknown compare strategy: %s", cfg.Compare.Strategy)
	}

	if cfg.Compare.CosineThreshold < 0 || cfg.Compare.CosineThreshold > 1 {
		return fmt.Errorf("cosine threshold must be between 0 and 1, got %v", cfg.Compare.CosineThreshold)
	}
	return nil
}

func validateServerConfig(cfg *core.Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", cfg.Server.Port)
	}
	return nil
}
