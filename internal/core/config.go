package core

import (
	"time"
)

const (
	// DefaultRedirectURL is the OAuth redirect target registered with the Spotify app.
	DefaultRedirectURL = "http://localhost:3000"
	// DefaultTokenDir is where OAuth tokens are cached, one file per client ID.
	DefaultTokenDir = "~/.config/moodsync/tokens"
	// DefaultAuthTimeoutSecs bounds the wait for the OAuth redirect.
	DefaultAuthTimeoutSecs = 180

	// DefaultLLMProvider is the provider used when none is configured.
	DefaultLLMProvider = "openai"
	// DefaultTemperature is the sampling temperature for every mood call.
	DefaultTemperature = 0.4
	// DefaultMaxTokens caps the length of a model reply.
	DefaultMaxTokens = 400

	// CompareStrategyLLM asks the language model whether two word lists match.
	CompareStrategyLLM = "llm"
	// CompareStrategyCosine thresholds the cosine similarity of the word lists.
	CompareStrategyCosine = "cosine"
	// DefaultCosineThreshold is the similarity above which two moods count as similar.
	DefaultCosineThreshold = 0.5

	// DefaultServerPort is the HTTP façade port.
	DefaultServerPort = 8000
	// DefaultTracksLimitPerMinute throttles POST /tracks/ per client ID.
	DefaultTracksLimitPerMinute = 30
)

type Config struct {
	Spotify SpotifyConfig
	LLM     LLMConfig
	Compare CompareConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type SpotifyConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	TokenDir        string
	AuthTimeoutSecs int
	// TracksURL points at a remote moodsync façade. When set, the CLI reads
	// listening history from it instead of calling Spotify directly.
	TracksURL string
}

// Credentials returns the client credentials as a request-scoped value.
func (s SpotifyConfig) Credentials() SpotifyCredentials {
	return SpotifyCredentials{ClientID: s.ClientID, ClientSecret: s.ClientSecret}
}

type LLMConfig struct {
	Provider         string
	Model            string
	APIKey           string
	BaseURL          string
	Temperature      float64
	MaxTokens        int
	StructuredOutput bool
}

type CompareConfig struct {
	Strategy        string
	CosineThreshold float64
}

type ServerConfig struct {
	Host                 string
	Port                 int
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	TracksLimitPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language string
}

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURL:     DefaultRedirectURL,
			TokenDir:        DefaultTokenDir,
			AuthTimeoutSecs: DefaultAuthTimeoutSecs,
		},
		LLM: LLMConfig{
			Provider:         DefaultLLMProvider,
			Temperature:      DefaultTemperature,
			MaxTokens:        DefaultMaxTokens,
			StructuredOutput: true,
		},
		Compare: CompareConfig{
			Strategy:        CompareStrategyLLM,
			CosineThreshold: DefaultCosineThreshold,
		},
		Server: ServerConfig{
			Host:                 "0.0.0.0",
			Port:                 DefaultServerPort,
			ReadTimeout:          10 * time.Second,
			WriteTimeout:         4 * time.Minute,
			TracksLimitPerMinute: DefaultTracksLimitPerMinute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language: "en",
		},
	}
}
