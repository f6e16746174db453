// Package main provides the moodsync CLI application entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"moodsync/internal/core"
	"moodsync/internal/i18n"
)

const (
	envPrefix       = "MOODSYNC"
	noneProvider    = "none"
	ollamaProvider  = "ollama"
	defaultEnvFile  = ".env"
	envExampleFile  = ".env.example"
	defaultLogLevel = "info"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

// legacyEnv maps config keys to the unprefixed variables older setups export.
var legacyEnv = map[string]string{
	"llm-api-key":           "OPENAI_API_KEY",
	"spotify-client-id":     "SPOTIFY_CLIENT_ID",
	"spotify-client-secret": "SPOTIFY_CLIENT_SECRET",
}

var rootCmd = &cobra.Command{
	Use:   "moodsync",
	Short: "moodsync - does your chat match your music?",
	Long: `moodsync compares the mood of what you listened to on Spotify today with the
mood of a chat message you are about to send, using a language model to name both moods.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("Console language (%s)", supportedLangs))

	flags.String("spotify-client-id", "", "Spotify client ID")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("spotify-redirect-url", core.DefaultRedirectURL, "OAuth redirect URL registered with the Spotify app")
	flags.String("spotify-token-dir", core.DefaultTokenDir, "Directory for cached Spotify tokens")
	flags.Int("spotify-auth-timeout-secs", core.DefaultAuthTimeoutSecs, "Seconds to wait for the OAuth redirect")
	flags.String("tracks-url", "", "Base URL of a moodsync server to read listening history from")

	flags.String("llm-provider", core.DefaultLLMProvider, "LLM provider (openai, anthropic, ollama, none)")
	flags.String("llm-model", "", "LLM model name (provider default when empty)")
	flags.String("llm-api-key", "", "LLM API key")
	flags.String("llm-base-url", "", "LLM API base URL")
	flags.Float64("llm-temperature", core.DefaultTemperature, "Sampling temperature")
	flags.Int("llm-max-tokens", core.DefaultMaxTokens, "Maximum tokens per reply")
	flags.Bool("llm-structured-output", true, "Attach a JSON schema to mood requests when the provider supports it")

	flags.String("compare-strategy", core.CompareStrategyLLM, "How to compare moods (llm, cosine)")
	flags.Float64("cosine-threshold", core.DefaultCosineThreshold, "Cosine similarity above which moods count as similar")

	flags.String("server-host", "0.0.0.0", "HTTP server host")
	flags.Int("server-port", core.DefaultServerPort, "HTTP server port")
	flags.Int("tracks-limit-per-minute", core.DefaultTracksLimitPerMinute,
		"Maximum /tracks/ requests per client ID per minute (0 disables)")

	rootCmd.Flags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(compareCmd, serveCmd, tracksCmd)
}

func initConfig() {
	envFile := defaultEnvFile
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envFile, err)
		}
	}

	bindEnv(viper.GetViper())

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

// bindEnv wires MOODSYNC_* variables and the legacy aliases into v.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, flagToEnvVar(key), legacy); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind %s: %v\n", legacy, err)
		}
	}
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureSpotify(cfg)
	configureLLM(cfg)
	configureCompare(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	cfg.Spotify.TracksURL = viper.GetString("tracks-url")

	if redirect := viper.GetString("spotify-redirect-url"); redirect != "" {
		cfg.Spotify.RedirectURL = redirect
	}
	if dir := viper.GetString("spotify-token-dir"); dir != "" {
		cfg.Spotify.TokenDir = dir
	}
	if secs := viper.GetInt("spotify-auth-timeout-secs"); secs > 0 {
		cfg.Spotify.AuthTimeoutSecs = secs
	}
}

func configureLLM(cfg *core.Config) {
	cfg.LLM.Provider = strings.ToLower(viper.GetString("llm-provider"))
	cfg.LLM.Model = viper.GetString("llm-model")
	cfg.LLM.APIKey = viper.GetString("llm-api-key")
	cfg.LLM.BaseURL = viper.GetString("llm-base-url")
	cfg.LLM.Temperature = viper.GetFloat64("llm-temperature")
	cfg.LLM.StructuredOutput = viper.GetBool("llm-structured-output")
	if tokens := viper.GetInt("llm-max-tokens"); tokens > 0 {
		cfg.LLM.MaxTokens = tokens
	}
}

func configureCompare(cfg *core.Config) {
	cfg.Compare.Strategy = strings.ToLower(viper.GetString("compare-strategy"))
	cfg.Compare.CosineThreshold = viper.GetFloat64("cosine-threshold")
}

func configureServer(cfg *core.Config) {
	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Server.TracksLimitPerMinute = viper.GetInt("tracks-limit-per-minute")
	cfg.Log.Level = viper.GetString("log-level")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runRoot(cmd *cobra.Command, args []string) error {
	if generate, _ := cmd.Flags().GetBool("generate-env-example"); generate {
		return generateEnvExample(cmd)
	}
	return runCompare(cmd, args)
}
