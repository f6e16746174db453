package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const sectionRule = "# =============================================================================\n"

type envSection struct {
	title string
	note  string
	keys  []envKey
}

type envKey struct {
	flag    string
	example string // used instead of the flag default when set
	comment string
}

var envSections = []envSection{
	{
		title: "SPOTIFY CONFIGURATION - Required for compare and tracks",
		note:  "Get these from https://developer.spotify.com/dashboard",
		keys: []envKey{
			{flag: "spotify-client-id", example: "your_spotify_client_id_here", comment: "Spotify app client ID"},
			{flag: "spotify-client-secret", example: "your_spotify_client_secret_here", comment: "Spotify app client secret"},
			{flag: "spotify-redirect-url", comment: "OAuth redirect URL, must match the Spotify app"},
			{flag: "spotify-token-dir", comment: "Cached tokens, one file per client ID"},
			{flag: "spotify-auth-timeout-secs", comment: "Seconds to wait for the OAuth redirect"},
			{flag: "tracks-url", example: "", comment: "Read history from a moodsync server instead (e.g. http://127.0.0.1:8000)"},
		},
	},
	{
		title: "LLM CONFIGURATION - Required for compare",
		note:  "Provider: openai, anthropic, ollama. OPENAI_API_KEY is honoured as well.",
		keys: []envKey{
			{flag: "llm-provider", comment: "Provider name"},
			{flag: "llm-api-key", example: "sk-...", comment: "API key (not needed for ollama)"},
			{flag: "llm-model", example: "", comment: "Model (gpt-4o, claude-3-5-haiku-latest, llama3.2 by default)"},
			{flag: "llm-base-url", example: "", comment: "API base URL (ollama: http://localhost:11434)"},
			{flag: "llm-temperature", comment: "Sampling temperature"},
			{flag: "llm-max-tokens", comment: "Maximum tokens per reply"},
			{flag: "llm-structured-output", comment: "Send a JSON schema with mood requests"},
		},
	},
	{
		title: "COMPARISON",
		keys: []envKey{
			{flag: "compare-strategy", comment: "llm asks the model, cosine compares the words"},
			{flag: "cosine-threshold", comment: "Similarity above which moods count as similar"},
		},
	},
	{
		title: "HTTP SERVER (moodsync serve)",
		keys: []envKey{
			{flag: "server-host", comment: "Server bind address"},
			{flag: "server-port", comment: "Server port"},
			{flag: "tracks-limit-per-minute", comment: "Per client ID, 0 disables"},
		},
	},
	{
		title: "APPLICATION",
		keys: []envKey{
			{flag: "language", comment: "Console language"},
			{flag: "log-level", comment: "debug, info, warn, error"},
		},
	},
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Printf("Generating %s file from current configuration...\n", envExampleFile)

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(envExampleFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", envExampleFile, err)
	}

	fmt.Printf("Successfully generated %s\n", envExampleFile)
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString(sectionRule)
	content.WriteString("# moodsync Configuration\n")
	content.WriteString(sectionRule)
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	fmt.Fprintf(&content, "# Format: %s_<SETTING>=value\n", envPrefix)
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	for _, section := range envSections {
		writeEnvSection(&content, cmd, section)
	}

	return content.String()
}

func writeEnvSection(content *strings.Builder, cmd *cobra.Command, section envSection) {
	content.WriteString(sectionRule)
	fmt.Fprintf(content, "# %s\n", section.title)
	content.WriteString(sectionRule)
	if section.note != "" {
		fmt.Fprintf(content, "# %s\n", section.note)
	}

	flags := make([]string, 0, len(section.keys))
	for _, key := range section.keys {
		flags = append(flags, "--"+key.flag)
	}
	fmt.Fprintf(content, "# CLI: %s\n\n", strings.Join(flags, ", "))

	for _, key := range section.keys {
		defaultValue := getDefaultValueString(cmd, key.flag)
		value := defaultValue
		if key.example != "" || value == "" {
			value = key.example
		}

		line := fmt.Sprintf("%s=%s", flagToEnvVar(key.flag), value)
		if value == "" {
			line = "# " + line
		}
		if defaultValue != "" {
			fmt.Fprintf(content, "%-50s # %s (default: %s)\n", line, key.comment, defaultValue)
		} else {
			fmt.Fprintf(content, "%-50s # %s\n", line, key.comment)
		}
	}
	content.WriteString("\n")
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	if f := cmd.Root().PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}
