package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"moodsync/internal/core"
	"moodsync/pkg/text"
)

const (
	stageSpotifyMood = "spotify mood"
	stageChatMood    = "chat mood"
)

type Provider struct {
	config *core.LLMConfig
	logger *zap.Logger
	client LLMClient
	parser *text.Parser
}

// CompletionRequest is one system+user exchange. Schema, when set, marks the
// reply as JSON; vendors that support it constrain the reply to the schema.
type CompletionRequest struct {
	System     string
	User       string
	Schema     map[string]interface{}
	SchemaName string
}

type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

func NewProvider(config *core.LLMConfig, logger *zap.Logger) (*Provider, error) {
	var client LLMClient
	var err error

	switch config.Provider {
	case "openai":
		client, err = NewOpenAIClient(config, logger)
	case "anthropic":
		client, err = NewAnthropicClient(config, logger)
	case "ollama":
		client, err = NewOllamaClient(config, logger)
	case "none", "":
		client = &NoOpClient{}
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", config.Provider, err)
	}

	return NewProviderWithClient(config, client, logger), nil
}

// NewProviderWithClient wires an existing vendor client.
func NewProviderWithClient(config *core.LLMConfig, client LLMClient, logger *zap.Logger) *Provider {
	return &Provider{
		config: config,
		logger: logger,
		client: client,
		parser: text.NewParser(),
	}
}

// InferSpotifyMood asks the model for eight emotion words describing a day of
// listening. The reply normally echoes the aggregate as a MoodRecord.
func (p *Provider) InferSpotifyMood(ctx context.Context, mood core.AggregatedMood) (core.MoodResult, error) {
	payload, err := json.Marshal(mood)
	if err != nil {
		return core.MoodResult{}, fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	p.logger.Debug("Requesting spotify mood", zap.ByteString("aggregate", payload))

	reply, err := p.client.Complete(ctx, CompletionRequest{
		System:     spotifyMoodPrompt,
		User:       string(payload),
		Schema:     moodRecordSchema,
		SchemaName: "mood_record",
	})
	if err != nil {
		return core.MoodResult{}, fmt.Errorf("spotify mood completion failed: %w", err)
	}

	return p.parse(stageSpotifyMood, reply)
}

// InferChatMood asks the model for eight emotion words describing chat text.
func (p *Provider) InferChatMood(ctx context.Context, chat string) (core.MoodResult, error) {
	chat = p.parser.NormalizeChat(chat)
	if chat == "" {
		return core.MoodResult{}, core.ErrEmptyChat
	}

	reply, err := p.client.Complete(ctx, CompletionRequest{
		System:     chatMoodPrompt,
		User:       chat,
		Schema:     wordListSchema,
		SchemaName: "mood_words",
	})
	if err != nil {
		return core.MoodResult{}, fmt.Errorf("chat mood completion failed: %w", err)
	}

	return p.parse(stageChatMood, reply)
}

// JudgeSimilarity returns the model's raw Yes/No answer on whether two word
// lists describe the same mood.
func (p *Provider) JudgeSimilarity(ctx context.Context, chatWords, spotifyWords core.MoodWordSet) (string, error) {
	reply, err := p.client.Complete(ctx, CompletionRequest{
		System: contrastPrompt,
		User:   renderContrast(chatWords, spotifyWords),
	})
	if err != nil {
		return "", fmt.Errorf("similarity completion failed: %w", err)
	}

	p.logger.Debug("Similarity reply received", zap.String("reply", reply))
	return reply, nil
}

func (p *Provider) parse(stage, reply string) (core.MoodResult, error) {
	result, err := ParseMoodReply(stage, reply)
	if err != nil {
		p.logger.Warn("Failed to parse model reply",
			zap.String("stage", stage),
			zap.String("content", reply),
			zap.Error(err))
		return core.MoodResult{}, err
	}

	p.logger.Debug("Model reply parsed",
		zap.String("stage", stage),
		zap.Stringer("kind", result.Kind),
		zap.Strings("words", result.Words))
	return result, nil
}

type NoOpClient struct{}

func (n *NoOpClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return "", fmt.Errorf("LLM provider not configured")
}
