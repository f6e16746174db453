package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"moodsync/internal/core"
)

const (
	defaultOllamaModel   = "llama3.2"
	defaultOllamaBaseURL = "http://localhost:11434"
	ollamaTimeout        = 60 * time.Second
	// ollamaErrorBodyLimit bounds how much of a failed response ends up in the error.
	ollamaErrorBodyLimit = 512
)

// OllamaClient talks to a local Ollama server through its chat endpoint.
type OllamaClient struct {
	config     *core.LLMConfig
	logger     *zap.Logger
	httpClient *http.Client
	chatURL    string
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	// Format is either "json" or a JSON schema object.
	Format  interface{}   `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

func NewOllamaClient(config *core.LLMConfig, logger *zap.Logger) (*OllamaClient, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	return &OllamaClient{
		config:     config,
		logger:     logger,
		httpClient: &http.Client{Timeout: ollamaTimeout},
		chatURL:    strings.TrimRight(baseURL, "/") + "/api/chat",
	}, nil
}

// Complete sends the system and user turns as one non-streaming chat. A
// schema is passed as the response format when structured output is on;
// otherwise plain JSON mode is requested.
func (o *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := o.config.Model
	if model == "" {
		model = defaultOllamaModel
	}

	chat := ollamaChatRequest{
		Model: model,
		Options: ollamaOptions{
			Temperature: o.config.Temperature,
			NumPredict:  maxTokens(o.config),
		},
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, ollamaMessage{Role: "system", Content: req.System})
	}
	chat.Messages = append(chat.Messages, ollamaMessage{Role: "user", Content: req.User})

	if req.Schema != nil {
		chat.Format = "json"
		if o.config.StructuredOutput {
			chat.Format = req.Schema
		}
	}

	payload, err := json.Marshal(chat)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.chatURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create Ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Ollama API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, ollamaErrorBodyLimit))
		return "", fmt.Errorf("Ollama API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var reply ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode Ollama response: %w", err)
	}
	if reply.Error != "" {
		return "", fmt.Errorf("Ollama error: %s", reply.Error)
	}

	o.logger.Debug("Ollama response received",
		zap.String("model", model),
		zap.Bool("done", reply.Done),
		zap.String("content", reply.Message.Content))

	return reply.Message.Content, nil
}
