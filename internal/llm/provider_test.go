package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"moodsync/internal/core"
)

// fakeClient records requests and replies with canned content.
type fakeClient struct {
	reply    string
	err      error
	requests []CompletionRequest
}

func (f *fakeClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func newTestProvider(client LLMClient) *Provider {
	config := core.DefaultConfig().LLM
	return NewProviderWithClient(&config, client, zap.NewNop())
}

func TestProvider_InferSpotifyMood(t *testing.T) {
	client := &fakeClient{
		reply: `{'valence': 0.5, 'energy': 0.25, 'danceability': 0.75, 'number_of_tracks': 4, ` +
			`'words': ['happy', 'excited', 'energetic', 'joyful', 'content', 'lively', 'upbeat', 'cheerful']}`,
	}
	provider := newTestProvider(client)

	mood := core.AggregatedMood{MeanValence: 0.5, MeanEnergy: 0.25, MeanDanceability: 0.75, TrackCount: 4}
	result, err := provider.InferSpotifyMood(context.Background(), mood)
	if err != nil {
		t.Fatalf("InferSpotifyMood() error = %v", err)
	}

	if result.Kind != core.MoodResultRecord {
		t.Errorf("Kind = %v, want %v", result.Kind, core.MoodResultRecord)
	}
	if result.Record.NumberOfTracks != 4 {
		t.Errorf("NumberOfTracks = %d, want 4", result.Record.NumberOfTracks)
	}

	if len(client.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(client.requests))
	}
	req := client.requests[0]
	wantUser := `{"valence":0.5,"energy":0.25,"danceability":0.75,"number_of_tracks":4}`
	if req.User != wantUser {
		t.Errorf("User = %s, want %s", req.User, wantUser)
	}
	if req.System != spotifyMoodPrompt {
		t.Error("System prompt is not the spotify mood prompt")
	}
	if req.SchemaName != "mood_record" || req.Schema == nil {
		t.Errorf("schema = %q/%v, want mood_record", req.SchemaName, req.Schema != nil)
	}
}

func TestProvider_InferChatMood(t *testing.T) {
	client := &fakeClient{
		reply: `["calm", "relaxed", "content", "serene", "peaceful", "mellow", "easygoing", "tranquil"]`,
	}
	provider := newTestProvider(client)

	result, err := provider.InferChatMood(context.Background(), "  taking it\n\n easy   today ")
	if err != nil {
		t.Fatalf("InferChatMood() error = %v", err)
	}
	if result.Kind != core.MoodResultWordList {
		t.Errorf("Kind = %v, want %v", result.Kind, core.MoodResultWordList)
	}
	if len(result.Words) != core.MoodWordCount {
		t.Errorf("got %d words, want %d", len(result.Words), core.MoodWordCount)
	}

	if got := client.requests[0].User; got != "taking it easy today" {
		t.Errorf("User = %q, want normalized chat", got)
	}
	if client.requests[0].SchemaName != "mood_words" {
		t.Errorf("SchemaName = %q, want mood_words", client.requests[0].SchemaName)
	}
}

func TestProvider_InferChatMood_Empty(t *testing.T) {
	client := &fakeClient{}
	provider := newTestProvider(client)

	_, err := provider.InferChatMood(context.Background(), " \n\t ")
	if !errors.Is(err, core.ErrEmptyChat) {
		t.Errorf("InferChatMood() error = %v, want ErrEmptyChat", err)
	}
	if len(client.requests) != 0 {
		t.Errorf("empty chat should not call the model, got %d requests", len(client.requests))
	}
}

func TestProvider_MalformedReply(t *testing.T) {
	provider := newTestProvider(&fakeClient{reply: "I think the user is happy."})

	_, err := provider.InferChatMood(context.Background(), "hello")
	if !errors.Is(err, core.ErrMalformedReply) {
		t.Errorf("InferChatMood() error = %v, want ErrMalformedReply", err)
	}
}

func TestProvider_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	provider := newTestProvider(&fakeClient{err: boom})

	_, err := provider.InferSpotifyMood(context.Background(), core.AggregatedMood{TrackCount: 1})
	if !errors.Is(err, boom) {
		t.Errorf("InferSpotifyMood() error = %v, want wrapped transport error", err)
	}
	if errors.Is(err, core.ErrMalformedReply) {
		t.Error("transport errors must not look like malformed replies")
	}
}

func TestProvider_JudgeSimilarity(t *testing.T) {
	client := &fakeClient{reply: "Yes"}
	provider := newTestProvider(client)

	reply, err := provider.JudgeSimilarity(context.Background(),
		core.MoodWordSet{"calm", "happy"}, core.MoodWordSet{"sad"})
	if err != nil {
		t.Fatalf("JudgeSimilarity() error = %v", err)
	}
	if reply != "Yes" {
		t.Errorf("JudgeSimilarity() = %q, want raw reply", reply)
	}

	req := client.requests[0]
	if req.Schema != nil {
		t.Error("similarity request should not ask for JSON")
	}
	want := "User Chat List: [\"calm\",\"happy\"]\nSpotify Chat List: [\"sad\"]"
	if req.User != want {
		t.Errorf("User = %q, want %q", req.User, want)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  bool
	}{
		{"OpenAI with key", "openai", "sk-test", false},
		{"OpenAI without key", "openai", "", true},
		{"Anthropic with key", "anthropic", "sk-ant", false},
		{"Anthropic without key", "anthropic", "", true},
		{"Ollama needs no key", "ollama", "", false},
		{"None", "none", "", false},
		{"Unknown", "mystery", "key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := core.DefaultConfig().LLM
			config.Provider = tt.provider
			config.APIKey = tt.apiKey

			_, err := NewProvider(&config, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProvider_NoOp(t *testing.T) {
	config := core.DefaultConfig().LLM
	config.Provider = "none"

	provider, err := NewProvider(&config, zap.NewNop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	_, err = provider.JudgeSimilarity(context.Background(), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("JudgeSimilarity() error = %v, want not configured", err)
	}
}
