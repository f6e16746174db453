package text

import (
	"encoding/json"
	"errors"
	"testing"
)

// runStringTransformationTest is a helper to run tests for string transformation functions.
func runStringTransformationTest(t *testing.T, testName string,
	transformFunc func(string) string, testCases []struct {
		name     string
		input    string
		expected string
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := transformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", testName, result, tt.expected)
			}
		})
	}
}

func TestParser_NormalizeChat(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain sentence",
			input:    "I had a great day!",
			expected: "I had a great day!",
		},
		{
			name:     "Multiline message",
			input:    "  feeling tired\n\n   but hopeful  \n",
			expected: "feeling tired but hopeful",
		},
		{
			name:     "Tabs and repeated spaces",
			input:    "so\t\tmuch   to  do",
			expected: "so much to do",
		},
		{
			name:     "Full-width characters folded",
			input:    "ｈｅｌｌｏ",
			expected: "hello",
		},
		{
			name:     "Empty",
			input:    "   \n\t",
			expected: "",
		},
	}

	runStringTransformationTest(t, "NormalizeChat", parser.NormalizeChat, tests)
}

func TestParser_ExtractPayload(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "Bare object",
			input:    `{"words": ["calm"]}`,
			expected: `{"words": ["calm"]}`,
			ok:       true,
		},
		{
			name:     "Bare list",
			input:    `['happy', 'sad']`,
			expected: `['happy', 'sad']`,
			ok:       true,
		},
		{
			name:     "Fenced json block",
			input:    "Sure!\n```json\n{\"words\": [\"calm\"]}\n```\nHope that helps.",
			expected: `{"words": ["calm"]}`,
			ok:       true,
		},
		{
			name:     "Prose around object",
			input:    `Here is the mood: {'valence': 0.5} as requested.`,
			expected: `{'valence': 0.5}`,
			ok:       true,
		},
		{
			name:     "Object with nested list",
			input:    `{'words': ['a', 'b']}`,
			expected: `{'words': ['a', 'b']}`,
			ok:       true,
		},
		{
			name:     "Bracketed prose before object",
			input:    `Sure [note]: {"words": ["calm"]}`,
			expected: `[note]`,
			ok:       true,
		},
		{
			name:     "Apostrophe inside bracketed prose",
			input:    "[here's the result]:\n{'words': ['a']}",
			expected: `{'words': ['a']}`,
			ok:       true,
		},
		{
			name:  "No literal",
			input: "I cannot determine a mood.",
			ok:    false,
		},
		{
			name:  "Unclosed object",
			input: "{'valence': 0.5",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ExtractPayload(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractPayload() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("ExtractPayload() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParser_Payloads(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Single object",
			input:    `{'a': 1}`,
			expected: []string{`{'a': 1}`},
		},
		{
			name:     "Bracketed prose then object",
			input:    `Sure [note]: {"words": ["a", "b"]}`,
			expected: []string{`[note]`, `{"words": ["a", "b"]}`},
		},
		{
			name:     "Unclosed bracket is skipped",
			input:    `[draft {"words": ["a"]}`,
			expected: []string{`{"words": ["a"]}`},
		},
		{
			name:     "Closing bracket inside a string",
			input:    `{"words": ["a]"]} and [1, 2]`,
			expected: []string{`{"words": ["a]"]}`, `[1, 2]`},
		},
		{
			name:  "Mismatched closer",
			input: `{'a': [1}`,
		},
		{
			name:     "Fenced block only",
			input:    "[intro]\n```\n[1]\n```",
			expected: []string{`[1]`},
		},
		{
			name:  "Nothing",
			input: "no literal here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Payloads(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("Payloads() = %q, want %q", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Payloads()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLiteralToJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Single quoted record",
			input:    `{'valence': 0.62, 'energy': 0.71, 'words': ['happy', 'calm']}`,
			expected: `{"valence": 0.62, "energy": 0.71, "words": ["happy", "calm"]}`,
		},
		{
			name:     "Already JSON",
			input:    `{"words": ["a", "b"], "n": 3}`,
			expected: `{"words": ["a", "b"], "n": 3}`,
		},
		{
			name:     "Python keywords",
			input:    `{'a': True, 'b': False, 'c': None}`,
			expected: `{"a": true, "b": false, "c": null}`,
		},
		{
			name:     "Trailing commas",
			input:    `['happy', 'calm', ]`,
			expected: `["happy", "calm"]`,
		},
		{
			name:     "Tuple becomes list",
			input:    `('happy', 'sad')`,
			expected: `["happy", "sad"]`,
		},
		{
			name:     "Apostrophe inside double quotes",
			input:    `["it's fine"]`,
			expected: `["it's fine"]`,
		},
		{
			name:     "Escaped single quote",
			input:    `['don\'t']`,
			expected: `["don't"]`,
		},
		{
			name:     "Double quote inside single quotes",
			input:    `['say "hi"']`,
			expected: `["say \"hi\""]`,
		},
		{
			name:     "Trailing comma before newline",
			input:    "{'words': ['a'],\n}",
			expected: `{"words": ["a"]}`,
		},
		{
			name:     "Python number spellings",
			input:    `{'a': .5, 'b': 5., 'c': +0.5, 'd': -.25, 'e': 5.e3}`,
			expected: `{"a": 0.5, "b": 5.0, "c": 0.5, "d": -0.25, "e": 5.0e3}`,
		},
		{
			name:     "Exponent and negative numbers",
			input:    `{'tempo': 1.2e2, 'loudness': -5.5}`,
			expected: `{"tempo": 1.2e2, "loudness": -5.5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LiteralToJSON(tt.input)
			if err != nil {
				t.Fatalf("LiteralToJSON() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("LiteralToJSON() = %q, want %q", got, tt.expected)
			}
			if !json.Valid([]byte(got)) {
				t.Errorf("LiteralToJSON() produced invalid JSON: %s", got)
			}
		})
	}
}

func TestLiteralToJSON_Errors(t *testing.T) {
	if _, err := LiteralToJSON(`['happy`); !errors.Is(err, ErrUnterminatedString) {
		t.Errorf("LiteralToJSON(unterminated) error = %v, want ErrUnterminatedString", err)
	}

	if _, err := LiteralToJSON(`{'words': happy}`); err == nil {
		t.Error("LiteralToJSON(bare identifier) should fail")
	}
}
