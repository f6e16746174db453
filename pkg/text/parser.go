// Package text cleans operator chat input and pulls structured payloads out of
// free-form model replies.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	fenceRegex      = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// NormalizeChat folds compatibility characters and collapses every run of
// whitespace, newlines included, to a single space.
func (p *Parser) NormalizeChat(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFKC.String(text)

	lines := strings.Split(text, "\n")
	var normalizedLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			normalizedLines = append(normalizedLines, line)
		}
	}

	return whitespaceRegex.ReplaceAllString(strings.Join(normalizedLines, " "), " ")
}

// ExtractPayload returns the first object or array literal in a model reply.
// The bool is false when no complete literal is present.
func (p *Parser) ExtractPayload(reply string) (string, bool) {
	payloads := p.Payloads(reply)
	if len(payloads) == 0 {
		return "", false
	}
	return payloads[0], true
}

// Payloads returns the top-level object and array literals of a model reply in
// order of appearance. A fenced code block, when present, is searched instead
// of the whole reply. Brackets are matched outside quoted strings only; a
// bracket that never closes is skipped.
func (p *Parser) Payloads(reply string) []string {
	s := strings.TrimSpace(reply)
	if m := fenceRegex.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	var payloads []string
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		if end, ok := matchBracket(s, i); ok {
			payloads = append(payloads, s[i:end+1])
			i = end
		}
	}
	return payloads
}

// matchBracket returns the index of the bracket closing s[start].
func matchBracket(s string, start int) (int, bool) {
	var open []byte
	var quote byte

	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '{':
			open = append(open, '}')
		case '[':
			open = append(open, ']')
		case '(':
			open = append(open, ')')
		case '}', ']', ')':
			if len(open) == 0 || open[len(open)-1] != c {
				return 0, false
			}
			open = open[:len(open)-1]
			if len(open) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
