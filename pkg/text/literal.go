package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrUnterminatedString = errors.New("unterminated string literal")

var literalKeywords = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
	"true":  "true",
	"false": "false",
	"null":  "null",
}

// LiteralToJSON rewrites a Python-style literal (single-quoted strings,
// True/False/None, tuples, trailing commas) into JSON. Input that is already
// JSON passes through unchanged apart from trailing commas.
func LiteralToJSON(s string) (string, error) {
	rs := []rune(s)
	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '\'' || r == '"':
			next, err := writeQuoted(&out, rs, i)
			if err != nil {
				return "", err
			}
			i = next
		case r == '(':
			out.WriteRune('[')
			i++
		case r == ')':
			out.WriteRune(']')
			i++
		case r == ',':
			// A trailing comma goes together with the whitespace before the closer.
			if closer, ok := closerAfter(rs, i+1); ok {
				i = closer
				continue
			}
			out.WriteRune(',')
			i++
		case r == '-' || r == '+' || r == '.' || unicode.IsDigit(r):
			j := i
			for j < len(rs) && isNumberRune(rs[j]) {
				j++
			}
			out.WriteString(normalizeNumber(string(rs[i:j])))
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			word := string(rs[i:j])
			kw, ok := literalKeywords[word]
			if !ok {
				return "", fmt.Errorf("unexpected identifier %q at offset %d", word, i)
			}
			out.WriteString(kw)
			i = j
		default:
			out.WriteRune(r)
			i++
		}
	}

	return out.String(), nil
}

// writeQuoted copies the string literal opening at rs[start] as a JSON string
// and returns the index just past its closing quote.
func writeQuoted(out *strings.Builder, rs []rune, start int) (int, error) {
	quote := rs[start]
	out.WriteRune('"')

	for i := start + 1; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == quote:
			out.WriteRune('"')
			return i + 1, nil
		case r == '\\':
			if i+1 >= len(rs) {
				return 0, ErrUnterminatedString
			}
			i++
			i = writeEscape(out, rs, i)
		case r == '"':
			out.WriteString(`\"`)
		case r < 0x20:
			fmt.Fprintf(out, `\u%04x`, r)
		default:
			out.WriteRune(r)
		}
	}

	return 0, ErrUnterminatedString
}

// writeEscape handles the rune after a backslash and returns the index of the
// last rune it consumed.
func writeEscape(out *strings.Builder, rs []rune, i int) int {
	switch e := rs[i]; e {
	case '\'':
		out.WriteRune('\'')
	case '"':
		out.WriteString(`\"`)
	case 'n', 't', 'r', 'b', 'f', '\\', '/':
		out.WriteRune('\\')
		out.WriteRune(e)
	case 'u':
		out.WriteString(`\u`)
	case 'x':
		if i+2 < len(rs) && isHex(rs[i+1]) && isHex(rs[i+2]) {
			out.WriteString(`\u00`)
			out.WriteRune(rs[i+1])
			out.WriteRune(rs[i+2])
			return i + 2
		}
		out.WriteString(`\\x`)
	default:
		// Unknown escapes keep their backslash.
		out.WriteString(`\\`)
		out.WriteRune(e)
	}
	return i
}

// closerAfter returns the index of the closing bracket that follows rs[i:]
// after optional whitespace.
func closerAfter(rs []rune, i int) (int, bool) {
	for ; i < len(rs); i++ {
		if unicode.IsSpace(rs[i]) {
			continue
		}
		return i, rs[i] == '}' || rs[i] == ']' || rs[i] == ')'
	}
	return 0, false
}

// normalizeNumber rewrites the number spellings Python accepts and JSON does
// not: a leading '+', a bare leading or trailing decimal point.
func normalizeNumber(tok string) string {
	sign := ""
	switch {
	case strings.HasPrefix(tok, "+"):
		tok = tok[1:]
	case strings.HasPrefix(tok, "-"):
		sign, tok = "-", tok[1:]
	}

	if strings.HasPrefix(tok, ".") {
		tok = "0" + tok
	}
	if dot := strings.IndexByte(tok, '.'); dot >= 0 && (dot+1 == len(tok) || !isDigit(tok[dot+1])) {
		tok = tok[:dot+1] + "0" + tok[dot+1:]
	}

	return sign + tok
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNumberRune(r rune) bool {
	return unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E'
}

func isHex(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
