// Package i18n localizes the operator-facing console text of the compare report.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	// DefaultLanguage is the fallback language when no translation is available
	DefaultLanguage = "en"
	// BerneseGermanMessages is a Swiss Dialect spoken in the Canton of Bern
	BerneseGermanMessages = "ch_be"
)

// catalog pairs a language code with the BCP 47 tag that selects it.
type catalog struct {
	code     string
	tag      language.Tag
	messages map[string]string
}

// catalogs is ordered; the first entry is the matcher's fallback.
var catalogs = []catalog{
	{code: DefaultLanguage, tag: language.English, messages: englishMessages},
	{code: BerneseGermanMessages, tag: language.MustParse("gsw-CH"), messages: berneseGermanMessages},
}

var matcher = language.NewMatcher(catalogTags())

func catalogTags() []language.Tag {
	tags := make([]language.Tag, len(catalogs))
	for i, c := range catalogs {
		tags[i] = c.tag
	}
	return tags
}

// Localizer renders message keys in one language.
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a localizer for lang, given either as a catalog
// code ("ch_be") or a BCP 47 tag ("gsw-CH", "en-GB"). Unknown languages use
// English.
func NewLocalizer(lang string) *Localizer {
	c, ok := resolve(lang)
	if !ok {
		c = catalogs[0]
	}
	return &Localizer{language: c.code, messages: c.messages}
}

// Language returns the catalog code the localizer resolved to.
func (l *Localizer) Language() string {
	return l.language
}

// T looks up key, falling back to English and then to the key itself.
func (l *Localizer) T(key string, args ...interface{}) string {
	message, ok := l.messages[key]
	if !ok {
		message, ok = englishMessages[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

// GetSupportedLanguages returns the catalog codes in fallback order.
func GetSupportedLanguages() []string {
	codes := make([]string, len(catalogs))
	for i, c := range catalogs {
		codes[i] = c.code
	}
	return codes
}

// IsSupported reports whether lang selects a catalog of its own.
func IsSupported(lang string) bool {
	_, ok := resolve(lang)
	return ok
}

func resolve(lang string) (catalog, bool) {
	code := strings.ToLower(strings.TrimSpace(lang))
	for _, c := range catalogs {
		if c.code == code {
			return c, true
		}
	}

	tag, err := language.Parse(code)
	if err != nil {
		return catalog{}, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return catalog{}, false
	}
	return catalogs[index], true
}
