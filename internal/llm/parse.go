package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"moodsync/internal/core"
	"moodsync/pkg/text"
)

var (
	errNoPayload      = errors.New("no object or list in reply")
	errUnexpectedType = errors.New("reply is neither an object nor a list")
	errMissingWords   = errors.New(`reply object has no "words" key`)
	errPartialRecord  = errors.New("reply object is neither a word list nor a complete mood record")
)

var recordNumericKeys = []string{"valence", "energy", "danceability", "number_of_tracks"}

var replyParser = text.NewParser()

// ParseMoodReply turns a model reply into a MoodResult. JSON and Python-style
// literals are both accepted; the text is never evaluated. A bare list or an
// object holding only "words" is a word list; an object with the four numeric
// fields plus "words" is a mood record. Everything else is a *core.ParseError.
func ParseMoodReply(stage, reply string) (core.MoodResult, error) {
	fail := func(err error) (core.MoodResult, error) {
		return core.MoodResult{}, &core.ParseError{Stage: stage, Content: reply, Err: err}
	}

	raw, err := decodeFirstPayload(reply)
	if err != nil {
		return fail(err)
	}

	switch v := raw.(type) {
	case []interface{}:
		words, err := toWords(v)
		if err != nil {
			return fail(err)
		}
		return core.MoodResult{Kind: core.MoodResultWordList, Words: words}, nil

	case map[string]interface{}:
		rawWords, ok := v["words"]
		if !ok {
			return fail(errMissingWords)
		}
		list, ok := rawWords.([]interface{})
		if !ok {
			return fail(fmt.Errorf(`"words" is %T, want a list`, rawWords))
		}
		words, err := toWords(list)
		if err != nil {
			return fail(err)
		}

		if len(v) == 1 {
			return core.MoodResult{Kind: core.MoodResultWordList, Words: words}, nil
		}

		record, err := toRecord(v, words)
		if err != nil {
			return fail(err)
		}
		return core.MoodResult{Kind: core.MoodResultRecord, Words: words, Record: record}, nil

	default:
		return fail(errUnexpectedType)
	}
}

// decodeFirstPayload decodes the first literal in reply that converts to
// JSON. Bracketed prose before the payload is passed over; when nothing
// decodes, the first candidate's error is returned.
func decodeFirstPayload(reply string) (interface{}, error) {
	payloads := replyParser.Payloads(reply)
	if len(payloads) == 0 {
		return nil, errNoPayload
	}

	var firstErr error
	for _, payload := range payloads {
		raw, err := decodeLiteral(payload)
		if err == nil {
			return raw, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func decodeLiteral(payload string) (interface{}, error) {
	js, err := text.LiteralToJSON(payload)
	if err != nil {
		return nil, err
	}
	var raw interface{}
	if err := json.Unmarshal([]byte(js), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func toWords(list []interface{}) (core.MoodWordSet, error) {
	if len(list) != core.MoodWordCount {
		return nil, fmt.Errorf("got %d words, want %d", len(list), core.MoodWordCount)
	}

	words := make(core.MoodWordSet, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("word %d is %T, want a string", i, item)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("word %d is empty", i)
		}
		words = append(words, s)
	}
	return words, nil
}

func toRecord(obj map[string]interface{}, words core.MoodWordSet) (*core.MoodRecord, error) {
	if len(obj) != len(recordNumericKeys)+1 {
		return nil, errPartialRecord
	}

	values := make(map[string]float64, len(recordNumericKeys))
	for _, key := range recordNumericKeys {
		raw, ok := obj[key]
		if !ok {
			return nil, errPartialRecord
		}
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("%q is %T, want a number", key, raw)
		}
		values[key] = f
	}

	tracks := values["number_of_tracks"]
	if tracks < 0 || tracks != math.Trunc(tracks) {
		return nil, fmt.Errorf("number_of_tracks %v is not a count", tracks)
	}

	return &core.MoodRecord{
		Valence:        values["valence"],
		Energy:         values["energy"],
		Danceability:   values["danceability"],
		NumberOfTracks: int(tracks),
		Words:          words,
	}, nil
}
