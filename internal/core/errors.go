package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTracks is returned when there is no listening history to aggregate.
	ErrNoTracks = errors.New("no tracks played today")
	// ErrEmptyChat is returned for blank chat input.
	ErrEmptyChat = errors.New("empty chat text")
	// ErrMalformedReply matches every *ParseError.
	ErrMalformedReply = errors.New("malformed model reply")
	// ErrNotAuthenticated is returned when Spotify rejects a freshly authorized token.
	ErrNotAuthenticated = errors.New("spotify client not authenticated")
)

// ParseError reports a model reply that could not be turned into a MoodResult.
type ParseError struct {
	Stage   string
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s reply: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedReply, e.Err}
}

// IsRecoverable reports whether err should end a compare run quietly rather
// than fail it.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMalformedReply) || errors.Is(err, ErrNoTracks)
}
