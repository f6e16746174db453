package mood

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"moodsync/internal/core"
)

// Service implements core.MoodSource for one set of Spotify credentials.
type Service struct {
	history core.ListeningHistory
	llm     core.LLMProvider
	creds   core.SpotifyCredentials
	logger  *zap.Logger
}

func NewService(history core.ListeningHistory, llm core.LLMProvider, creds core.SpotifyCredentials, logger *zap.Logger) *Service {
	return &Service{
		history: history,
		llm:     llm,
		creds:   creds,
		logger:  logger,
	}
}

// SpotifyMood fetches today's tracks, aggregates them and asks the model for
// the matching emotion words.
func (s *Service) SpotifyMood(ctx context.Context) (*core.SpotifyMood, error) {
	records, err := s.history.FetchTodayFeatures(ctx, s.creds)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listening history: %w", err)
	}

	aggregate, err := Aggregate(records)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Listening history aggregated",
		zap.Int("tracks", aggregate.TrackCount),
		zap.Float64("valence", aggregate.MeanValence),
		zap.Float64("energy", aggregate.MeanEnergy),
		zap.Float64("danceability", aggregate.MeanDanceability))

	result, err := s.llm.InferSpotifyMood(ctx, aggregate)
	if err != nil {
		return nil, err
	}

	switch {
	case result.Kind != core.MoodResultRecord:
		s.logger.Warn("Spotify mood reply is not a mood record, using its words",
			zap.Stringer("kind", result.Kind))
	case result.Record.NumberOfTracks != aggregate.TrackCount:
		s.logger.Warn("Spotify mood reply changed the track count",
			zap.Int("sent", aggregate.TrackCount),
			zap.Int("echoed", result.Record.NumberOfTracks))
	}

	return &core.SpotifyMood{Aggregate: aggregate, Result: result}, nil
}

// ChatMood asks the model for the emotion words of chat.
func (s *Service) ChatMood(ctx context.Context, chat string) (core.MoodWordSet, error) {
	result, err := s.llm.InferChatMood(ctx, chat)
	if err != nil {
		return nil, err
	}
	return result.Words, nil
}
