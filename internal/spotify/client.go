// Package spotify reads a user's listening history and audio features from the
// Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"moodsync/internal/core"
)

const (
	// RecentlyPlayedLimit is the page size Spotify allows for recently played tracks.
	RecentlyPlayedLimit = 50
	// UnknownArtist is the default value when artist name is not available
	UnknownArtist = "Unknown"

	// apiRequestsPerSecond paces Web API calls across all requests served by one Fetcher.
	apiRequestsPerSecond = 10
	apiBurst             = 5
)

// ClientFactory returns an authenticated API client for a set of credentials.
type ClientFactory func(ctx context.Context, creds core.SpotifyCredentials) (*spotify.Client, error)

// Fetcher implements core.ListeningHistory against the Spotify Web API.
type Fetcher struct {
	clients ClientFactory
	logger  *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

func NewFetcher(auth *Authenticator, logger *zap.Logger) *Fetcher {
	return NewFetcherWithFactory(auth.Client, logger)
}

func NewFetcherWithFactory(clients ClientFactory, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		clients: clients,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(apiRequestsPerSecond), apiBurst),
		now:     time.Now,
	}
}

// FetchTodayFeatures returns the tracks played since local midnight together
// with their audio features, in the order Spotify reports them. Tracks that
// have no audio features are skipped.
func (f *Fetcher) FetchTodayFeatures(ctx context.Context, creds core.SpotifyCredentials) ([]core.TrackFeatureRecord, error) {
	client, err := f.clients(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("spotify authentication failed: %w", err)
	}

	midnight := localMidnight(f.now())

	var items []spotify.RecentlyPlayedItem
	err = f.call(ctx, "recently played", func() error {
		var callErr error
		items, callErr = client.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{
			Limit:        RecentlyPlayedLimit,
			AfterEpochMs: midnight.UnixMilli(),
		})
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get recently played tracks: %w", err)
	}

	records := make([]core.TrackFeatureRecord, 0, len(items))
	if len(items) == 0 {
		f.logger.Info("No tracks played today", zap.Time("since", midnight))
		return records, nil
	}

	ids := make([]spotify.ID, len(items))
	for i := range items {
		ids[i] = items[i].Track.ID
	}

	var features []*spotify.AudioFeatures
	err = f.call(ctx, "audio features", func() error {
		var callErr error
		features, callErr = client.GetAudioFeatures(ctx, ids...)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get audio features: %w", err)
	}
	if len(features) != len(ids) {
		return nil, fmt.Errorf("audio features returned %d entries for %d tracks", len(features), len(ids))
	}

	for i := range items {
		item := &items[i]
		feat := features[i]
		if feat == nil {
			f.logger.Warn("No audio features for track, skipping",
				zap.String("track_id", item.Track.ID.String()),
				zap.String("track", item.Track.Name))
			continue
		}
		records = append(records, convertTrack(item, feat))
	}

	f.logger.Debug("Fetched today's tracks",
		zap.Int("played", len(items)),
		zap.Int("with_features", len(records)))

	return records, nil
}

// call runs one Web API request once the limiter admits it. Upstream errors,
// rate limiting included, are returned as is.
func (f *Fetcher) call(ctx context.Context, op string, fn func() error) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fn()
}

func convertTrack(item *spotify.RecentlyPlayedItem, feat *spotify.AudioFeatures) core.TrackFeatureRecord {
	artist := UnknownArtist
	if len(item.Track.Artists) > 0 {
		artist = item.Track.Artists[0].Name
	}

	return core.TrackFeatureRecord{
		SpotifyID:        item.Track.ID.String(),
		TrackName:        item.Track.Name,
		ArtistName:       artist,
		Valence:          float64(feat.Valence),
		Energy:           float64(feat.Energy),
		Danceability:     float64(feat.Danceability),
		Acousticness:     float64(feat.Acousticness),
		Instrumentalness: float64(feat.Instrumentalness),
		Tempo:            float64(feat.Tempo),
		PlayedAt:         item.PlayedAt,
	}
}

func localMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
