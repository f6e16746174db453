package core

import (
	"context"
	"time"
)

// MoodWordCount is the number of emotion words every mood carries.
const MoodWordCount = 8

// TrackFeatureRecord is one recently played track with its audio-feature scores.
type TrackFeatureRecord struct {
	SpotifyID        string    `json:"spotify_identifier"`
	TrackName        string    `json:"track_name"`
	ArtistName       string    `json:"artist_name"`
	Valence          float64   `json:"valence"`
	Energy           float64   `json:"energy"`
	Danceability     float64   `json:"danceability"`
	Acousticness     float64   `json:"acousticness"`
	Instrumentalness float64   `json:"instrumentalness"`
	Tempo            float64   `json:"tempo"`
	PlayedAt         time.Time `json:"played_at"`
}

// AggregatedMood summarizes a day of listening. The JSON names are the ones
// the mood prompt asks the model to echo back.
type AggregatedMood struct {
	MeanValence      float64 `json:"valence"`
	MeanEnergy       float64 `json:"energy"`
	MeanDanceability float64 `json:"danceability"`
	TrackCount       int     `json:"number_of_tracks"`
}

// MoodWordSet is an ordered list of emotion words.
type MoodWordSet []string

type MoodResultKind int

const (
	// MoodResultWordList is a bare list of emotion words
	MoodResultWordList MoodResultKind = iota
	// MoodResultRecord is a list of emotion words plus the numeric inputs it was derived from
	MoodResultRecord
)

func (k MoodResultKind) String() string {
	switch k {
	case MoodResultWordList:
		return "word_list"
	case MoodResultRecord:
		return "mood_record"
	default:
		return "unknown"
	}
}

// MoodRecord is the model's echo of an AggregatedMood together with its words.
type MoodRecord struct {
	Valence        float64
	Energy         float64
	Danceability   float64
	NumberOfTracks int
	Words          MoodWordSet
}

// MoodResult is a parsed model reply. Words is always set; Record only for
// MoodResultRecord.
type MoodResult struct {
	Kind   MoodResultKind
	Words  MoodWordSet
	Record *MoodRecord
}

// SpotifyMood pairs the listening aggregate with the mood inferred from it.
type SpotifyMood struct {
	Aggregate AggregatedMood
	Result    MoodResult
}

// Verdict is the outcome of comparing two moods.
type Verdict struct {
	Similar  bool
	Strategy string
	Score    float64
	Reply    string
}

// Report collects everything one compare run produced.
type Report struct {
	Chat      string
	Spotify   *SpotifyMood
	ChatWords MoodWordSet
	Cosine    float64
	Verdict   *Verdict
	Skipped   string
}

type SpotifyCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ListeningHistory fetches today's tracks with their audio features.
type ListeningHistory interface {
	FetchTodayFeatures(ctx context.Context, creds SpotifyCredentials) ([]TrackFeatureRecord, error)
}

type LLMProvider interface {
	InferSpotifyMood(ctx context.Context, mood AggregatedMood) (MoodResult, error)
	InferChatMood(ctx context.Context, chat string) (MoodResult, error)
	JudgeSimilarity(ctx context.Context, chatWords, spotifyWords MoodWordSet) (string, error)
}

// MoodSource produces both sides of a comparison.
type MoodSource interface {
	SpotifyMood(ctx context.Context) (*SpotifyMood, error)
	ChatMood(ctx context.Context, chat string) (MoodWordSet, error)
}

type Comparator interface {
	Compare(ctx context.Context, chatWords, spotifyWords MoodWordSet) (*Verdict, error)
}

// Presenter renders orchestration progress to the operator.
type Presenter interface {
	ShowMoods(spotify *SpotifyMood, chatWords MoodWordSet)
	ShowVerdict(verdict *Verdict, cosine float64)
	// ShowSkipped reports a comparison abandoned at step because of err.
	ShowSkipped(step string, err error)
}
