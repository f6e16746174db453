package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"moodsync/pkg/fuzzy"
)

// Orchestrator drives one compare-and-contrast run. Each step is an
// independent call; Run decides after every step whether to go on.
type Orchestrator struct {
	moods      MoodSource
	comparator Comparator
	presenter  Presenter
	logger     *zap.Logger
}

func NewOrchestrator(moods MoodSource, comparator Comparator, presenter Presenter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		moods:      moods,
		comparator: comparator,
		presenter:  presenter,
		logger:     logger,
	}
}

// Run compares the operator's chat text against today's listening mood.
// Malformed model replies, an empty listening history and any comparator
// failure end the run with report.Skipped set and a nil error; everything
// else is returned.
func (o *Orchestrator) Run(ctx context.Context, chat string) (*Report, error) {
	if strings.TrimSpace(chat) == "" {
		return nil, ErrEmptyChat
	}

	report := &Report{Chat: chat}

	spotifyMood, err := o.moods.SpotifyMood(ctx)
	if err != nil {
		return o.skipOrFail(report, "spotify mood", err)
	}
	report.Spotify = spotifyMood

	chatWords, err := o.moods.ChatMood(ctx, chat)
	if err != nil {
		return o.skipOrFail(report, "chat mood", err)
	}
	report.ChatWords = chatWords

	o.presenter.ShowMoods(spotifyMood, chatWords)

	report.Cosine = fuzzy.CosineSimilarity(chatWords, spotifyMood.Result.Words)

	// Both moods are already on screen; only cancellation fails the run here.
	verdict, err := o.comparator.Compare(ctx, chatWords, spotifyMood.Result.Words)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("comparison: %w", err)
		}
		return o.skip(report, "comparison", err), nil
	}
	report.Verdict = verdict

	o.logger.Info("Compare run completed",
		zap.String("strategy", verdict.Strategy),
		zap.Bool("similar", verdict.Similar),
		zap.Float64("cosine", report.Cosine))

	o.presenter.ShowVerdict(verdict, report.Cosine)
	return report, nil
}

func (o *Orchestrator) skipOrFail(report *Report, step string, err error) (*Report, error) {
	if !IsRecoverable(err) {
		return nil, fmt.Errorf("%s: %w", step, err)
	}
	return o.skip(report, step, err), nil
}

func (o *Orchestrator) skip(report *Report, step string, err error) *Report {
	o.logger.Warn("Skipping comparison", zap.String("step", step), zap.Error(err))
	report.Skipped = fmt.Sprintf("%s: %v", step, err)
	o.presenter.ShowSkipped(step, err)
	return report
}
