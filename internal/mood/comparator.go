package mood

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"moodsync/internal/core"
	"moodsync/pkg/fuzzy"
)

// affirmative is matched case-sensitively anywhere in the model's answer.
const affirmative = "Yes"

// NewComparator returns the comparator selected by config.Strategy.
func NewComparator(config *core.CompareConfig, llm core.LLMProvider, logger *zap.Logger) (core.Comparator, error) {
	switch config.Strategy {
	case core.CompareStrategyLLM, "":
		return NewLLMComparator(llm, logger), nil
	case core.CompareStrategyCosine:
		return NewCosineComparator(config.CosineThreshold), nil
	default:
		return nil, fmt.Errorf("unsupported compare strategy: %s", config.Strategy)
	}
}

// LLMComparator lets the language model judge similarity.
type LLMComparator struct {
	llm    core.LLMProvider
	logger *zap.Logger
}

func NewLLMComparator(llm core.LLMProvider, logger *zap.Logger) *LLMComparator {
	return &LLMComparator{llm: llm, logger: logger}
}

func (c *LLMComparator) Compare(ctx context.Context, chatWords, spotifyWords core.MoodWordSet) (*core.Verdict, error) {
	reply, err := c.llm.JudgeSimilarity(ctx, chatWords, spotifyWords)
	if err != nil {
		return nil, err
	}

	verdict := &core.Verdict{
		Similar:  IsAffirmative(reply),
		Strategy: core.CompareStrategyLLM,
		Reply:    reply,
	}

	c.logger.Debug("Similarity judged",
		zap.String("reply", reply),
		zap.Bool("similar", verdict.Similar))

	return verdict, nil
}

// IsAffirmative reports whether reply contains "Yes". Words such as
// "Yesterday" also match.
func IsAffirmative(reply string) bool {
	return strings.Contains(reply, affirmative)
}

// CosineComparator compares word lists by cosine similarity of their word counts.
type CosineComparator struct {
	threshold float64
}

func NewCosineComparator(threshold float64) *CosineComparator {
	return &CosineComparator{threshold: threshold}
}

// Compare reports the lists as similar when the score is strictly above the threshold.
func (c *CosineComparator) Compare(_ context.Context, chatWords, spotifyWords core.MoodWordSet) (*core.Verdict, error) {
	score := fuzzy.CosineSimilarity(chatWords, spotifyWords)
	return &core.Verdict{
		Similar:  score > c.threshold,
		Strategy: core.CompareStrategyCosine,
		Score:    score,
	}, nil
}
