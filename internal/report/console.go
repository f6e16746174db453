// Package report renders compare runs and listening history for the operator.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"moodsync/internal/core"
	"moodsync/internal/i18n"
)

const timeLayout = "15:04"

// Console writes reports to a terminal. It implements core.Presenter.
type Console struct {
	out       io.Writer
	localizer *i18n.Localizer
	styles    *palette
}

func NewConsole(out io.Writer, localizer *i18n.Localizer) *Console {
	return &Console{
		out:       out,
		localizer: localizer,
		styles:    newPalette(),
	}
}

// AskChat prompts until the operator enters a non-blank line.
func (c *Console) AskChat(in *bufio.Reader) (string, error) {
	for {
		c.println(c.styles.title.Render(c.localizer.T("prompt.chat_input")))

		line, err := in.ReadString('\n')
		if text := strings.TrimSpace(line); text != "" {
			return text, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", core.ErrEmptyChat
			}
			return "", fmt.Errorf("failed to read chat text: %w", err)
		}

		c.println(c.styles.warn.Render(c.localizer.T("prompt.chat_empty")))
	}
}

// ShowMoods prints both word lists side by side.
func (c *Console) ShowMoods(spotify *core.SpotifyMood, chatWords core.MoodWordSet) {
	var spotifyWords core.MoodWordSet
	if spotify != nil {
		spotifyWords = spotify.Result.Words
	}

	table := tablewriter.NewWriter(c.out)
	table.Header(c.localizer.T("report.header.spotify"), c.localizer.T("report.header.chat"))

	rows := len(spotifyWords)
	if len(chatWords) > rows {
		rows = len(chatWords)
	}
	for i := 0; i < rows; i++ {
		_ = table.Append([]string{wordAt(spotifyWords, i), wordAt(chatWords, i)})
	}
	_ = table.Render()

	if spotify != nil {
		agg := spotify.Aggregate
		c.println(c.styles.muted.Render(c.localizer.T("report.aggregate",
			agg.TrackCount, agg.MeanValence, agg.MeanEnergy, agg.MeanDanceability)))
	}
}

func (c *Console) ShowVerdict(verdict *core.Verdict, cosine float64) {
	if verdict.Similar {
		c.println(c.styles.similar.Render(c.localizer.T("report.verdict.similar")))
	} else {
		c.println(c.styles.differ.Render(c.localizer.T("report.verdict.different")))
	}
	c.println(c.styles.muted.Render(c.localizer.T("report.strategy", verdict.Strategy)))
	c.println(c.localizer.T("report.cosine", cosine))
}

// ShowSkipped prints a localized hint for err followed by the raw detail.
func (c *Console) ShowSkipped(step string, err error) {
	c.println(c.styles.warn.Render(c.localizer.T(skipMessageKey(err))))
	c.println(c.styles.muted.Render(c.localizer.T("report.skipped", fmt.Sprintf("%s: %v", step, err))))
}

func skipMessageKey(err error) string {
	switch {
	case errors.Is(err, core.ErrNoTracks):
		return "error.no_tracks"
	case errors.Is(err, core.ErrMalformedReply):
		return "error.llm_reply"
	default:
		return "error.generic"
	}
}

// ShowTracks prints today's tracks with their audio features.
func (c *Console) ShowTracks(records []core.TrackFeatureRecord) {
	if len(records) == 0 {
		c.println(c.localizer.T("tracks.empty"))
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header(
		c.localizer.T("tracks.header.played"),
		c.localizer.T("tracks.header.track"),
		c.localizer.T("tracks.header.artist"),
		c.localizer.T("tracks.header.valence"),
		c.localizer.T("tracks.header.energy"),
		c.localizer.T("tracks.header.danceability"),
	)
	for i := range records {
		r := &records[i]
		played := ""
		if !r.PlayedAt.IsZero() {
			played = r.PlayedAt.Local().Format(timeLayout)
		}
		_ = table.Append([]string{
			played,
			r.TrackName,
			r.ArtistName,
			formatScore(r.Valence),
			formatScore(r.Energy),
			formatScore(r.Danceability),
		})
	}
	_ = table.Render()
}

func (c *Console) println(line string) {
	_, _ = fmt.Fprintln(c.out, line)
}

func wordAt(words core.MoodWordSet, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
