// Package mood derives moods from listening history and chat text and decides
// whether two moods agree.
package mood

import (
	"moodsync/internal/core"
)

// Aggregate averages valence, energy and danceability over records.
func Aggregate(records []core.TrackFeatureRecord) (core.AggregatedMood, error) {
	if len(records) == 0 {
		return core.AggregatedMood{}, core.ErrNoTracks
	}

	var valence, energy, danceability float64
	for i := range records {
		valence += records[i].Valence
		energy += records[i].Energy
		danceability += records[i].Danceability
	}

	n := float64(len(records))
	return core.AggregatedMood{
		MeanValence:      valence / n,
		MeanEnergy:       energy / n,
		MeanDanceability: danceability / n,
		TrackCount:       len(records),
	}, nil
}
