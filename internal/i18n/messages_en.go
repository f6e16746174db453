package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Prompts
	"prompt.chat_input": "What text do you plan on sending? Enter it here",
	"prompt.chat_empty": "Please enter some text to compare.",

	// Mood table
	"report.header.spotify": "Spotify Playlist Mood",
	"report.header.chat":    "User Chat Mood",
	"report.aggregate":      "Today's listening: %d tracks, valence %.2f, energy %.2f, danceability %.2f",

	// Verdict
	"report.verdict.similar":   "Contrastive agent feels the two sentiments are similar.",
	"report.verdict.different": "Contrastive agent feels the two sentiments are different.",
	"report.cosine":            "Cosine similarity of the mood words: %.2f",
	"report.strategy":          "Verdict by the %s comparator.",
	"report.skipped":           "Comparison skipped: %s",

	// Tracks table
	"tracks.header.played":       "Played",
	"tracks.header.track":        "Track",
	"tracks.header.artist":       "Artist",
	"tracks.header.valence":      "Valence",
	"tracks.header.energy":       "Energy",
	"tracks.header.danceability": "Danceability",
	"tracks.empty":               "No tracks played today.",

	// Errors
	"error.generic":   "Something went wrong. Please try again.",
	"error.no_tracks": "You have not played any tracks today.",
	"error.llm_reply": "The language model replied with something that could not be read.",
}
