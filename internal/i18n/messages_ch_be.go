package i18n

// berneseGermanMessages contains all Bernese Swiss German (Bärndütsch) translations
var berneseGermanMessages = map[string]string{
	// Prompts
	"prompt.chat_input": "Was wosch de schicke? Schrib's hie ine",
	"prompt.chat_empty": "Bitte schrib zersch öppis.",

	// Mood table
	"report.header.spotify": "Spotify-Playlist-Stimmig",
	"report.header.chat":    "Chat-Stimmig",
	"report.aggregate":      "Hüt glost: %d Lieder, Valenz %.2f, Energie %.2f, Tanzbarkeit %.2f",

	// Verdict
	"report.verdict.similar":   "Dr Vergliichs-Agent fingt, di zwe Stimmige sy ähnlech.",
	"report.verdict.different": "Dr Vergliichs-Agent fingt, di zwe Stimmige sy verschide.",
	"report.cosine":            "Kosinus-Ähnlechkeit vo de Stimmigswörter: %.2f",
	"report.strategy":          "Entscheid vom %s-Vergliich.",
	"report.skipped":           "Vergliich übersprunge: %s",

	// Tracks table
	"tracks.header.played":       "Glost",
	"tracks.header.track":        "Lied",
	"tracks.header.artist":       "Künstler",
	"tracks.header.valence":      "Valenz",
	"tracks.header.energy":       "Energie",
	"tracks.header.danceability": "Tanzbarkeit",
	"tracks.empty":               "Hüt hesch no nüt glost.",

	// Errors
	"error.generic":   "Öppis isch schief gloffe. Probier's haut nomau, bitte.",
	"error.no_tracks": "Du hesch hüt no kei Lieder glost.",
	"error.llm_reply": "D Antwort vom Sprachmodell isch nid z'läse gsi.",
}
