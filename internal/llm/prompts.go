package llm

import (
	"encoding/json"
	"fmt"

	"moodsync/internal/core"
)

const spotifyMoodPrompt = `You are a quantitative mood analyzer. You analyze the mood of a user from
their Spotify listening statistics according to the affective circumplex model.

The user message is a JSON object with the mean valence (float), energy (float) and
danceability (float) of the tracks played today and the number_of_tracks (int).

Respond with a JSON object in this exact format:
{
  "valence": 0.62,
  "energy": 0.71,
  "danceability": 0.55,
  "number_of_tracks": 12,
  "words": ["word1", "word2", "word3", "word4", "word5", "word6", "word7", "word8"]
}

Rules:
1. Echo valence, energy, danceability and number_of_tracks unchanged from the input
2. words holds exactly 8 single emotion words from the affective circumplex model
3. Respond with the JSON object only`

const chatMoodPrompt = `You are a quantitative mood analyzer. You analyze the mood of a user from a
chat message they plan to send, according to the affective circumplex model.

Respond with a JSON object in this exact format:
{
  "words": ["word1", "word2", "word3", "word4", "word5", "word6", "word7", "word8"]
}

Rules:
1. words holds exactly 8 single emotion words from the affective circumplex model
2. Describe the mood of the writer, not the topic of the message
3. Respond with the JSON object only`

const contrastPrompt = `You are really good at contrasting lists of words. You will contrast the 8
emotion words extracted from a user chat with the 8 emotion words extracted from the
user's Spotify listening today. The words are taken from the affective circumplex model.

Answer with "Yes" if the two lists describe a similar mood or "No" if they are different.`

func renderContrast(chatWords, spotifyWords core.MoodWordSet) string {
	return fmt.Sprintf("User Chat List: %s\nSpotify Chat List: %s",
		wordsJSON(chatWords), wordsJSON(spotifyWords))
}

func wordsJSON(words core.MoodWordSet) string {
	if words == nil {
		words = core.MoodWordSet{}
	}
	b, err := json.Marshal(words)
	if err != nil {
		return "[]"
	}
	return string(b)
}
