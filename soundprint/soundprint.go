package soundprint

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a SoundNet numeric field. The API mostly sends JSON numbers but
// has been seen sending numeric strings and nulls; anything that does not
// parse to a finite value decodes to 0 instead of failing the whole payload.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*n = ParseNumber(s)
	return nil
}

// ParseNumber reads s as a finite float. NaN, infinities and garbage read as 0
// so a Number can always be encoded back to JSON.
func ParseNumber(s string) Number {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Number(v)
}

// AudioDescriptors is the track analysis returned by SoundNet.
type AudioDescriptors struct {
	// Tempo is the overall estimated tempo of a track in beats per minute (BPM).
	// Example: 171
	Tempo Number `json:"tempo"`
	// Energy is a perceptual measure of intensity and activity from 0 to 100.
	// Energetic tracks feel fast, loud, and noisy.
	// Example: 73
	Energy Number `json:"energy"`
	// Danceability describes how suitable a track is for dancing based on tempo,
	// rhythm stability, beat strength, and overall regularity. 0 to 100.
	// Example: 51
	Danceability Number `json:"danceability"`
	// Happiness describes the musical positiveness conveyed by a track, 0 to 100.
	// Example: 33
	Happiness Number `json:"happiness"`
	// Acousticness is a confidence measure from 0 to 100 of whether the track is acoustic.
	Acousticness Number `json:"acousticness"`
	// Instrumentalness predicts whether a track contains no vocals, 0 to 100.
	Instrumentalness Number `json:"instrumentalness"`
	// Liveness detects the presence of an audience in the recording, 0 to 100.
	Liveness Number `json:"liveness"`
	// Speechiness detects the presence of spoken words in a track, 0 to 100.
	Speechiness Number `json:"speechiness"`
	// Loudness is the overall loudness of the track as sent by SoundNet.
	// Values typically range between "-60 dB" and "0 dB".
	// Example: "-6 dB"
	Loudness string `json:"loudness"`

	Key        string `json:"key,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Camelot    string `json:"camelot,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Popularity Number `json:"popularity,omitempty"`
}

// TrackMetadata is what Spotify knows about a track.
type TrackMetadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Popularity  int    `json:"popularity"`
	DurationMs  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`

	ISRC   string   `json:"isrc,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// SentimentScore is a lyric polarity estimate in [-1, 1].
type SentimentScore float64

// Label buckets the score into one of five human readable classes.
func (s SentimentScore) Label() string {
	switch {
	case s < -0.6:
		return "Very Negative"
	case s < -0.2:
		return "Negative"
	case s < 0.2:
		return "Neutral"
	case s < 0.6:
		return "Positive"
	default:
		return "Very Positive"
	}
}

// Prediction is one class of a text classifier output.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FeatureDimensions is the length of every FeatureVector.
const FeatureDimensions = 11

// FeatureLabels names each FeatureVector position. The order is part of the
// stored data format: vectors are only comparable because it never changes.
var FeatureLabels = [FeatureDimensions]string{
	"tempo_norm",
	"energy",
	"danceability",
	"happiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"speechiness",
	"loudness",
	"popularity",
	"sentiment",
}

// FeatureVector is the numeric summary used for similarity search.
type FeatureVector [FeatureDimensions]float64

// Labels returns the label for each position.
func (FeatureVector) Labels() []string {
	return FeatureLabels[:]
}

func (v FeatureVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v[:])
}

// TrackDisplay holds the human scale values of a track: audio descriptors in
// their original 0-100 range, loudness in dB and the raw Spotify numbers.
type TrackDisplay struct {
	Tempo            float64 `json:"tempo"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Happiness        float64 `json:"happiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Speechiness      float64 `json:"speechiness"`
	LoudnessDB       float64 `json:"loudness_db"`

	SentimentScore float64 `json:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label"`

	Popularity  int    `json:"popularity"`
	DurationMs  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`
}

// TrackRecord is everything gathered for a single track.
type TrackRecord struct {
	ID              string           `json:"spotify_track_id"`
	Metadata        TrackMetadata    `json:"metadata"`
	Descriptors     AudioDescriptors `json:"descriptors"`
	Display         TrackDisplay     `json:"display"`
	Sentiment       SentimentScore   `json:"sentiment"`
	LyricsAvailable bool             `json:"lyrics_available"`

	FeatureVector       FeatureVector `json:"feature_vector"`
	FeatureVectorLabels []string      `json:"feature_vector_labels"`
}
