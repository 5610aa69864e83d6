package features

import (
	"github.com/mager/soundprint/soundprint"
)

// Assemble builds the feature vector and display values for a track.
//
// The vector is [audio(9), popularity, sentiment]; popularity is divided by
// 100 and sentiment is moved from [-1, 1] onto [0, 1].
func Assemble(
	meta soundprint.TrackMetadata,
	desc soundprint.AudioDescriptors,
	sentiment soundprint.SentimentScore,
) (soundprint.FeatureVector, soundprint.TrackDisplay) {
	var v soundprint.FeatureVector

	audio := NormalizeAudio(desc)
	copy(v[:AudioDimensions], audio)
	v[AudioDimensions] = float64(meta.Popularity) / 100
	v[AudioDimensions+1] = (float64(sentiment) + 1) / 2

	display := soundprint.TrackDisplay{
		Tempo:            float64(desc.Tempo),
		Energy:           float64(desc.Energy),
		Danceability:     float64(desc.Danceability),
		Happiness:        float64(desc.Happiness),
		Acousticness:     float64(desc.Acousticness),
		Instrumentalness: float64(desc.Instrumentalness),
		Liveness:         float64(desc.Liveness),
		Speechiness:      float64(desc.Speechiness),
		LoudnessDB:       ParseLoudness(desc.Loudness),

		SentimentScore: float64(sentiment),
		SentimentLabel: sentiment.Label(),

		Popularity:  meta.Popularity,
		DurationMs:  meta.DurationMs,
		ReleaseDate: meta.ReleaseDate,
	}

	return v, display
}

// NewRecord assembles a complete TrackRecord.
func NewRecord(
	id string,
	meta soundprint.TrackMetadata,
	desc soundprint.AudioDescriptors,
	sentiment soundprint.SentimentScore,
	lyricsAvailable bool,
) soundprint.TrackRecord {
	vector, display := Assemble(meta, desc, sentiment)

	return soundprint.TrackRecord{
		ID:                  id,
		Metadata:            meta,
		Descriptors:         desc,
		Display:             display,
		Sentiment:           sentiment,
		LyricsAvailable:     lyricsAvailable,
		FeatureVector:       vector,
		FeatureVectorLabels: vector.Labels(),
	}
}
