// Package features turns SoundNet descriptors, Spotify popularity and lyric
// sentiment into the fixed length vectors used for similarity search.
package features

import (
	"math"
	"strconv"
	"strings"

	"github.com/mager/soundprint/soundprint"
)

// AudioDimensions is the length of the vector returned by NormalizeAudio.
const AudioDimensions = 9

const (
	// SilentDB is used when the loudness string cannot be parsed.
	SilentDB = -60.0

	loudnessRange = 60.0
)

// NormalizeAudio scales raw descriptors into a 9 element vector:
// tempo (BPM, unscaled), the seven percentage fields divided by 100 and
// loudness mapped from [-60, 0] dB onto [0, 1]. Nothing is clamped.
func NormalizeAudio(d soundprint.AudioDescriptors) []float64 {
	return []float64{
		float64(d.Tempo),
		percent(d.Energy),
		percent(d.Danceability),
		percent(d.Happiness),
		percent(d.Acousticness),
		percent(d.Instrumentalness),
		percent(d.Liveness),
		percent(d.Speechiness),
		NormalizeLoudness(ParseLoudness(d.Loudness)),
	}
}

// ParseLoudness reads the number in front of a "<value> dB" string.
func ParseLoudness(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[len(s)-2:], "db") {
		s = strings.TrimSpace(s[:len(s)-2])
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return SilentDB
	}
	return v
}

// NormalizeLoudness maps -60 dB to 0 and 0 dB to 1.
func NormalizeLoudness(db float64) float64 {
	return (db - SilentDB) / loudnessRange
}

func percent(n soundprint.Number) float64 {
	return float64(n) / 100
}
