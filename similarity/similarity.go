package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mager/soundprint/soundprint"
)

// DefaultCount is how many matches are returned when the caller does not say.
const DefaultCount = 5

var (
	// ErrTargetNotFound is returned when the target id is not in the collection.
	ErrTargetNotFound = errors.New("target not found")
	// ErrInvalidCount is returned for a result count below 1.
	ErrInvalidCount = errors.New("result count must be at least 1")
)

// Match is a ranked candidate.
type Match struct {
	ID         string  `json:"spotify_track_id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Similarity float64 `json:"similarity"`
}

// Cosine returns the cosine similarity of a and b. Vectors of different length,
// empty vectors and zero vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 || math.IsNaN(denom) || math.IsNaN(dot) {
		return 0
	}

	return dot / denom
}

// Rank returns up to n records most similar to targetID, best first. The
// target itself is skipped by id, so distinct tracks with identical vectors
// still show up.
func Rank(targetID string, records []soundprint.TrackRecord, n int) ([]Match, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}

	var target *soundprint.TrackRecord
	for i := range records {
		if records[i].ID == targetID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	matches := make([]Match, 0, len(records))
	for _, rec := range records {
		if rec.ID == targetID {
			continue
		}
		matches = append(matches, Match{
			ID:         rec.ID,
			Title:      rec.Metadata.Title,
			Artist:     rec.Metadata.Artist,
			Similarity: Cosine(target.FeatureVector[:], rec.FeatureVector[:]),
		})
	}

	// Stable so ties keep collection order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > n {
		matches = matches[:n]
	}

	return matches, nil
}
