package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/mager/soundprint/soundprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, values ...float64) soundprint.TrackRecord {
	var v soundprint.FeatureVector
	copy(v[:], values)
	return soundprint.TrackRecord{
		ID:            id,
		Metadata:      soundprint.TrackMetadata{Title: "title " + id, Artist: "artist " + id},
		FeatureVector: v,
	}
}

func TestCosine(t *testing.T) {
	a := []float64{120, 0.8, 0.7, 0.6, 0.1, 0.05, 0.15, 0.04, 0.9, 0.5, 0.6}
	b := []float64{98, 0.4, 0.9, 0.2, 0.3, 0, 0.1, 0.2, 0.7, 0.8, 0.3}

	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 2}, []float64{-1, -2}), 1e-12)
}

func TestCosineDegenerate(t *testing.T) {
	zero := make([]float64, 11)

	got := Cosine(zero, zero)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 0.0, got)

	assert.Equal(t, 0.0, Cosine(zero, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))
	assert.Equal(t, 0.0, Cosine([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestRank(t *testing.T) {
	records := []soundprint.TrackRecord{
		record("target", 1, 0, 0),
		record("far", 0, 1, 0),
		record("close", 1, 0.1, 0),
		record("middle", 1, 1, 0),
	}

	got, err := Rank("target", records, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "close", got[0].ID)
	assert.Equal(t, "title close", got[0].Title)
	assert.Equal(t, "artist close", got[0].Artist)
	assert.Equal(t, "middle", got[1].ID)
	assert.Greater(t, got[0].Similarity, got[1].Similarity)
}

func TestRankExcludesTargetByID(t *testing.T) {
	records := []soundprint.TrackRecord{
		record("a", 1, 1, 1),
		record("twin", 1, 1, 1),
		record("b", 0, 0, 1),
	}

	got, err := Rank("a", records, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "twin", got[0].ID)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-9)
	for _, m := range got {
		assert.NotEqual(t, "a", m.ID)
	}
}

func TestRankFewerCandidates(t *testing.T) {
	records := []soundprint.TrackRecord{record("only", 1, 2, 3)}

	got, err := Rank("only", records, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRankZeroVectors(t *testing.T) {
	records := []soundprint.TrackRecord{record("a"), record("b"), record("c", 1)}

	got, err := Rank("a", records, 5)
	require.NoError(t, err)
	for _, m := range got {
		assert.False(t, math.IsNaN(m.Similarity))
		assert.Equal(t, 0.0, m.Similarity)
	}
	assert.Equal(t, []string{"b", "c"}, []string{got[0].ID, got[1].ID})
}

func TestRankErrors(t *testing.T) {
	records := []soundprint.TrackRecord{record("a", 1)}

	_, err := Rank("missing", records, 1)
	assert.True(t, errors.Is(err, ErrTargetNotFound))

	_, err = Rank("a", records, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}
