package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mager/soundprint/logger"
	"github.com/mager/soundprint/musixmatch"
	"github.com/mager/soundprint/soundprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type fakeMetadata map[string]soundprint.TrackMetadata

func (f fakeMetadata) FetchMetadata(_ context.Context, id string) (soundprint.TrackMetadata, error) {
	m, ok := f[id]
	if !ok {
		return soundprint.TrackMetadata{}, &soundprint.ProviderError{Provider: "spotify", StatusCode: 404}
	}
	return m, nil
}

type fakeDescriptors struct {
	desc soundprint.AudioDescriptors
	err  error
}

func (f fakeDescriptors) FetchDescriptors(context.Context, string) (soundprint.AudioDescriptors, error) {
	return f.desc, f.err
}

type fakeLyrics struct {
	lyrics string
	err    error
	off    bool
}

func (f fakeLyrics) Configured() bool { return !f.off }

func (f fakeLyrics) FindLyrics(context.Context, string, string) (string, error) {
	return f.lyrics, f.err
}

type fakeScorer struct {
	score soundprint.SentimentScore
	seen  []string
}

func (f *fakeScorer) Score(_ context.Context, lyrics string) soundprint.SentimentScore {
	f.seen = append(f.seen, lyrics)
	return f.score
}

type fakeGenres struct{}

func (fakeGenres) Configured() bool { return true }

func (fakeGenres) GenresForTrack(context.Context, string, string, string) ([]string, error) {
	return []string{"synthwave"}, nil
}

var (
	meta = fakeMetadata{
		"track1": {Title: "Song", Artist: "Band", Popularity: 50, ISRC: "USXX"},
		"track2": {Title: "Other", Artist: "Band", Popularity: 20},
	}
	desc = soundprint.AudioDescriptors{
		Tempo: 120, Energy: 80, Danceability: 70, Happiness: 60, Acousticness: 10,
		Instrumentalness: 5, Liveness: 15, Speechiness: 4, Loudness: "-6 dB",
	}
)

func TestBuild(t *testing.T) {
	l, _ := logger.NewTestLogger()
	scorer := &fakeScorer{score: 0.2}
	b := NewBuilder(meta, fakeDescriptors{desc: desc}, fakeLyrics{lyrics: "la la"}, scorer, fakeGenres{}, l)

	rec, err := b.Build(context.Background(), "track1")
	require.NoError(t, err)

	want := []float64{120, 0.8, 0.7, 0.6, 0.1, 0.05, 0.15, 0.04, 0.9, 0.5, 0.6}
	for i, w := range want {
		assert.InDelta(t, w, rec.FeatureVector[i], 1e-9, rec.FeatureVectorLabels[i])
	}
	assert.True(t, rec.LyricsAvailable)
	assert.Equal(t, "Positive", rec.Display.SentimentLabel)
	assert.Equal(t, []string{"synthwave"}, rec.Metadata.Genres)
	assert.Equal(t, []string{"la la"}, scorer.seen)
}

func TestBuildLyricsFailuresAreNeutral(t *testing.T) {
	tests := []struct {
		name   string
		lyrics fakeLyrics
		level  zapcore.Level
	}{
		{"not found", fakeLyrics{err: fmt.Errorf("%w: x", musixmatch.ErrLyricsNotFound)}, zapcore.InfoLevel},
		{"provider error", fakeLyrics{err: &soundprint.ProviderError{Provider: "musixmatch", StatusCode: 500}}, zapcore.WarnLevel},
		{"not configured", fakeLyrics{off: true}, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := logger.NewTestLogger()
			scorer := &fakeScorer{score: 0.9}
			b := NewBuilder(meta, fakeDescriptors{desc: desc}, tt.lyrics, scorer, nil, l)

			rec, err := b.Build(context.Background(), "track1")
			require.NoError(t, err)

			assert.False(t, rec.LyricsAvailable)
			assert.Zero(t, rec.Sentiment)
			assert.InDelta(t, 0.5, rec.FeatureVector[10], 1e-9)
			assert.Empty(t, scorer.seen)
			if tt.level == zapcore.WarnLevel {
				assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
			}
		})
	}
}

func TestBuildRequiredProviders(t *testing.T) {
	l, _ := logger.NewTestLogger()

	b := NewBuilder(meta, fakeDescriptors{desc: desc}, fakeLyrics{}, &fakeScorer{}, nil, l)
	_, err := b.Build(context.Background(), "unknown")
	var pe *soundprint.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "spotify", pe.Provider)

	b = NewBuilder(meta, fakeDescriptors{err: &soundprint.ProviderError{Provider: "soundnet", StatusCode: 429}}, fakeLyrics{}, &fakeScorer{}, nil, l)
	_, err = b.Build(context.Background(), "track1")
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "soundnet", pe.Provider)
}

func TestBuildMany(t *testing.T) {
	l, _ := logger.NewTestLogger()
	b := NewBuilder(meta, fakeDescriptors{desc: desc}, fakeLyrics{off: true}, &fakeScorer{}, nil, l)

	records, failures := b.BuildMany(context.Background(), []string{"track1", "nope", "track2"})

	require.Len(t, records, 2)
	assert.Equal(t, "track1", records[0].ID)
	assert.Equal(t, "track2", records[1].ID)

	require.Len(t, failures, 1)
	assert.Equal(t, "nope", failures[0].ID)
	assert.Contains(t, failures[0].Error(), "nope")
}

func TestBuildManyCanceled(t *testing.T) {
	l, _ := logger.NewTestLogger()
	b := NewBuilder(meta, fakeDescriptors{desc: desc}, fakeLyrics{off: true}, &fakeScorer{}, nil, l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, failures := b.BuildMany(ctx, []string{"track1", "track2"})
	assert.Empty(t, records)
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0].Err, context.Canceled)
}
