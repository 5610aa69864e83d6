// Package pipeline gathers everything known about a track and turns it into
// a TrackRecord.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/mager/soundprint/features"
	"github.com/mager/soundprint/musicbrainz"
	"github.com/mager/soundprint/musixmatch"
	"github.com/mager/soundprint/sentiment"
	"github.com/mager/soundprint/soundnet"
	"github.com/mager/soundprint/soundprint"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/zap"
)

type MetadataProvider interface {
	FetchMetadata(ctx context.Context, trackID string) (soundprint.TrackMetadata, error)
}

type DescriptorProvider interface {
	FetchDescriptors(ctx context.Context, trackID string) (soundprint.AudioDescriptors, error)
}

type LyricsProvider interface {
	Configured() bool
	FindLyrics(ctx context.Context, title, artist string) (string, error)
}

type SentimentScorer interface {
	Score(ctx context.Context, lyrics string) soundprint.SentimentScore
}

type GenreProvider interface {
	Configured() bool
	GenresForTrack(ctx context.Context, isrc, artist, title string) ([]string, error)
}

// Failure is a track that could not be built.
type Failure struct {
	ID  string `json:"id"`
	Err error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.ID, f.Err)
}

// Builder runs the per-track pipeline: metadata and descriptors are required,
// lyrics, sentiment and genres are best effort.
type Builder struct {
	metadata    MetadataProvider
	descriptors DescriptorProvider
	lyrics      LyricsProvider
	scorer      SentimentScorer
	genres      GenreProvider
	log         *zap.SugaredLogger
}

func ProvideBuilder(
	sp *spotify.SpotifyClient,
	sn *soundnet.SoundNetClient,
	mxm *musixmatch.MusixmatchClient,
	mb *musicbrainz.MusicbrainzClient,
	scorer *sentiment.Scorer,
	log *zap.SugaredLogger,
) *Builder {
	return NewBuilder(sp, sn, mxm, scorer, mb, log)
}

// NewBuilder wires a Builder. genres may be nil.
func NewBuilder(
	metadata MetadataProvider,
	descriptors DescriptorProvider,
	lyrics LyricsProvider,
	scorer SentimentScorer,
	genres GenreProvider,
	log *zap.SugaredLogger,
) *Builder {
	return &Builder{
		metadata:    metadata,
		descriptors: descriptors,
		lyrics:      lyrics,
		scorer:      scorer,
		genres:      genres,
		log:         log,
	}
}

// Build fetches and assembles one track.
func (b *Builder) Build(ctx context.Context, trackID string) (soundprint.TrackRecord, error) {
	meta, err := b.metadata.FetchMetadata(ctx, trackID)
	if err != nil {
		return soundprint.TrackRecord{}, fmt.Errorf("fetch metadata for %s: %w", trackID, err)
	}

	desc, err := b.descriptors.FetchDescriptors(ctx, trackID)
	if err != nil {
		return soundprint.TrackRecord{}, fmt.Errorf("fetch descriptors for %s: %w", trackID, err)
	}

	if b.genres != nil && b.genres.Configured() {
		genres, err := b.genres.GenresForTrack(ctx, meta.ISRC, meta.Artist, meta.Title)
		if err != nil {
			b.log.Warnw("Genre lookup failed", "id", trackID, "err", err)
		}
		meta.Genres = genres
	}

	score, hasLyrics := b.sentiment(ctx, trackID, meta)

	rec := features.NewRecord(trackID, meta, desc, score, hasLyrics)
	b.log.Infow("Built track",
		"id", trackID,
		"title", meta.Title,
		"artist", meta.Artist,
		"sentiment", rec.Display.SentimentLabel,
		"lyrics", hasLyrics,
	)
	return rec, nil
}

// sentiment never fails the build: missing or broken lyrics score neutral.
func (b *Builder) sentiment(ctx context.Context, trackID string, meta soundprint.TrackMetadata) (soundprint.SentimentScore, bool) {
	if b.lyrics == nil || !b.lyrics.Configured() {
		return 0, false
	}

	lyrics, err := b.lyrics.FindLyrics(ctx, meta.Title, meta.Artist)
	switch {
	case errors.Is(err, musixmatch.ErrLyricsNotFound):
		b.log.Infow("No lyrics, using neutral sentiment", "id", trackID, "title", meta.Title)
		return 0, false
	case err != nil:
		b.log.Warnw("Lyrics lookup failed, using neutral sentiment", "id", trackID, "err", err)
		return 0, false
	case lyrics == "":
		return 0, false
	}

	return b.scorer.Score(ctx, lyrics), true
}

// BuildMany builds each id in order. A failed id is reported and the batch
// carries on; a canceled context stops it.
func (b *Builder) BuildMany(ctx context.Context, ids []string) ([]soundprint.TrackRecord, []Failure) {
	var (
		records  []soundprint.TrackRecord
		failures []Failure
	)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			failures = append(failures, Failure{ID: id, Err: err})
			continue
		}

		rec, err := b.Build(ctx, id)
		if err != nil {
			b.log.Errorw("Failed to build track", "id", id, "err", err)
			failures = append(failures, Failure{ID: id, Err: err})
			continue
		}
		records = append(records, rec)
	}

	return records, failures
}

var Options = ProvideBuilder
