// Package database persists TrackRecords to the CSV songs collection.
package database

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/dimchansky/utfbom"
	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/features"
	"github.com/mager/soundprint/soundprint"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a track id is not in the collection.
var ErrNotFound = errors.New("track not found in collection")

var bom = []byte{0xEF, 0xBB, 0xBF}

// Columns is the header row of the songs file.
var Columns = []string{
	"spotify_track_id",
	"title",
	"artist",
	"album",
	"popularity",
	"tempo",
	"energy",
	"danceability",
	"happiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"speechiness",
	"loudness_db",
	"sentiment_score",
	"sentiment_label",
	"lyrics_available",
}

// Repository owns the songs file and an in-memory copy of it. The copy is
// loaded on first read and dropped after every write.
type Repository struct {
	path string
	log  *zap.SugaredLogger

	mu     sync.Mutex
	cache  []soundprint.TrackRecord
	loaded bool
}

func ProvideRepository(cfg config.Config, log *zap.SugaredLogger) *Repository {
	return NewRepository(cfg.SongsFile, log)
}

func NewRepository(path string, log *zap.SugaredLogger) *Repository {
	return &Repository{path: path, log: log}
}

// Path returns the songs file location.
func (r *Repository) Path() string {
	return r.path
}

// Records returns every stored track in file order.
func (r *Repository) Records() ([]soundprint.TrackRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}

	out := make([]soundprint.TrackRecord, len(r.cache))
	copy(out, r.cache)
	return out, nil
}

// Get returns the stored track with the given id.
func (r *Repository) Get(id string) (soundprint.TrackRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return soundprint.TrackRecord{}, err
	}
	for _, rec := range r.cache {
		if rec.ID == id {
			return rec, nil
		}
	}
	return soundprint.TrackRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Exists reports whether id is already stored.
func (r *Repository) Exists(id string) (bool, error) {
	_, err := r.Get(id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Save appends rec to the songs file. It returns false without touching the
// file when the id is already stored.
func (r *Repository) Save(rec soundprint.TrackRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return false, err
	}
	for _, existing := range r.cache {
		if existing.ID == rec.ID {
			r.log.Warnw("Track already saved, skipping", "id", rec.ID, "title", rec.Metadata.Title)
			return false, nil
		}
	}

	if err := r.append(rec); err != nil {
		return false, err
	}

	r.cache, r.loaded = nil, false
	r.log.Infow("Saved track", "id", rec.ID, "title", rec.Metadata.Title, "file", r.path)
	return true, nil
}

func (r *Repository) append(rec soundprint.TrackRecord) error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open songs file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat songs file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if _, err := f.Write(bom); err != nil {
			return fmt.Errorf("write songs file: %w", err)
		}
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("write songs header: %w", err)
		}
	}
	if err := w.Write(toRow(rec)); err != nil {
		return fmt.Errorf("write songs row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write songs row: %w", err)
	}
	return f.Close()
}

// load fills the cache. The caller holds r.mu.
func (r *Repository) load() error {
	if r.loaded {
		return nil
	}

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.cache, r.loaded = nil, true
		return nil
	}
	if err != nil {
		return fmt.Errorf("open songs file: %w", err)
	}
	defer f.Close()

	records, err := r.read(f)
	if err != nil {
		return err
	}

	r.cache, r.loaded = records, true
	r.log.Debugw("Loaded songs file", "file", r.path, "tracks", len(records))
	return nil
}

func (r *Repository) read(src io.Reader) ([]soundprint.TrackRecord, error) {
	cr := csv.NewReader(utfbom.SkipOnly(src))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read songs header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	if _, ok := index["spotify_track_id"]; !ok {
		return nil, fmt.Errorf("songs file %s has no spotify_track_id column", r.path)
	}

	var records []soundprint.TrackRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read songs row %d: %w", line, err)
		}

		rec, ok := fromRow(index, row)
		if !ok {
			r.log.Warnw("Skipping songs row without id", "file", r.path, "line", line)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRow(rec soundprint.TrackRecord) []string {
	d := rec.Display
	lyrics := "False"
	if rec.LyricsAvailable {
		lyrics = "True"
	}

	return []string{
		rec.ID,
		rec.Metadata.Title,
		rec.Metadata.Artist,
		rec.Metadata.Album,
		strconv.Itoa(rec.Metadata.Popularity),
		formatFloat(d.Tempo),
		formatFloat(d.Energy),
		formatFloat(d.Danceability),
		formatFloat(d.Happiness),
		formatFloat(d.Acousticness),
		formatFloat(d.Instrumentalness),
		formatFloat(d.Liveness),
		formatFloat(d.Speechiness),
		formatFloat(d.LoudnessDB),
		formatFloat(float64(rec.Sentiment)),
		rec.Sentiment.Label(),
		lyrics,
	}
}

// fromRow rebuilds a TrackRecord, feature vector included, from a stored
// row. Unparseable or non-finite numbers read as 0.
func fromRow(index map[string]int, row []string) (soundprint.TrackRecord, bool) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	number := func(name string) soundprint.Number {
		return soundprint.ParseNumber(field(name))
	}

	id := field("spotify_track_id")
	if id == "" {
		return soundprint.TrackRecord{}, false
	}

	popularity, _ := strconv.Atoi(field("popularity"))
	sentiment := float64(number("sentiment_score"))
	lyrics, _ := strconv.ParseBool(field("lyrics_available"))

	meta := soundprint.TrackMetadata{
		Title:      field("title"),
		Artist:     field("artist"),
		Album:      field("album"),
		Popularity: popularity,
	}

	loudness := ""
	if s := field("loudness_db"); s != "" {
		loudness = s + " dB"
	}
	desc := soundprint.AudioDescriptors{
		Tempo:            number("tempo"),
		Energy:           number("energy"),
		Danceability:     number("danceability"),
		Happiness:        number("happiness"),
		Acousticness:     number("acousticness"),
		Instrumentalness: number("instrumentalness"),
		Liveness:         number("liveness"),
		Speechiness:      number("speechiness"),
		Loudness:         loudness,
	}

	return features.NewRecord(id, meta, desc, soundprint.SentimentScore(sentiment), lyrics), true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var Options = ProvideRepository
