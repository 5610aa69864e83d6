package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/soundprint/logger"
	"github.com/mager/soundprint/soundprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
)

const trackJSON = `{
	"id": "0VjIjW4GlUZAMYd2vXMi3b",
	"name": "Blinding Lights",
	"artists": [{"name": "The Weeknd"}, {"name": "Someone Else"}],
	"album": {"name": "After Hours", "release_date": "2020-03-20"},
	"popularity": 87,
	"duration_ms": 200040,
	"external_ids": {"isrc": "USUG11904206"}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *SpotifyClient {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	l, _ := logger.NewTestLogger()
	return NewSpotifyClient(ts.Client(), "id", "secret", l, spotify.WithBaseURL(ts.URL+"/"))
}

func TestFetchMetadata(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, trackJSON)
	})

	meta, err := c.FetchMetadata(context.Background(), "0VjIjW4GlUZAMYd2vXMi3b")
	require.NoError(t, err)

	assert.Equal(t, "/tracks/0VjIjW4GlUZAMYd2vXMi3b", path)
	assert.Equal(t, soundprint.TrackMetadata{
		Title:       "Blinding Lights",
		Artist:      "The Weeknd",
		Album:       "After Hours",
		Popularity:  87,
		DurationMs:  200040,
		ReleaseDate: "2020-03-20",
		ISRC:        "USUG11904206",
	}, meta)
}

func TestFetchMetadataNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"status": 404, "message": "Non existing id"}}`)
	})

	_, err := c.FetchMetadata(context.Background(), "doesnotexist")
	require.Error(t, err)

	var pe *soundprint.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "spotify", pe.Provider)
}

func TestConfigured(t *testing.T) {
	assert.True(t, (&SpotifyClient{ID: "a", Secret: "b"}).Configured())
	assert.False(t, (&SpotifyClient{ID: "a"}).Configured())
}

func TestSearchTracks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "blinding lights", r.URL.Query().Get("q"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"tracks":{"items":[%s],"total":1,"limit":3,"offset":0}}`, trackJSON)
	})

	matches, err := c.SearchTracks(context.Background(), "blinding lights", 3)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "0VjIjW4GlUZAMYd2vXMi3b", matches[0].ID)
	assert.Equal(t, "The Weeknd", matches[0].Artist)
	assert.Equal(t, 87, matches[0].Popularity)
}
