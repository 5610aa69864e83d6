package spotify

import (
	"context"
	"errors"
	"net/http"

	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/soundprint"
	"github.com/mager/soundprint/util"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

type SpotifyClient struct {
	Client *spotify.Client
	ID     string
	Secret string

	log *zap.SugaredLogger
}

// ProvideSpotify sets up an app-level client using the client credentials flow.
// The token is fetched lazily on the first API call and refreshed by the
// oauth2 transport.
func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger) *SpotifyClient {
	log.Info("setting up spotify client")

	creds := &clientcredentials.Config{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	return NewSpotifyClient(creds.Client(context.Background()), cfg.SpotifyID, cfg.SpotifySecret, log)
}

// NewSpotifyClient wraps an already authenticated http.Client.
func NewSpotifyClient(httpClient *http.Client, id, secret string, log *zap.SugaredLogger, opts ...spotify.ClientOption) *SpotifyClient {
	opts = append([]spotify.ClientOption{spotify.WithRetry(true)}, opts...)
	return &SpotifyClient{
		Client: spotify.New(httpClient, opts...),
		ID:     id,
		Secret: secret,
		log:    log,
	}
}

// Configured reports whether credentials were supplied.
func (c *SpotifyClient) Configured() bool {
	return c.ID != "" && c.Secret != ""
}

// FetchMetadata looks up a track by its bare Spotify id.
func (c *SpotifyClient) FetchMetadata(ctx context.Context, trackID string) (soundprint.TrackMetadata, error) {
	ft, err := c.Client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		pe := &soundprint.ProviderError{Provider: "spotify", Err: err}
		var se spotify.Error
		if errors.As(err, &se) {
			pe.StatusCode = se.Status
		}
		return soundprint.TrackMetadata{}, pe
	}

	meta := soundprint.TrackMetadata{
		Title:       ft.Name,
		Artist:      util.GetFirstArtist(ft.Artists),
		Album:       ft.Album.Name,
		Popularity:  int(ft.Popularity),
		DurationMs:  int(ft.Duration),
		ReleaseDate: util.GetReleaseDate(ft.Album),
	}
	if isrc := util.GetISRC(ft); isrc != nil {
		meta.ISRC = *isrc
	}

	c.log.Infow("Fetched Spotify metadata", "id", trackID, "title", meta.Title, "artist", meta.Artist)

	return meta, nil
}

// TrackMatch is a search hit that can be passed on as a track reference.
type TrackMatch struct {
	ID         string `json:"spotify_track_id"`
	URI        string `json:"uri"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Popularity int    `json:"popularity"`
}

// SearchTracks runs a Spotify track search.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]TrackMatch, error) {
	results, err := c.Client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		pe := &soundprint.ProviderError{Provider: "spotify", Err: err}
		var se spotify.Error
		if errors.As(err, &se) {
			pe.StatusCode = se.Status
		}
		return nil, pe
	}

	matches := []TrackMatch{}
	if results.Tracks != nil {
		for _, item := range results.Tracks.Tracks {
			matches = append(matches, TrackMatch{
				ID:         item.ID.String(),
				URI:        string(item.URI),
				Title:      item.Name,
				Artist:     util.GetFirstArtist(item.Artists),
				Album:      item.Album.Name,
				Popularity: int(item.Popularity),
			})
		}
	}

	return matches, nil
}

var Options = ProvideSpotify
