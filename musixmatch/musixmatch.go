package musixmatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	mxm "github.com/mager/go-musixmatch"
	mxmParams "github.com/mager/go-musixmatch/params"
	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/soundprint"
	"go.uber.org/zap"
)

// ErrLyricsNotFound is returned when Musixmatch has no match or no lyrics.
var ErrLyricsNotFound = errors.New("lyrics not found")

// footerMarker starts the copyright notice appended to every lyrics body.
const footerMarker = "*******"

// envelopeErrors are the messages go-musixmatch returns for a non-200
// envelope status, paired with that status.
var envelopeErrors = []struct {
	status  int
	message string
}{
	{http.StatusNoContent, "No content."},
	{http.StatusBadRequest, "Bad Request. Please check your parameters."},
	{http.StatusUnauthorized, "Authentication failed, probably because of invalid/missing API key."},
	{http.StatusPaymentRequired, "The usage limit has been reached, either you exceeded per day requests limits or your balance is insufficient."},
	{http.StatusForbidden, "You are not authorized to perform this operation."},
	{http.StatusNotFound, "The requested resource was not found."},
	{http.StatusMethodNotAllowed, "The requested method was not found."},
	{http.StatusInternalServerError, "Oops. Something were wrong."},
	{http.StatusServiceUnavailable, "Musixmatch's system is a bit busy at the moment and your request can’t be satisfied."},
}

type MusixmatchClient struct {
	Client *mxm.Client
	log    *zap.SugaredLogger
}

func ProvideMusixmatch(cfg config.Config, l *zap.SugaredLogger) *MusixmatchClient {
	return NewMusixmatchClient(cfg.MusixmatchBaseURL, cfg.MusixmatchAPIKey, l)
}

func NewMusixmatchClient(baseURL, apiKey string, l *zap.SugaredLogger) *MusixmatchClient {
	httpClient := &http.Client{
		Timeout:   15 * time.Second,
		Transport: statusTransport{next: http.DefaultTransport},
	}

	c := mxm.New(apiKey, httpClient)
	if baseURL != "" {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &MusixmatchClient{Client: c, log: l}
}

// Configured reports whether an API key was supplied.
func (c *MusixmatchClient) Configured() bool {
	return c.Client.ApiKey != ""
}

// Search returns the Musixmatch track id of the best match for title and artist.
func (c *MusixmatchClient) Search(ctx context.Context, title, artist string) (int, error) {
	tracks, err := c.Client.SearchTrack(ctx,
		mxmParams.QueryTrack(title),
		mxmParams.QueryArtist(artist),
		mxmParams.PageSize(1),
		mxmParams.Page(1),
		mxmParams.SortByTrackRating("desc"),
	)
	if err != nil {
		return 0, wrap(err)
	}
	if len(tracks) == 0 {
		return 0, fmt.Errorf("%w: no match for %q by %q", ErrLyricsNotFound, title, artist)
	}

	return tracks[0].ID, nil
}

// Fetch returns the lyrics of a Musixmatch track with the copyright footer removed.
func (c *MusixmatchClient) Fetch(ctx context.Context, trackID int) (string, error) {
	l, err := c.Client.GetTrackLyrics(ctx, mxmParams.TrackID(trackID))

	// Musixmatch sends an empty array instead of an object when there are no lyrics.
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "", fmt.Errorf("%w: track %d", ErrLyricsNotFound, trackID)
	}
	if err != nil {
		return "", wrap(err)
	}

	lyrics := TrimFooter(l.Body)
	if lyrics == "" {
		return "", fmt.Errorf("%w: track %d", ErrLyricsNotFound, trackID)
	}
	return lyrics, nil
}

// FindLyrics searches for a track and fetches its lyrics.
func (c *MusixmatchClient) FindLyrics(ctx context.Context, title, artist string) (string, error) {
	id, err := c.Search(ctx, title, artist)
	if err != nil {
		return "", err
	}

	lyrics, err := c.Fetch(ctx, id)
	if err != nil {
		return "", err
	}

	c.log.Infow("Fetched lyrics", "title", title, "artist", artist, "musixmatch_id", id, "chars", len(lyrics))
	return lyrics, nil
}

// TrimFooter drops everything from the first "*******" on.
func TrimFooter(lyrics string) string {
	if i := strings.Index(lyrics, footerMarker); i >= 0 {
		lyrics = lyrics[:i]
	}
	return strings.TrimSpace(lyrics)
}

// wrap turns a go-musixmatch error into ErrLyricsNotFound or a ProviderError.
func wrap(err error) error {
	var pe *soundprint.ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	var status int
	for _, e := range envelopeErrors {
		if err.Error() == e.message {
			status = e.status
			break
		}
	}

	if status == http.StatusNotFound || status == http.StatusNoContent {
		return fmt.Errorf("%w: %v", ErrLyricsNotFound, err)
	}
	return &soundprint.ProviderError{Provider: "musixmatch", StatusCode: status, Err: err}
}

// statusTransport fails non-200 HTTP answers before go-musixmatch tries to
// decode them, keeping the status code.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &soundprint.ProviderError{Provider: "musixmatch", StatusCode: resp.StatusCode}
	}
	return resp, nil
}

var Options = ProvideMusixmatch
