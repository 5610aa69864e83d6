package health

import (
	"net/http"

	"github.com/mager/soundprint/handler"
	"github.com/mager/soundprint/musicbrainz"
	"github.com/mager/soundprint/musixmatch"
	"github.com/mager/soundprint/soundnet"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/zap"
)

// HealthHandler reports whether the server is up and which providers have
// credentials.
type HealthHandler struct {
	log               *zap.SugaredLogger
	spotifyClient     *spotify.SpotifyClient
	soundNetClient    *soundnet.SoundNetClient
	musixmatchClient  *musixmatch.MusixmatchClient
	musicbrainzClient *musicbrainz.MusicbrainzClient
}

func (*HealthHandler) Pattern() string {
	return "/health"
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(
	log *zap.SugaredLogger,
	spotifyClient *spotify.SpotifyClient,
	soundNetClient *soundnet.SoundNetClient,
	musixmatchClient *musixmatch.MusixmatchClient,
	musicbrainzClient *musicbrainz.MusicbrainzClient,
) *HealthHandler {
	return &HealthHandler{
		log:               log,
		spotifyClient:     spotifyClient,
		soundNetClient:    soundNetClient,
		musixmatchClient:  musixmatchClient,
		musicbrainzClient: musicbrainzClient,
	}
}

type Response struct {
	Server      bool `json:"server"`
	Spotify     bool `json:"spotify"`
	SoundNet    bool `json:"soundnet"`
	Musixmatch  bool `json:"musixmatch"`
	MusicBrainz bool `json:"musicbrainz"`
}

// Health check
// @Summary Health check
// @Description Server status and configured providers
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("health check")

	handler.WriteJSON(w, http.StatusOK, Response{
		Server:      true,
		Spotify:     h.spotifyClient.Configured(),
		SoundNet:    h.soundNetClient.Configured(),
		Musixmatch:  h.musixmatchClient.Configured(),
		MusicBrainz: h.musicbrainzClient.Configured(),
	})
}
