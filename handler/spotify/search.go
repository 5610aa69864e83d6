package spotify

import (
	"net/http"
	"strconv"

	"github.com/mager/soundprint/handler"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/zap"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// SearchHandler finds Spotify tracks to feed into /track and /tracks.
type SearchHandler struct {
	log           *zap.SugaredLogger
	spotifyClient *spotify.SpotifyClient
}

func (*SearchHandler) Pattern() string {
	return "/search"
}

// NewSearchHandler builds a new SearchHandler.
func NewSearchHandler(log *zap.SugaredLogger, spotifyClient *spotify.SpotifyClient) *SearchHandler {
	return &SearchHandler{
		log:           log,
		spotifyClient: spotifyClient,
	}
}

type Response struct {
	Results []spotify.TrackMatch `json:"results"`
}

// Search tracks
// @Summary Search Spotify tracks
// @Produce json
// @Success 200 {object} Response
// @Router /search [get]
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(10)
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if query == "" {
		handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorResponse{Error: "missing search query"})
		return
	}

	limit := defaultLimit
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(v, maxLimit)
	}

	results, err := h.spotifyClient.SearchTracks(r.Context(), query, limit)
	if err != nil {
		h.log.Errorw("Spotify search failed", "query", query, "err", err)
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, Response{Results: results})
}
