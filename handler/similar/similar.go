package similar

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mager/soundprint/database"
	"github.com/mager/soundprint/handler"
	"github.com/mager/soundprint/similarity"
	"go.uber.org/zap"
)

// SimilarHandler ranks the stored collection against one stored track.
type SimilarHandler struct {
	log  *zap.SugaredLogger
	repo *database.Repository
}

func (*SimilarHandler) Pattern() string {
	return "/tracks/{id}/similar"
}

// NewSimilarHandler builds a new SimilarHandler.
func NewSimilarHandler(log *zap.SugaredLogger, repo *database.Repository) *SimilarHandler {
	return &SimilarHandler{log: log, repo: repo}
}

type Target struct {
	ID     string `json:"spotify_track_id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type SimilarResponse struct {
	Target  Target             `json:"target"`
	Similar []similarity.Match `json:"similar"`
}

// Similar tracks
// @Summary Similar tracks
// @Description Rank stored tracks by cosine similarity of their feature vectors
// @Produce json
// @Success 200 {object} SimilarResponse
// @Router /tracks/{id}/similar [get]
// @Param id path string true "Spotify track id"
// @Param n query int false "Number of results" default(5)
func (h *SimilarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	n := similarity.DefaultCount
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			handler.WriteError(w, fmt.Errorf("%w: %q", similarity.ErrInvalidCount, s))
			return
		}
		n = v
	}

	records, err := h.repo.Records()
	if err != nil {
		h.log.Errorw("Failed to read songs file", "err", err)
		handler.WriteError(w, err)
		return
	}

	matches, err := similarity.Rank(id, records, n)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	resp := SimilarResponse{Target: Target{ID: id}, Similar: matches}
	for _, rec := range records {
		if rec.ID == id {
			resp.Target.Title = rec.Metadata.Title
			resp.Target.Artist = rec.Metadata.Artist
			break
		}
	}

	h.log.Infow("Ranked similar tracks", "id", id, "n", n, "results", len(matches))
	handler.WriteJSON(w, http.StatusOK, resp)
}
