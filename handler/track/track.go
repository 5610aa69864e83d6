package track

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/mager/soundprint/database"
	"github.com/mager/soundprint/handler"
	"github.com/mager/soundprint/pipeline"
	"github.com/mager/soundprint/soundprint"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/zap"
)

const (
	SourceCollection = "collection"
	SourceBuilt      = "built"
)

// GetTrackHandler returns the record for one track reference, building it
// when it is not stored yet.
type GetTrackHandler struct {
	log     *zap.SugaredLogger
	builder *pipeline.Builder
	repo    *database.Repository
}

func (*GetTrackHandler) Pattern() string {
	return "/track"
}

// NewGetTrackHandler builds a new GetTrackHandler.
func NewGetTrackHandler(
	log *zap.SugaredLogger,
	builder *pipeline.Builder,
	repo *database.Repository,
) *GetTrackHandler {
	return &GetTrackHandler{
		log:     log,
		builder: builder,
		repo:    repo,
	}
}

type GetTrackResponse struct {
	Track  soundprint.TrackRecord `json:"track"`
	Source string                 `json:"source"`
	Saved  bool                   `json:"saved"`
}

// Get track
// @Summary Get track
// @Description Build the feature vector of a Spotify track
// @Produce json
// @Success 200 {object} GetTrackResponse
// @Router /track [get]
// @Param ref query string true "Spotify track URI, URL or id"
// @Param save query bool false "Append the record to the songs file"
// @Param refresh query bool false "Rebuild even when the track is stored"
func (h *GetTrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		handler.WriteJSON(w, http.StatusMethodNotAllowed, handler.ErrorResponse{Error: "method not allowed"})
		return
	}

	q := r.URL.Query()
	id, err := spotify.ParseTrackRef(q.Get("ref"))
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	save, _ := strconv.ParseBool(q.Get("save"))
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	resp, err := h.resolve(r.Context(), id, save, refresh)
	if err != nil {
		h.log.Errorw("Failed to get track", "id", id, "err", err)
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, resp)
}

func (h *GetTrackHandler) resolve(ctx context.Context, id string, save, refresh bool) (GetTrackResponse, error) {
	if !refresh {
		rec, err := h.repo.Get(id)
		if err == nil {
			return GetTrackResponse{Track: rec, Source: SourceCollection}, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return GetTrackResponse{}, err
		}
	}

	rec, err := h.builder.Build(ctx, id)
	if err != nil {
		return GetTrackResponse{}, err
	}

	resp := GetTrackResponse{Track: rec, Source: SourceBuilt}
	if save {
		if resp.Saved, err = h.repo.Save(rec); err != nil {
			return GetTrackResponse{}, err
		}
	}
	return resp, nil
}
