package track

import (
	"encoding/json"
	"net/http"

	"github.com/mager/soundprint/database"
	"github.com/mager/soundprint/handler"
	"github.com/mager/soundprint/pipeline"
	"github.com/mager/soundprint/soundprint"
	"github.com/mager/soundprint/spotify"
	"go.uber.org/zap"
)

// maxBatch bounds the refs accepted by one POST /tracks.
const maxBatch = 50

// TracksHandler lists the stored collection and builds tracks in batches.
type TracksHandler struct {
	log     *zap.SugaredLogger
	builder *pipeline.Builder
	repo    *database.Repository
}

func (*TracksHandler) Pattern() string {
	return "/tracks"
}

// NewTracksHandler builds a new TracksHandler.
func NewTracksHandler(
	log *zap.SugaredLogger,
	builder *pipeline.Builder,
	repo *database.Repository,
) *TracksHandler {
	return &TracksHandler{
		log:     log,
		builder: builder,
		repo:    repo,
	}
}

type ListTracksResponse struct {
	Count  int                      `json:"count"`
	Tracks []soundprint.TrackRecord `json:"tracks"`
}

type BuildTracksRequest struct {
	Refs []string `json:"refs"`
	Save bool     `json:"save"`
}

type BuildFailure struct {
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

type BuildTracksResponse struct {
	Tracks   []soundprint.TrackRecord `json:"tracks"`
	Saved    []string                 `json:"saved"`
	Failures []BuildFailure           `json:"failures"`
}

func (h *TracksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.build(w, r)
	default:
		handler.WriteJSON(w, http.StatusMethodNotAllowed, handler.ErrorResponse{Error: "method not allowed"})
	}
}

// List tracks
// @Summary List stored tracks
// @Produce json
// @Success 200 {object} ListTracksResponse
// @Router /tracks [get]
func (h *TracksHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.Records()
	if err != nil {
		h.log.Errorw("Failed to read songs file", "err", err)
		handler.WriteError(w, err)
		return
	}
	if records == nil {
		records = []soundprint.TrackRecord{}
	}

	handler.WriteJSON(w, http.StatusOK, ListTracksResponse{Count: len(records), Tracks: records})
}

// Build tracks
// @Summary Build several tracks
// @Description Failed refs are reported and the rest of the batch is still built
// @Accept json
// @Produce json
// @Param request body BuildTracksRequest true "Track references"
// @Success 200 {object} BuildTracksResponse
// @Router /tracks [post]
func (h *TracksHandler) build(w http.ResponseWriter, r *http.Request) {
	var req BuildTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Refs) == 0 {
		handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorResponse{Error: "refs is required"})
		return
	}
	if len(req.Refs) > maxBatch {
		handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorResponse{Error: "too many refs"})
		return
	}

	resp := BuildTracksResponse{
		Tracks:   []soundprint.TrackRecord{},
		Saved:    []string{},
		Failures: []BuildFailure{},
	}

	var ids []string
	seen := make(map[string]bool)
	for _, ref := range req.Refs {
		id, err := spotify.ParseTrackRef(ref)
		if err != nil {
			resp.Failures = append(resp.Failures, BuildFailure{Ref: ref, Error: err.Error()})
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	records, failures := h.builder.BuildMany(r.Context(), ids)
	for _, f := range failures {
		resp.Failures = append(resp.Failures, BuildFailure{Ref: f.ID, Error: f.Err.Error()})
	}

	for _, rec := range records {
		resp.Tracks = append(resp.Tracks, rec)
		if !req.Save {
			continue
		}
		saved, err := h.repo.Save(rec)
		if err != nil {
			h.log.Errorw("Failed to save track", "id", rec.ID, "err", err)
			resp.Failures = append(resp.Failures, BuildFailure{Ref: rec.ID, Error: err.Error()})
			continue
		}
		if saved {
			resp.Saved = append(resp.Saved, rec.ID)
		}
	}

	h.log.Infow("Built batch", "refs", len(req.Refs), "built", len(resp.Tracks), "failed", len(resp.Failures))
	handler.WriteJSON(w, http.StatusOK, resp)
}
