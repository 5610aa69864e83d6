package similar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mager/soundprint/database"
	"github.com/mager/soundprint/features"
	"github.com/mager/soundprint/logger"
	"github.com/mager/soundprint/soundprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *database.Repository {
	t.Helper()
	l, _ := logger.NewTestLogger()
	repo := database.NewRepository(filepath.Join(t.TempDir(), "songs.csv"), l)

	tracks := []struct {
		id, title string
		desc      soundprint.AudioDescriptors
	}{
		{"target", "Loud", soundprint.AudioDescriptors{Tempo: 1, Energy: 90, Danceability: 80, Loudness: "-5 dB"}},
		{"close", "Also Loud", soundprint.AudioDescriptors{Tempo: 1, Energy: 85, Danceability: 75, Loudness: "-6 dB"}},
		{"far", "Quiet", soundprint.AudioDescriptors{Tempo: 0, Acousticness: 95, Instrumentalness: 90, Loudness: "-40 dB"}},
	}
	for _, tr := range tracks {
		rec := features.NewRecord(tr.id, soundprint.TrackMetadata{Title: tr.title, Artist: "Band"}, tr.desc, 0, false)
		_, err := repo.Save(rec)
		require.NoError(t, err)
	}
	return repo
}

func serve(h http.Handler, id, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/tracks/"+id+"/similar"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSimilar(t *testing.T) {
	l, _ := logger.NewTestLogger()
	h := NewSimilarHandler(l, seed(t))

	rr := serve(h, "target", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp SimilarResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Loud", resp.Target.Title)
	require.Len(t, resp.Similar, 2)
	assert.Equal(t, "close", resp.Similar[0].ID)
	assert.Equal(t, "far", resp.Similar[1].ID)
	assert.Greater(t, resp.Similar[0].Similarity, resp.Similar[1].Similarity)

	rr = serve(h, "target", "?n=1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Similar, 1)
}

func TestSimilarErrors(t *testing.T) {
	l, _ := logger.NewTestLogger()
	h := NewSimilarHandler(l, seed(t))

	assert.Equal(t, http.StatusNotFound, serve(h, "missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "target", "?n=0").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "target", "?n=abc").Code)
}
