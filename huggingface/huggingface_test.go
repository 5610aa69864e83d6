package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mager/soundprint/soundprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/nlptown/bert-base-multilingual-uncased-sentiment", r.URL.Path)
		assert.Equal(t, "Bearer hf_token", r.Header.Get("Authorization"))

		var body request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "I love this", body.Inputs)
		assert.True(t, body.Options.WaitForModel)

		fmt.Fprint(w, `[[{"label":"5 stars","score":0.8},{"label":"4 stars","score":0.15}]]`)
	}))
	defer ts.Close()

	c := NewClassifier(ts.URL, "hf_token", "nlptown/bert-base-multilingual-uncased-sentiment")
	preds, err := c.Classify(context.Background(), "I love this")
	require.NoError(t, err)

	require.Len(t, preds, 2)
	assert.Equal(t, soundprint.Prediction{Label: "5 stars", Score: 0.8}, preds[0])
}

func TestClassifyFlatOutput(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"label":"POS","score":0.7},{"label":"NEU","score":0.2},{"label":"NEG","score":0.1}]`)
	}))
	defer ts.Close()

	preds, err := NewClassifier(ts.URL, "", "m").Classify(context.Background(), "te quiero")
	require.NoError(t, err)
	assert.Len(t, preds, 3)
	assert.Equal(t, "POS", preds[0].Label)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"model loading", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`},
		{"bad payload", http.StatusOK, `{"error":"nope"}`},
		{"empty", http.StatusOK, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := NewClassifier(ts.URL, "", "m").Classify(context.Background(), "x")

			var pe *soundprint.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "huggingface", pe.Provider)
			assert.Equal(t, tt.status, pe.StatusCode)
		})
	}
}
