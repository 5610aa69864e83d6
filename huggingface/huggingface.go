package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mager/soundprint/soundprint"
)

// Classifier runs a hosted text classification model through the
// Hugging Face Inference API.
type Classifier struct {
	http  *resty.Client
	model string
}

func NewClassifier(baseURL, token, model string) *Classifier {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Classifier{http: c, model: model}
}

// Model returns the model id this classifier calls.
func (c *Classifier) Model() string {
	return c.model
}

type request struct {
	Inputs  string  `json:"inputs"`
	Options options `json:"options"`
}

type options struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Classify returns every class the model scored for text.
func (c *Classifier) Classify(ctx context.Context, text string) ([]soundprint.Prediction, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetRawPathParam("model", c.model).
		SetBody(request{Inputs: text, Options: options{WaitForModel: true}}).
		Post("/models/{model}")
	if err != nil {
		return nil, &soundprint.ProviderError{Provider: "huggingface", Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &soundprint.ProviderError{
			Provider:   "huggingface",
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	preds, err := decodePredictions(resp.Body())
	if err != nil {
		return nil, &soundprint.ProviderError{Provider: "huggingface", StatusCode: resp.StatusCode(), Err: err}
	}
	return preds, nil
}

// decodePredictions accepts both [[{label, score}]] (one list per input)
// and a flat [{label, score}].
func decodePredictions(b []byte) ([]soundprint.Prediction, error) {
	var nested [][]soundprint.Prediction
	if err := json.Unmarshal(b, &nested); err == nil {
		if len(nested) == 0 {
			return nil, fmt.Errorf("empty classifier output")
		}
		return nested[0], nil
	}

	var flat []soundprint.Prediction
	if err := json.Unmarshal(b, &flat); err != nil {
		return nil, fmt.Errorf("decode classifier output: %w", err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("empty classifier output")
	}
	return flat, nil
}
