package soundnet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/soundprint"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 3 * time.Second
)

// Settings controls how the client talks to SoundNet.
type Settings struct {
	BaseURL string
	APIKey  string
	Host    string

	// MinInterval is the minimum spacing between two calls.
	MinInterval time.Duration
	// MaxAttempts bounds the number of calls made for one lookup when
	// SoundNet keeps answering 429.
	MaxAttempts int
	// RetryBackoff is the fixed wait after a 429.
	RetryBackoff time.Duration
}

type SoundNetClient struct {
	http    *resty.Client
	limiter *RateLimiter
	log     *zap.SugaredLogger

	configured bool
}

func ProvideSoundNet(cfg config.Config, log *zap.SugaredLogger) *SoundNetClient {
	return NewSoundNetClient(Settings{
		BaseURL:      cfg.SoundNetBaseURL,
		APIKey:       cfg.SoundNetAPIKey,
		Host:         cfg.SoundNetHost,
		MinInterval:  cfg.SoundNetMinInterval,
		MaxAttempts:  cfg.SoundNetMaxAttempts,
		RetryBackoff: cfg.SoundNetRetryBackoff,
	}, log)
}

func NewSoundNetClient(s Settings, log *zap.SugaredLogger) *SoundNetClient {
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = defaultMaxAttempts
	}
	if s.RetryBackoff <= 0 {
		s.RetryBackoff = defaultBackoff
	}

	c := &SoundNetClient{
		limiter:    NewRateLimiter(s.MinInterval),
		log:        log,
		configured: s.APIKey != "",
	}

	backoff := s.RetryBackoff
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(s.BaseURL, "/")).
		SetHeader("x-rapidapi-key", s.APIKey).
		SetHeader("x-rapidapi-host", s.Host).
		SetHeader("connection", "close").
		SetTimeout(30*time.Second).
		SetRetryCount(s.MaxAttempts-1).
		SetRetryWaitTime(backoff).
		SetRetryMaxWaitTime(backoff).
		SetRetryAfter(func(*resty.Client, *resty.Response) (time.Duration, error) {
			return backoff, nil
		}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r != nil && r.StatusCode() == http.StatusTooManyRequests
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			c.log.Warnw("SoundNet rate limited, retrying", "attempt", r.Request.Attempt, "backoff", backoff)
		}).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return c.limiter.Wait(r.Context())
		})

	return c
}

// Configured reports whether an API key was supplied.
func (c *SoundNetClient) Configured() bool {
	return c.configured
}

// FetchDescriptors returns the audio analysis for a Spotify track id.
func (c *SoundNetClient) FetchDescriptors(ctx context.Context, trackID string) (soundprint.AudioDescriptors, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", trackID).
		Get("/pktx/spotify/{id}")
	if err != nil {
		return soundprint.AudioDescriptors{}, &soundprint.ProviderError{Provider: "soundnet", Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return soundprint.AudioDescriptors{}, &soundprint.ProviderError{
			Provider:   "soundnet",
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	var d soundprint.AudioDescriptors
	if err := json.Unmarshal(resp.Body(), &d); err != nil {
		return soundprint.AudioDescriptors{}, &soundprint.ProviderError{
			Provider:   "soundnet",
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("decode analysis: %w", err),
		}
	}

	c.log.Infow("Fetched SoundNet analysis", "id", trackID, "tempo", d.Tempo, "energy", d.Energy)

	return d, nil
}

var Options = ProvideSoundNet
