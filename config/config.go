package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "soundprint"

type Config struct {
	Port     string `default:"8080"`
	LogLevel string `split_words:"true" default:"info"`

	SpotifyID     string `split_words:"true"`
	SpotifySecret string `split_words:"true"`

	SoundNetAPIKey       string        `envconfig:"SOUNDNET_API_KEY"`
	SoundNetHost         string        `envconfig:"SOUNDNET_HOST" default:"track-analysis.p.rapidapi.com"`
	SoundNetBaseURL      string        `envconfig:"SOUNDNET_BASE_URL" default:"https://track-analysis.p.rapidapi.com"`
	SoundNetMinInterval  time.Duration `envconfig:"SOUNDNET_MIN_INTERVAL" default:"1s"`
	SoundNetMaxAttempts  int           `envconfig:"SOUNDNET_MAX_ATTEMPTS" default:"3"`
	SoundNetRetryBackoff time.Duration `envconfig:"SOUNDNET_RETRY_BACKOFF" default:"3s"`

	MusixmatchAPIKey  string `split_words:"true"`
	MusixmatchBaseURL string `split_words:"true" default:"https://api.musixmatch.com/ws/1.1"`

	HuggingFaceToken      string `envconfig:"HUGGINGFACE_TOKEN"`
	HuggingFaceBaseURL    string `envconfig:"HUGGINGFACE_BASE_URL" default:"https://api-inference.huggingface.co"`
	EnglishSentimentModel string `split_words:"true" default:"nlptown/bert-base-multilingual-uncased-sentiment"`
	SpanishSentimentModel string `split_words:"true" default:"pysentimiento/robertuito-sentiment-analysis"`

	MusicBrainzEnabled bool `envconfig:"MUSICBRAINZ_ENABLED" default:"true"`

	// SongsFile is the CSV collection that saved tracks are appended to.
	SongsFile string `split_words:"true" default:"songs.csv"`
}

// Load reads a .env file when present and then the SOUNDPRINT_* environment.
func Load() (Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ProvideConfig() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
