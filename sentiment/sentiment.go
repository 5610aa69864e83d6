package sentiment

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/huggingface"
	"github.com/mager/soundprint/soundprint"
	"go.uber.org/zap"
)

const (
	english = "en"
	spanish = "es"
)

type LanguageDetector interface {
	Detect(text string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) ([]soundprint.Prediction, error)
}

// Scorer turns lyrics into a SentimentScore, one line at a time.
type Scorer struct {
	detector LanguageDetector
	english  Classifier
	spanish  Classifier
	log      *zap.SugaredLogger
}

func ProvideScorer(cfg config.Config, log *zap.SugaredLogger) *Scorer {
	return NewScorer(
		WhatLang{},
		huggingface.NewClassifier(cfg.HuggingFaceBaseURL, cfg.HuggingFaceToken, cfg.EnglishSentimentModel),
		huggingface.NewClassifier(cfg.HuggingFaceBaseURL, cfg.HuggingFaceToken, cfg.SpanishSentimentModel),
		log,
	)
}

func NewScorer(detector LanguageDetector, english, spanish Classifier, log *zap.SugaredLogger) *Scorer {
	return &Scorer{detector: detector, english: english, spanish: spanish, log: log}
}

// Score averages the per-line sentiment of lyrics. Lines in languages other
// than English and Spanish count as neutral. Empty lyrics score exactly 0.
func (s *Scorer) Score(ctx context.Context, lyrics string) soundprint.SentimentScore {
	lines := Lines(lyrics)
	if len(lines) == 0 {
		return 0
	}

	var total float64
	for _, line := range lines {
		total += s.scoreLine(ctx, line)
	}

	return soundprint.SentimentScore(clamp(total / float64(len(lines))))
}

func (s *Scorer) scoreLine(ctx context.Context, line string) float64 {
	lang, err := s.detector.Detect(line)
	if err != nil {
		lang = english
	}

	switch lang {
	case english:
		preds, err := s.english.Classify(ctx, line)
		if err != nil {
			s.log.Warnw("English sentiment failed", "line", line, "err", err)
			return 0
		}
		return StarScore(preds)
	case spanish:
		preds, err := s.spanish.Classify(ctx, line)
		if err != nil {
			s.log.Warnw("Spanish sentiment failed", "line", line, "err", err)
			return 0
		}
		return PolarityScore(preds)
	default:
		return 0
	}
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// StarScore maps the top prediction of a 1 to 5 star model to
// (stars-3)/2 weighted by its confidence.
func StarScore(preds []soundprint.Prediction) float64 {
	top, ok := best(preds)
	if !ok {
		return 0
	}
	stars, ok := parseStars(top.Label)
	if !ok {
		return 0
	}
	return clamp((float64(stars) - 3) / 2 * top.Score)
}

// PolarityScore is the expected value of a negative/neutral/positive
// distribution with weights -1, 0 and 1.
func PolarityScore(preds []soundprint.Prediction) float64 {
	var v float64
	for _, p := range preds {
		l := strings.ToLower(p.Label)
		switch {
		case strings.HasPrefix(l, "neg"):
			v -= p.Score
		case strings.HasPrefix(l, "pos"):
			v += p.Score
		}
	}
	return clamp(v)
}

func best(preds []soundprint.Prediction) (soundprint.Prediction, bool) {
	if len(preds) == 0 {
		return soundprint.Prediction{}, false
	}
	top := preds[0]
	for _, p := range preds[1:] {
		if p.Score > top.Score {
			top = p
		}
	}
	return top, true
}

// parseStars reads labels like "4 stars" or "1 star".
func parseStars(label string) (int, bool) {
	f := strings.Fields(label)
	if len(f) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(f[0])
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

var Options = ProvideScorer
