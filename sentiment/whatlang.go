package sentiment

import (
	"errors"

	"github.com/abadojack/whatlanggo"
)

var errUndetected = errors.New("language not detected")

// scoredLanguages limits detection to the languages a classifier exists for.
// Unrestricted trigram detection misreads short lyric lines as Dutch or Haitian.
var scoredLanguages = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Spa: true,
	},
}

// WhatLang detects languages offline with whatlanggo.
type WhatLang struct{}

// Detect returns the ISO 639-1 code of text.
func (WhatLang) Detect(text string) (string, error) {
	info := whatlanggo.DetectWithOptions(text, scoredLanguages)
	if info.Script == nil || info.Lang < 0 {
		return "", errUndetected
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "", errUndetected
	}
	return code, nil
}
