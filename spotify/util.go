package spotify

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned for input that is not a track URI, a track
// URL or a bare track id.
var ErrInvalidReference = errors.New("invalid track reference")

var (
	trackURIPattern = regexp.MustCompile(`^spotify:track:([A-Za-z0-9]+)$`)
	trackURLPattern = regexp.MustCompile(`^(?:https?://)?open\.spotify\.com/(?:intl-[A-Za-z-]+/)?track/([A-Za-z0-9]+)/?(?:[?#].*)?$`)
	trackIDPattern  = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
)

// ParseTrackRef normalizes a track reference to a bare id. Accepted forms:
//
//	spotify:track:<id>
//	https://open.spotify.com/track/<id>
//	https://open.spotify.com/intl-es/track/<id>?si=...
//	<22 character id>
func ParseTrackRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	if m := trackURIPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if m := trackURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if trackIDPattern.MatchString(ref) {
		return ref, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
}
