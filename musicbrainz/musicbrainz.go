package musicbrainz

import (
	"context"

	"github.com/mager/musicbrainz-go/musicbrainz"
	"github.com/mager/soundprint/config"
	"github.com/mager/soundprint/util"
	"go.uber.org/zap"
)

const (
	// maxGenres caps how many genres are attached to a track.
	maxGenres = 5
	// recordingsConsidered is how many search hits get a genre vote.
	recordingsConsidered = 3
)

type MusicbrainzClient struct {
	Client  *musicbrainz.MusicbrainzClient
	enabled bool
	log     *zap.SugaredLogger
}

func ProvideMusicbrainz(cfg config.Config, log *zap.SugaredLogger) *MusicbrainzClient {
	mb := musicbrainz.NewMusicbrainzClient()
	mb.Log = log

	return &MusicbrainzClient{
		Client:  mb,
		enabled: cfg.MusicBrainzEnabled,
		log:     log,
	}
}

// Configured reports whether genre enrichment is switched on.
func (c *MusicbrainzClient) Configured() bool {
	return c.enabled && c.Client != nil
}

// GenresForTrack looks the recording up by ISRC, then by artist and title,
// and returns its most voted genres. No match is not an error.
func (c *MusicbrainzClient) GenresForTrack(ctx context.Context, isrc, artist, title string) ([]string, error) {
	if !c.Configured() {
		return nil, nil
	}

	votes := make(map[string]int)

	if isrc != "" {
		resp, err := c.Client.SearchRecordingsByISRC(musicbrainz.SearchRecordingsByISRCRequest{ISRC: isrc})
		if err != nil {
			c.log.Debugw("MusicBrainz ISRC search failed", "isrc", isrc, "error", err)
		} else if resp.Count > 0 {
			for i, r := range resp.Recordings {
				if i == recordingsConsidered {
					break
				}
				if r.Genres != nil {
					for _, g := range *r.Genres {
						votes[g.Name]++
					}
				}
			}
			return TopGenres(votes), nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if artist == "" || title == "" {
		return nil, nil
	}

	resp, err := c.Client.SearchRecordingsByArtistAndTrack(musicbrainz.SearchRecordingsByArtistAndTrackRequest{
		Artist: artist,
		Track:  title,
	})
	if err != nil {
		return nil, err
	}
	for i, r := range resp.Recordings {
		if i == recordingsConsidered {
			break
		}
		if r.Genres != nil {
			for _, g := range *r.Genres {
				votes[g.Name]++
			}
		}
	}

	return TopGenres(votes), nil
}

// TopGenres orders genre votes, most voted first, keeping at most maxGenres.
func TopGenres(votes map[string]int) []string {
	delete(votes, "")
	if len(votes) == 0 {
		return nil
	}
	return util.RankByCount(votes, maxGenres)
}

var Options = ProvideMusicbrainz
