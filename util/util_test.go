package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	spot "github.com/zmb3/spotify/v2"
)

func TestGetFirstArtist(t *testing.T) {
	assert.Equal(t, "Various Artists", GetFirstArtist(nil))
	assert.Equal(t, "Bad Bunny", GetFirstArtist([]spot.SimpleArtist{{Name: "Bad Bunny"}, {Name: "Jhay Cortez"}}))
}

func TestGetISRC(t *testing.T) {
	track := &spot.FullTrack{ExternalIDs: map[string]string{"isrc": "USUG11904206"}}
	if assert.NotNil(t, GetISRC(track)) {
		assert.Equal(t, "USUG11904206", *GetISRC(track))
	}

	assert.Nil(t, GetISRC(&spot.FullTrack{}))
}

func TestRankByCount(t *testing.T) {
	counts := map[string]int{"pop": 3, "synthwave": 5, "r&b": 3, "dance": 1}

	assert.Equal(t, []string{"synthwave", "pop", "r&b", "dance"}, RankByCount(counts, 0))
	assert.Equal(t, []string{"synthwave", "pop"}, RankByCount(counts, 2))
	assert.Empty(t, RankByCount(nil, 3))
}
