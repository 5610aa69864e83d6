package util

import (
	"sort"

	spot "github.com/zmb3/spotify/v2"
	"golang.org/x/exp/maps"
)

func GetFirstArtist(artists []spot.SimpleArtist) string {
	if len(artists) == 0 {
		return "Various Artists"
	}

	return artists[0].Name
}

func GetReleaseDate(album spot.SimpleAlbum) string {
	return album.ReleaseDate
}

func GetISRC(track *spot.FullTrack) *string {
	if isrc, ok := track.ExternalIDs["isrc"]; ok {
		return &isrc
	}

	return nil
}

// RankByCount returns the keys of counts ordered by count, most common first.
// Ties are broken alphabetically. A limit of 0 or less returns every key.
func RankByCount(counts map[string]int, limit int) []string {
	sorted := maps.Keys(counts)
	sort.Slice(sorted, func(i, j int) bool {
		if counts[sorted[i]] != counts[sorted[j]] {
			return counts[sorted[i]] > counts[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
