package track

import (
	"karolbroda.com/lyricline/internal/player"
)

// Snapshot is one poll's view of the active player. missing metadata is an
// empty string.
type Snapshot struct {
	Player     string
	Title      string
	Artist     string
	Album      string
	ArtworkURL string
	TrackID    string
	Position   string
}

// Identity is what decides whether the lyric index must be rebuilt.
type Identity struct {
	Title   string
	TrackID string
}

func FromMetadata(playerName string, metadata player.Metadata) Snapshot {
	return Snapshot{
		Player:     playerName,
		Title:      metadata.Get(player.KeyTitle),
		Artist:     metadata.Get(player.KeyArtist),
		Album:      metadata.Get(player.KeyAlbum),
		ArtworkURL: metadata.Get(player.KeyArtURL),
		TrackID:    metadata.Get(player.KeyTrackID),
		Position:   metadata.Get(player.KeyPosition),
	}
}

// Identity pairs the title with the canonical lookup key derived from the raw
// track id.
func (s Snapshot) Identity(key string) Identity {
	return Identity{Title: s.Title, TrackID: key}
}

func (s Snapshot) HasPosition() bool {
	return s.Position != ""
}

// Changed reports whether either half of the identity differs.
func Changed(previous Identity, current Identity) bool {
	return current.Title != previous.Title || current.TrackID != previous.TrackID
}
