package player

import (
	"context"
	"slices"
)

// metadata keys, named after playerctl's
const (
	KeyTitle    = "title"
	KeyArtist   = "artist"
	KeyAlbum    = "album"
	KeyArtURL   = "mpris:artUrl"
	KeyTrackID  = "mpris:trackid"
	KeyPosition = "position"
)

// Metadata is the now-playing bag of one player. an absent key means unknown.
type Metadata map[string]string

func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Provider is a now-playing backend.
type Provider interface {
	// Players lists running players, most relevant first. an empty list with a
	// nil error means no player is active.
	Players(ctx context.Context) ([]string, error)
	Metadata(ctx context.Context, name string) (Metadata, error)
}

// Active returns the player to follow this cycle: the pinned one when it is
// running, otherwise the first listed. "" means none.
func Active(ctx context.Context, provider Provider, pinned string) (string, error) {
	names, err := provider.Players(ctx)
	if err != nil {
		return "", err
	}

	if pinned != "" {
		if slices.Contains(names, pinned) {
			return pinned, nil
		}
		return "", nil
	}

	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}
