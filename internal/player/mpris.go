package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/samber/lo"
)

const (
	mprisBusPrefix   = "org.mpris.MediaPlayer2."
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisRootIface   = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	propertiesGet    = "org.freedesktop.DBus.Properties.Get"
)

// MPRIS queries players directly over the session bus. player names are the
// bus name suffix, which matches what playerctl prints.
type MPRIS struct {
	bus *dbus.Conn
}

func NewMPRIS(bus *dbus.Conn) (*MPRIS, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	return &MPRIS{bus: bus}, nil
}

func (m *MPRIS) Players(ctx context.Context) ([]string, error) {
	var names []string
	err := m.bus.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list dbus names: %w", err)
	}

	return playerNames(names), nil
}

func playerNames(busNames []string) []string {
	mprisNames := lo.Filter(busNames, func(name string, _ int) bool {
		return strings.HasPrefix(name, mprisBusPrefix)
	})
	return lo.Map(mprisNames, func(name string, _ int) string {
		return strings.TrimPrefix(name, mprisBusPrefix)
	})
}

func (m *MPRIS) Metadata(ctx context.Context, name string) (Metadata, error) {
	obj := m.bus.Object(mprisBusPrefix+name, mprisPath)

	var raw dbus.Variant
	err := obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayerIface, "Metadata").Store(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata property: %w", err)
	}

	fields, ok := raw.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected metadata type %T", raw.Value())
	}

	metadata := metadataFromVariants(fields)

	// position is optional; some players do not implement it
	var position dbus.Variant
	err = obj.CallWithContext(ctx, propertiesGet, 0, mprisPlayerIface, "Position").Store(&position)
	if err == nil {
		if micros, ok := position.Value().(int64); ok {
			metadata[KeyPosition] = FormatPosition(micros)
		}
	}

	return metadata, nil
}

// Identity returns the human readable name a player advertises.
func (m *MPRIS) Identity(ctx context.Context, name string) string {
	obj := m.bus.Object(mprisBusPrefix+name, mprisPath)

	var raw dbus.Variant
	err := obj.CallWithContext(ctx, propertiesGet, 0, mprisRootIface, "Identity").Store(&raw)
	if err != nil {
		return ""
	}

	identity, _ := raw.Value().(string)
	return identity
}

func metadataFromVariants(fields map[string]dbus.Variant) Metadata {
	metadata := make(Metadata)

	set := func(key string, value string) {
		if value != "" {
			metadata[key] = value
		}
	}

	set(KeyTitle, extractString(fields, "xesam:title"))
	set(KeyArtist, extractArtist(fields, "xesam:artist"))
	set(KeyAlbum, extractString(fields, "xesam:album"))
	set(KeyArtURL, extractString(fields, "mpris:artUrl"))
	set(KeyTrackID, extractString(fields, "mpris:trackid"))

	return metadata
}

// FormatPosition renders an MPRIS position in microseconds as "m:ss".
func FormatPosition(micros int64) string {
	if micros < 0 {
		micros = 0
	}
	seconds := micros / 1_000_000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case string:
		return typed
	case dbus.ObjectPath:
		return string(typed)
	default:
		return ""
	}
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		return strings.Join(typed, ", ")
	case string:
		return typed
	default:
		return ""
	}
}
