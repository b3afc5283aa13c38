package player

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeProvider struct {
	names []string
	err   error
}

func (f fakeProvider) Players(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

func (f fakeProvider) Metadata(ctx context.Context, name string) (Metadata, error) {
	return nil, nil
}

func TestActive(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		pinned   string
		expected string
	}{
		{"none running", nil, "", ""},
		{"first wins", []string{"musicfox", "spotify"}, "", "musicfox"},
		{"pinned running", []string{"musicfox", "spotify"}, "spotify", "spotify"},
		{"pinned absent", []string{"musicfox"}, "spotify", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Active(context.Background(), fakeProvider{names: tc.names}, tc.pinned)
			if err != nil {
				t.Fatalf("Active failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Active = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestActivePropagatesDiscoveryError(t *testing.T) {
	_, err := Active(context.Background(), fakeProvider{err: errors.New("no bus")}, "")
	if err == nil {
		t.Error("expected discovery error")
	}
}

// exitError produces a real *exec.ExitError without depending on playerctl.
func exitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit 1").Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Skipf("cannot produce exit error: %v", err)
	}
	return err
}

func TestPlayerctlMetadata(t *testing.T) {
	notFound := exitError(t)

	responses := map[string]string{
		"--list-all": "musicfox\nspotify\n",

		"--player musicfox metadata title":                             "Song A\n",
		"--player musicfox metadata artist":                            "Someone",
		"--player musicfox metadata mpris:trackid":                     "'/org/mpris/MediaPlayer2/musicfox/1/'",
		"--player musicfox metadata --format {{ duration(position) }}": "1:05\n",
	}

	p := NewPlayerctl("")
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != DefaultPlayerctl {
			t.Errorf("unexpected binary %q", name)
		}
		out, ok := responses[strings.Join(args, " ")]
		if !ok {
			return nil, notFound
		}
		return []byte(out), nil
	}

	names, err := p.Players(context.Background())
	if err != nil {
		t.Fatalf("Players failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"musicfox", "spotify"}) {
		t.Errorf("unexpected players %v", names)
	}

	metadata, err := p.Metadata(context.Background(), "musicfox")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	expected := Metadata{
		KeyTitle:    "Song A",
		KeyArtist:   "Someone",
		KeyTrackID:  "'/org/mpris/MediaPlayer2/musicfox/1/'",
		KeyPosition: "1:05",
	}
	if !reflect.DeepEqual(metadata, expected) {
		t.Errorf("Metadata = %v, want %v", metadata, expected)
	}
}

func TestPlayerctlNoPlayers(t *testing.T) {
	notFound := exitError(t)

	p := NewPlayerctl("")
	p.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, notFound
	}

	names, err := p.Players(context.Background())
	if err != nil {
		t.Fatalf("a non-zero exit should mean no players, got %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no players, got %v", names)
	}
}

func TestPlayerctlMissingBinary(t *testing.T) {
	p := NewPlayerctl("/nonexistent/playerctl")

	if _, err := p.Players(context.Background()); err == nil {
		t.Error("expected an error when playerctl cannot be started")
	}
}

func TestPlayerNames(t *testing.T) {
	busNames := []string{
		"org.freedesktop.DBus",
		"org.mpris.MediaPlayer2.musicfox",
		":1.42",
		"org.mpris.MediaPlayer2.chromium.instance1234",
	}

	got := playerNames(busNames)
	expected := []string{"musicfox", "chromium.instance1234"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("playerNames = %v, want %v", got, expected)
	}
}

func TestMetadataFromVariants(t *testing.T) {
	fields := map[string]dbus.Variant{
		"xesam:title":   dbus.MakeVariant("Song A"),
		"xesam:artist":  dbus.MakeVariant([]string{"One", "Two"}),
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/com/feeluown/track/1")),
		"mpris:length":  dbus.MakeVariant(int64(180_000_000)),
		"xesam:album":   dbus.MakeVariant(42),
	}

	expected := Metadata{
		KeyTitle:   "Song A",
		KeyArtist:  "One, Two",
		KeyTrackID: "/com/feeluown/track/1",
	}

	got := metadataFromVariants(fields)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("metadataFromVariants = %v, want %v", got, expected)
	}
}

func TestFormatPosition(t *testing.T) {
	tests := map[int64]string{
		-5:            "0:00",
		0:             "0:00",
		5_400_000:     "0:05",
		65_000_000:    "1:05",
		3_725_000_000: "62:05",
	}

	for micros, expected := range tests {
		if got := FormatPosition(micros); got != expected {
			t.Errorf("FormatPosition(%d) = %q, want %q", micros, got, expected)
		}
	}
}

func TestMetadataGetNil(t *testing.T) {
	var metadata Metadata
	if metadata.Get(KeyTitle) != "" {
		t.Error("nil metadata should read as empty")
	}
}
