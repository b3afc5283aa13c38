package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const DefaultPlayerctl = "playerctl"

var playerctlKeys = []string{KeyTitle, KeyArtist, KeyAlbum, KeyArtURL, KeyTrackID}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Playerctl queries players through the playerctl command.
type Playerctl struct {
	binary string
	run    runFunc
}

func NewPlayerctl(binary string) *Playerctl {
	if binary == "" {
		binary = DefaultPlayerctl
	}
	return &Playerctl{binary: binary, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (p *Playerctl) Players(ctx context.Context) ([]string, error) {
	out, err := p.output(ctx, "--list-all")
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (p *Playerctl) Metadata(ctx context.Context, name string) (Metadata, error) {
	metadata := make(Metadata)

	for _, key := range playerctlKeys {
		value, err := p.output(ctx, "--player", name, "metadata", key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if value != "" {
			metadata[key] = value
		}
	}

	position, err := p.output(ctx, "--player", name, "metadata", "--format", "{{ duration(position) }}")
	if err != nil {
		return nil, fmt.Errorf("failed to read position: %w", err)
	}
	if position != "" {
		metadata[KeyPosition] = position
	}

	return metadata, nil
}

// output runs playerctl and returns trimmed stdout. a non-zero exit is how
// playerctl reports "no players" or "no such key", so it yields "".
func (p *Playerctl) output(ctx context.Context, args ...string) (string, error) {
	out, err := p.run(ctx, p.binary, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
