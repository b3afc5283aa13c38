// Package trackid turns a player's raw track id into the key lyrics are
// looked up by. each player backend formats ids differently, so extraction is
// a strategy registered per player name.
package trackid

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type Extractor interface {
	Extract(ctx context.Context, rawID string) string
}

type ExtractorFunc func(ctx context.Context, rawID string) string

func (f ExtractorFunc) Extract(ctx context.Context, rawID string) string {
	return f(ctx, rawID)
}

type Registry struct {
	extractors map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register binds an extractor to a player name, replacing any previous one.
func (r *Registry) Register(player string, extractor Extractor) {
	r.extractors[player] = extractor
}

func (r *Registry) Lookup(player string) (Extractor, bool) {
	extractor, ok := r.extractors[player]
	return extractor, ok
}

func (r *Registry) Names() []string {
	names := lo.Keys(r.extractors)
	slices.Sort(names)
	return names
}

// Key returns the lookup key for a track, or "" for players without a
// registered strategy.
func (r *Registry) Key(ctx context.Context, player string, rawID string) string {
	extractor, ok := r.Lookup(player)
	if !ok {
		return ""
	}
	return extractor.Extract(ctx, rawID)
}

// Segment takes the n-th "/"-separated field of the raw id, counting the
// empty field before a leading slash.
func Segment(n int, stripQuotes bool) Extractor {
	return ExtractorFunc(func(_ context.Context, rawID string) string {
		fields := strings.Split(rawID, "/")
		if n < 0 || n >= len(fields) {
			return ""
		}
		field := fields[n]
		if stripQuotes {
			field = strings.ReplaceAll(field, "'", "")
		}
		return field
	})
}
