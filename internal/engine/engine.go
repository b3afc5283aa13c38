// Package engine runs the polling cycle that keeps the displayed lyric line in
// step with the active player.
//
// every cycle runs to completion, including any lyric fetch, before the next
// one is scheduled. the lyric index and the current track identity live in a
// State owned by the caller of Step.
package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"karolbroda.com/lyricline/internal/lyrics"
	"karolbroda.com/lyricline/internal/player"
	"karolbroda.com/lyricline/internal/track"
	"karolbroda.com/lyricline/internal/trackid"
)

type Options struct {
	Provider player.Provider
	// Pinned restricts tracking to one player name.
	Pinned   string
	Registry *trackid.Registry
	Fetcher  lyrics.Fetcher
	Sink     Sink
	Logger   *zap.Logger

	Interval     time.Duration
	FetchTimeout time.Duration
	// RetryAfter re-fetches lyrics for a track whose fetch failed once this
	// much time has passed. zero never retries until the track changes.
	RetryAfter time.Duration
	Fallback   string

	Now func() time.Time
}

// State is everything that survives from one cycle to the next.
type State struct {
	Identity track.Identity
	// Tracking is false until the first player has been seen.
	Tracking bool
	Index    *lyrics.Index

	fetchFailed bool
	failedAt    time.Time
}

type Engine struct {
	provider     player.Provider
	pinned       string
	registry     *trackid.Registry
	fetcher      lyrics.Fetcher
	sink         Sink
	log          *zap.Logger
	interval     time.Duration
	fetchTimeout time.Duration
	retryAfter   time.Duration
	fallback     string
	now          func() time.Time
}

func New(opts Options) (*Engine, error) {
	if opts.Provider == nil {
		return nil, errors.New("nil player provider")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("nil lyrics fetcher")
	}

	e := &Engine{
		provider:     opts.Provider,
		pinned:       opts.Pinned,
		registry:     opts.Registry,
		fetcher:      opts.Fetcher,
		sink:         opts.Sink,
		log:          opts.Logger,
		interval:     opts.Interval,
		fetchTimeout: opts.FetchTimeout,
		retryAfter:   opts.RetryAfter,
		fallback:     opts.Fallback,
		now:          opts.Now,
	}

	if e.registry == nil {
		e.registry = trackid.NewRegistry()
	}
	if e.sink == nil {
		e.sink = SinkFunc(func(Frame) {})
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.interval <= 0 {
		e.interval = 200 * time.Millisecond
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e, nil
}

// Run drives cycles until ctx is cancelled, sleeping the configured interval
// between the end of one cycle and the start of the next.
func (e *Engine) Run(ctx context.Context) error {
	var state State

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		frame := e.Step(ctx, &state)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.sink.Show(frame)

		timer.Reset(e.interval)
	}
}

// Step runs one cycle against state and returns what should be displayed.
// no failure inside a cycle is fatal; each one degrades to the fallback text.
func (e *Engine) Step(ctx context.Context, state *State) Frame {
	name, err := player.Active(ctx, e.provider, e.pinned)
	if err != nil {
		e.log.Warn("player discovery failed", zap.Error(err))
		return e.withFallback(Frame{})
	}
	if name == "" {
		return e.withFallback(Frame{})
	}

	metadata, err := e.provider.Metadata(ctx, name)
	if err != nil {
		e.log.Debug("player metadata unavailable", zap.String("player", name), zap.Error(err))
		metadata = nil
	}

	snapshot := track.FromMetadata(name, metadata)
	key := e.registry.Key(ctx, name, snapshot.TrackID)
	identity := snapshot.Identity(key)

	if !state.Tracking || track.Changed(state.Identity, identity) {
		e.log.Debug("track changed",
			zap.String("player", name),
			zap.String("title", identity.Title),
			zap.String("key", key),
		)
		state.Identity = identity
		state.Tracking = true
		e.refresh(ctx, state)
	} else if e.shouldRetry(state) {
		e.log.Debug("retrying lyrics fetch", zap.String("key", key))
		e.refresh(ctx, state)
	}

	return e.resolve(state, snapshot)
}

// refresh discards the current index and rebuilds it for state.Identity.
func (e *Engine) refresh(ctx context.Context, state *State) {
	state.Index = nil
	state.fetchFailed = false

	key := state.Identity.TrackID
	if key == "" {
		return
	}

	fetchCtx := ctx
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}

	document, err := e.fetcher.Fetch(fetchCtx, key)
	if err != nil {
		state.fetchFailed = true
		state.failedAt = e.now()
		e.log.Warn("lyrics fetch failed",
			zap.String("key", key),
			zap.Bool("timeout", lyrics.IsTimeout(err)),
			zap.Error(err),
		)
		return
	}

	state.Index = lyrics.Parse(document)
	e.log.Info("lyrics loaded", zap.String("key", key), zap.Int("lines", state.Index.Len()))
}

func (e *Engine) shouldRetry(state *State) bool {
	if e.retryAfter <= 0 || !state.fetchFailed || state.Identity.TrackID == "" {
		return false
	}
	return e.now().Sub(state.failedAt) >= e.retryAfter
}

func (e *Engine) resolve(state *State, snapshot track.Snapshot) Frame {
	frame := Frame{Snapshot: snapshot, Index: state.Index}

	if !snapshot.HasPosition() || state.Index.Len() == 0 {
		return e.withFallback(frame)
	}

	position, err := lyrics.ParseDuration(snapshot.Position)
	if err != nil {
		e.log.Debug("unreadable playback position", zap.String("position", snapshot.Position), zap.Error(err))
		return e.withFallback(frame)
	}
	frame.Position = position
	frame.Synced = true

	text, ok := state.Index.Resolve(position)
	if !ok {
		return e.withFallback(frame)
	}

	frame.Text = text
	frame.Current = true
	return frame
}

func (e *Engine) withFallback(frame Frame) Frame {
	frame.Text = e.fallback
	frame.Current = false
	return frame
}
