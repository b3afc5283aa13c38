package main

import (
	"fmt"
	"io"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"karolbroda.com/lyricline/internal/cache"
	"karolbroda.com/lyricline/internal/config"
	"karolbroda.com/lyricline/internal/engine"
	"karolbroda.com/lyricline/internal/logger"
	"karolbroda.com/lyricline/internal/lyrics"
	"karolbroda.com/lyricline/internal/player"
	"karolbroda.com/lyricline/internal/trackid"
)

func newLogger(cfg *config.Config, console io.Writer) (*zap.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
		Console:  console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// newProvider opens the configured backend. the returned func releases it.
func newProvider(cfg *config.Config) (player.Provider, func(), error) {
	switch cfg.Backend {
	case config.BackendPlayerctl:
		return player.NewPlayerctl(player.DefaultPlayerctl), func() {}, nil

	case config.BackendMPRIS:
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to session bus: %w", err)
		}
		provider, err := player.NewMPRIS(bus)
		if err != nil {
			bus.Close()
			return nil, nil, err
		}
		return provider, func() { bus.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func newFetcher(cfg *config.Config) (lyrics.Fetcher, error) {
	client, err := lyrics.NewNeteaseClient(cfg.NeteaseURL, lyrics.NewHTTPClient(cfg.FetchTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create lyrics client: %w", err)
	}
	return lyrics.NewCachedFetcher(client, cache.Default(), !cfg.NoCache), nil
}

func newEngine(cfg *config.Config, log *zap.Logger, sink engine.Sink) (*engine.Engine, func(), error) {
	provider, release, err := newProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		release()
		return nil, nil, err
	}

	eng, err := engine.New(engine.Options{
		Provider:     provider,
		Pinned:       cfg.Player,
		Registry:     trackid.Default(cfg.YesPlayMusicURL, lyrics.NewHTTPClient(cfg.FetchTimeout)),
		Fetcher:      fetcher,
		Sink:         sink,
		Logger:       log,
		Interval:     cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
		RetryAfter:   cfg.RetryAfter,
		Fallback:     cfg.Fallback,
	})
	if err != nil {
		release()
		return nil, nil, err
	}

	log.Debug("engine ready",
		zap.String("backend", cfg.Backend),
		zap.String("player", cfg.Player),
		zap.Duration("interval", cfg.PollInterval),
		zap.Bool("no_cache", cfg.NoCache),
	)

	return eng, release, nil
}
