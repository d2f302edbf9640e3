// Package app assembles the player, audio output, quotes and cache from a
// loaded configuration. Both front ends build on it.
package app

import (
	"fmt"
	"path/filepath"

	shivam "github.com/ItIsShivam/ItZShivam"
	"github.com/ItIsShivam/ItZShivam/internal/assetcache"
	"github.com/ItIsShivam/ItZShivam/internal/audio"
	"github.com/ItIsShivam/ItZShivam/internal/config"
	"github.com/ItIsShivam/ItZShivam/internal/quote"
	"github.com/ItIsShivam/ItZShivam/internal/spectrum"
	"github.com/ItIsShivam/ItZShivam/internal/store"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type App struct {
	Config    *config.Config
	Dirs      config.Dirs
	Log       zerolog.Logger
	Analyser  *spectrum.Analyser
	Pipeline  *audio.Pipeline
	Cache     *assetcache.Cache
	Element   *audio.Element
	Player    *shivam.Player
	Generator *quote.Generator
	Store     *store.Store
}

// Tracks builds the active track list: the configured tracks when present,
// the stock manifest otherwise.
func Tracks(cfg *config.Config) []shivam.Track {
	specs := shivam.DefaultManifest
	if len(cfg.Player.Tracks) > 0 {
		specs = lo.Map(cfg.Player.Tracks, func(e config.TrackEntry, _ int) shivam.TrackSpec {
			return shivam.TrackSpec{Title: e.Title, Source: e.Source}
		})
	}
	return shivam.NewTracks(specs, cfg.Player.MusicDir)
}

// RemoteSources lists the http(s) sources of tracks, which are the ones the
// asset cache can install.
func RemoteSources(tracks []shivam.Track) []string {
	remote := lo.Filter(tracks, func(t shivam.Track, _ int) bool { return assetcache.IsRemote(t.Source) })
	return lo.Map(remote, func(t shivam.Track, _ int) string { return t.Source })
}

func NewGenerator(cfg config.QuoteConfig) (*quote.Generator, error) {
	policy, err := quote.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	opts := []quote.Option{quote.WithPolicy(policy)}
	if cfg.Fallback {
		opts = append(opts, quote.WithFallback(quote.DefaultFallback()))
	}
	return quote.NewGenerator(opts...), nil
}

func NewAnalyser(cfg config.VisualizerConfig) (*spectrum.Analyser, error) {
	opts := spectrum.DefaultOptions()
	opts.FFTSize = cfg.FFTSize
	opts.Smoothing = cfg.Smoothing
	a, err := spectrum.NewAnalyser(opts)
	if err != nil {
		return nil, fmt.Errorf("visualizer fft size %d: %w", cfg.FFTSize, err)
	}
	return a, nil
}

// CacheRoot is the configured cache directory, or the per-user one.
func CacheRoot(cfg *config.Config, dirs config.Dirs) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	return dirs.Cache
}

// New wires every component. The audio pipeline is created but not started;
// the first play starts it.
func New(cfg *config.Config, dirs config.Dirs, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Dirs: dirs, Log: log}

	analyser, err := NewAnalyser(cfg.Visualizer)
	if err != nil {
		return nil, err
	}
	a.Analyser = analyser
	a.Pipeline = audio.NewPipeline(audio.DefaultSampleRate, analyser, log)

	var opener audio.Opener = audio.FileOpener{}
	if cfg.Cache.Enabled {
		a.Cache = assetcache.New(CacheRoot(cfg, dirs), assetcache.WithLogger(log))
		opener = a.Cache
	}
	a.Element = audio.NewElement(a.Pipeline, opener, log)
	a.Element.Tone().SetGains(cfg.Player.EQ)

	a.Player, err = shivam.NewPlayer(Tracks(cfg), a.Element,
		shivam.WithPipeline(a.Pipeline),
		shivam.WithLogger(log),
		shivam.WithVolume(cfg.Player.Volume),
	)
	if err != nil {
		a.Element.Close()
		return nil, err
	}

	a.Generator, err = NewGenerator(cfg.Quote)
	if err != nil {
		a.Element.Close()
		return nil, err
	}
	a.Store = StoreFor(dirs)
	return a, nil
}

// StoreFor opens the persisted UI state in the config directory.
func StoreFor(dirs config.Dirs) *store.Store {
	return store.Open(filepath.Join(dirs.Config, store.FileName))
}

// NewPresenter returns a quote presenter persisting to the app's store and
// restores the last shown quote into it.
func (a *App) NewPresenter(opts ...quote.PresenterOption) *quote.Presenter {
	opts = append([]quote.PresenterOption{quote.WithStore(a.Store), quote.WithLogger(a.Log)}, opts...)
	p := quote.NewPresenter(a.Generator, opts...)
	p.Restore()
	return p
}

func (a *App) Close() {
	if a.Element != nil {
		a.Element.Close()
	}
}
