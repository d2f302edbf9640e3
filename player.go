package shivam

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"
)

// Media is the element that actually produces sound for one loaded source.
// Load must leave the element paused at position 0; ctx bounds opening the
// source, not playing it. A failed Load leaves the previous source in place.
type Media interface {
	Load(ctx context.Context, src string) error
	Play() error
	Pause()
	Paused() bool
	Ended() bool
	CurrentTime() float64
	// Duration returns NaN until the source metadata is known.
	Duration() float64
	SetCurrentTime(seconds float64) error
	SetVolume(level float64)
}

// Pipeline is the audio output path. Start may only be called in response to
// a user action and returns once output is confirmed running.
type Pipeline interface {
	Start(ctx context.Context) error
}

// PlaybackEvent is delivered on the channel returned by Watch.
type PlaybackEvent struct {
	Kind  int // EventPlaying, EventPaused, EventTrackChanged or EventTrackEnded
	Index int
}

const (
	EventPlaying int = iota
	EventPaused
	EventTrackChanged
	EventTrackEnded
)

// Display holds the playback-dependent UI text.
type Display struct {
	Elapsed    string
	Remaining  string
	Progress   float64 // 0..1
	NowPlaying string
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	pipeline Pipeline
	logger   zerolog.Logger
	volume   float64
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{logger: zerolog.Nop(), volume: 1}
}

// WithPipeline installs the output pipeline started on the first play.
func WithPipeline(p Pipeline) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.pipeline = p
	}
}

func WithLogger(l zerolog.Logger) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.logger = l
	}
}

// WithVolume sets the initial output level (0..1).
func WithVolume(v float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.volume = v
	}
}

// Player owns the play/pause flag and the current track index and keeps them
// consistent with the underlying media element.
type Player struct {
	mu            sync.Mutex
	tracks        []Track
	index         int
	playing       bool
	volume        float64
	media         Media
	loaded        bool  // media holds tracks[index]
	loadErr       error // why tracks[index] is not loaded
	pipeline      Pipeline
	pipelineReady bool
	log           zerolog.Logger
	eventCh       chan PlaybackEvent
	eventChMu     sync.Mutex
}

// NewPlayer creates a controller over tracks and loads the first one. A track
// that fails to load leaves the player paused on it; LoadError reports why.
func NewPlayer(tracks []Track, media Media, opts ...PlayerOption) (*Player, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Player{
		tracks:   append([]Track(nil), tracks...),
		media:    media,
		pipeline: cfg.pipeline,
		volume:   clampUnit(cfg.volume),
		log:      cfg.logger,
	}
	p.media.SetVolume(p.volume)
	if err := p.loadLocked(context.Background(), 0); err != nil {
		p.markUnloadedLocked(0, err)
	}
	return p, nil
}

// TogglePlay plays when paused and pauses when playing. The first call starts
// the output pipeline and waits for it before issuing play. Playing a track
// that failed to load tries to load it again first.
func (p *Player) TogglePlay(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensurePipelineLocked(ctx); err != nil {
		return err
	}
	if !p.playing && !p.loaded {
		if err := p.loadLocked(ctx, p.index); err != nil {
			p.markUnloadedLocked(p.index, err)
			return err
		}
	}
	var err error
	if !p.playing {
		err = p.media.Play()
		if err != nil {
			p.log.Warn().Err(err).Str("track", p.tracks[p.index].Title).Msg("play rejected")
		}
	} else {
		p.media.Pause()
	}
	p.syncLocked()
	return err
}

// SelectTrack makes track i current. Out-of-range indexes are ignored and
// leave all state untouched. Playback resumes only if it was already playing.
func (p *Player) SelectTrack(ctx context.Context, i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.tracks) {
		p.log.Debug().Int("index", i).Int("tracks", len(p.tracks)).Msg("ignoring out-of-range track selection")
		return ErrIndexOutOfRange
	}
	wasPlaying := p.playing
	if err := p.loadLocked(ctx, i); err != nil {
		p.syncLocked()
		return err
	}
	var err error
	if wasPlaying {
		err = p.media.Play()
	}
	p.syncLocked()
	return err
}

// OnTrackEnd advances to the next track (wrapping) and always starts it. The
// index advances even when the next track fails to load; the player is then
// paused on it and the error is returned once.
func (p *Player) OnTrackEnd(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advanceLocked(ctx)
}

func (p *Player) advanceLocked(ctx context.Context) error {
	p.sendEvent(PlaybackEvent{Kind: EventTrackEnded, Index: p.index})
	next := (p.index + 1) % len(p.tracks)
	if err := p.loadLocked(ctx, next); err != nil {
		p.media.Pause()
		p.markUnloadedLocked(next, err)
		p.syncLocked()
		return err
	}
	if err := p.ensurePipelineLocked(ctx); err != nil {
		p.syncLocked()
		return err
	}
	err := p.media.Play()
	p.syncLocked()
	return err
}

// Seek moves playback to fraction (0..1) of the track. It does nothing while
// the duration is unknown.
func (p *Player) Seek(fraction float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return nil
	}
	d := p.media.Duration()
	if !knownDuration(d) {
		return nil
	}
	return p.media.SetCurrentTime(clampUnit(fraction) * d)
}

// SetVolume applies level (clamped to 0..1) to the output immediately.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampUnit(level)
	p.media.SetVolume(p.volume)
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Tick is the time-update handler. It advances past a finished track and
// returns the refreshed display fields. The end of a track is handled once.
func (p *Player) Tick(ctx context.Context) (Display, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.loaded && p.media.Ended() {
		err = p.advanceLocked(ctx)
	}
	return p.displayLocked(), err
}

// Display returns the current display fields without touching playback.
func (p *Player) Display() Display {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayLocked()
}

func (p *Player) displayLocked() Display {
	d := Display{
		Elapsed:    "0:00",
		Remaining:  "-0:00",
		NowPlaying: "Now Playing: " + p.tracks[p.index].Title,
	}
	if !p.loaded {
		return d
	}
	dur := p.media.Duration()
	if !knownDuration(dur) {
		return d
	}
	cur := p.media.CurrentTime()
	if math.IsNaN(cur) || cur < 0 {
		cur = 0
	}
	if cur > dur {
		cur = dur
	}
	d.Elapsed = FormatTime(cur)
	d.Remaining = "-" + FormatTime(dur-cur)
	d.Progress = cur / dur
	return d
}

// SwapTracks exchanges two entries of the track list. The current index
// follows the track that was current before the swap.
func (p *Player) SwapTracks(i, j int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.tracks)
	if i < 0 || i >= n || j < 0 || j >= n {
		return ErrIndexOutOfRange
	}
	reordered := append([]Track(nil), p.tracks...)
	reordered[i], reordered[j] = reordered[j], reordered[i]
	p.tracks = reordered
	switch p.index {
	case i:
		p.index = j
	case j:
		p.index = i
	}
	return nil
}

// Tracks returns a copy of the active track list.
func (p *Player) Tracks() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Track(nil), p.tracks...)
}

func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

func (p *Player) Current() Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracks[p.index]
}

// LoadError returns why the current track could not be loaded, or nil when
// it is loaded.
func (p *Player) LoadError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Watch returns a channel that receives playback events. The channel is
// buffered (cap 16) and events are dropped when it is full. Only the most
// recent Watch channel receives events.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 16)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (p *Player) ensurePipelineLocked(ctx context.Context) error {
	if p.pipelineReady || p.pipeline == nil {
		return nil
	}
	if err := p.pipeline.Start(ctx); err != nil {
		p.log.Error().Err(err).Msg("audio pipeline failed to start")
		return err
	}
	p.pipelineReady = true
	p.log.Debug().Msg("audio pipeline started")
	return nil
}

func (p *Player) loadLocked(ctx context.Context, i int) error {
	if err := p.media.Load(ctx, p.tracks[i].Source); err != nil {
		p.log.Error().Err(err).Str("source", p.tracks[i].Source).Msg("load failed")
		return err
	}
	p.index = i
	p.loaded = true
	p.loadErr = nil
	p.sendEvent(PlaybackEvent{Kind: EventTrackChanged, Index: i})
	p.log.Info().Int("index", i).Str("title", p.tracks[i].Title).Msg("track loaded")
	return nil
}

// markUnloadedLocked makes track i current although the media does not hold
// it. Nothing plays until it is loaded again.
func (p *Player) markUnloadedLocked(i int, err error) {
	changed := p.index != i
	p.index = i
	p.loaded = false
	p.loadErr = err
	if changed {
		p.sendEvent(PlaybackEvent{Kind: EventTrackChanged, Index: i})
	}
}

// syncLocked re-reads the play state from the media element.
func (p *Player) syncLocked() {
	playing := !p.media.Paused()
	if playing == p.playing {
		return
	}
	p.playing = playing
	if playing {
		p.sendEvent(PlaybackEvent{Kind: EventPlaying, Index: p.index})
	} else {
		p.sendEvent(PlaybackEvent{Kind: EventPaused, Index: p.index})
	}
}

func knownDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
