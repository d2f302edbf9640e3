package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ItIsShivam/ItZShivam/internal/decode"
	"github.com/gopxl/beep/v2"
	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"
)

var ErrNoSource = errors.New("no track loaded")

// openTimeout bounds opening and probing a source when the caller's context
// has no earlier deadline.
const openTimeout = 15 * time.Second

// Opener resolves a track source to a byte stream.
type Opener interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// FileOpener opens sources as local paths.
type FileOpener struct{}

func (FileOpener) Open(_ context.Context, src string) (io.ReadCloser, error) {
	return os.Open(src)
}

// Element is a media element: one loaded track at a time, played through the
// pipeline's output context once the pipeline has started.
type Element struct {
	mu       sync.Mutex
	pipeline *Pipeline
	opener   Opener
	log      zerolog.Logger

	// done is cancelled by Close and aborts in-flight opens and streams
	done     context.Context
	shutdown context.CancelFunc

	tone        *ToneControl
	src         *TrackSource
	srcCancel   context.CancelFunc
	player      *ebitaudio.Player
	volume      float64
	userPaused  bool
	pendingTime float64 // position requested before a player exists

	// read by the analyser playhead without taking mu
	heardPlayer atomic.Pointer[ebitaudio.Player]
	heardBase   atomic.Int64 // player position at the last reset, in ns
}

func NewElement(p *Pipeline, opener Opener, log zerolog.Logger) *Element {
	if opener == nil {
		opener = FileOpener{}
	}
	e := &Element{pipeline: p, opener: opener, log: log, volume: 1, tone: NewToneControl(p.SampleRate())}
	e.done, e.shutdown = context.WithCancel(context.Background())
	if a := p.Analyser(); a != nil {
		a.SetPlayhead(e.heardFrames)
	}
	return e
}

// heardFrames reports frames played since the last analyser reset.
func (e *Element) heardFrames() int64 {
	pl := e.heardPlayer.Load()
	if pl == nil {
		return 0
	}
	d := pl.Position() - time.Duration(e.heardBase.Load())
	if d < 0 {
		return 0
	}
	return int64(d.Seconds() * float64(e.pipeline.SampleRate()))
}

func (e *Element) resetAnalyserLocked() {
	if a := e.pipeline.Analyser(); a != nil {
		a.Reset()
	}
	var base time.Duration
	if e.player != nil {
		base = e.player.Position()
	}
	e.heardBase.Store(int64(base))
	e.heardPlayer.Store(e.player)
}

// Load replaces the current track. Position resets to 0 and playback is
// left paused. ctx bounds opening and probing src; the stream itself lives
// until the next Load or Close. On error the previous track stays loaded.
func (e *Element) Load(ctx context.Context, src string) error {
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	streamCtx, streamCancel := context.WithCancel(e.done)
	stop := context.AfterFunc(ctx, streamCancel)
	rc, err := e.opener.Open(streamCtx, src)
	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	if err == nil {
		stream, format, err = decode.Decode(rc, src)
	}
	if !stop() {
		// ctx ended while opening; the stream is already cut off
		if err == nil {
			stream.Close()
		}
		streamCancel()
		return fmt.Errorf("open %s: %w", src, context.Cause(ctx))
	}
	if err != nil {
		streamCancel()
		return err
	}
	ts := NewTrackSource(stream, format, e.pipeline.SampleRate())
	if a := e.pipeline.Analyser(); a != nil {
		ts.SetTap(a.Tap)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
	ts.SetGain(e.volume)
	ts.SetTone(e.tone)
	e.src = ts
	e.srcCancel = streamCancel
	e.pendingTime = 0
	e.userPaused = false
	e.resetAnalyserLocked()
	e.log.Debug().Str("src", src).Float64("duration", ts.Duration()).Msg("track loaded")
	return nil
}

func (e *Element) closeLocked() {
	if e.player != nil {
		e.player.Pause()
		if err := e.player.Close(); err != nil {
			e.log.Debug().Err(err).Msg("close player")
		}
		e.player = nil
	}
	if e.src != nil {
		if err := e.src.Close(); err != nil {
			e.log.Debug().Err(err).Msg("close source")
		}
		e.src = nil
	}
	if e.srcCancel != nil {
		e.srcCancel()
		e.srcCancel = nil
	}
}

// Play starts or resumes output. An ended track restarts from the top.
func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.src == nil {
		return ErrNoSource
	}
	if e.player == nil {
		ctx := e.pipeline.context()
		if ctx == nil {
			return ErrNotStarted
		}
		pl, err := ctx.NewPlayerF32(NewStreamReader(e.src))
		if err != nil {
			return err
		}
		e.player = pl
		if e.pendingTime > 0 {
			if err := pl.SetPosition(secondsToDuration(e.pendingTime)); err != nil {
				return err
			}
		}
		e.resetAnalyserLocked()
	} else if e.endedLocked() {
		if err := e.player.SetPosition(0); err != nil {
			return err
		}
		e.resetAnalyserLocked()
	}
	e.userPaused = false
	e.player.Play()
	return nil
}

func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userPaused = true
	if e.player != nil {
		e.player.Pause()
	}
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player == nil || !e.player.IsPlaying()
}

func (e *Element) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endedLocked()
}

func (e *Element) endedLocked() bool {
	return e.src != nil && e.player != nil && !e.userPaused &&
		e.src.Finished() && !e.player.IsPlaying()
}

func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player == nil {
		return e.pendingTime
	}
	return e.player.Position().Seconds()
}

func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.src == nil {
		return math.NaN()
	}
	return e.src.Duration()
}

func (e *Element) SetCurrentTime(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.src == nil {
		return ErrNoSource
	}
	if seconds < 0 {
		seconds = 0
	}
	if e.player == nil {
		e.pendingTime = seconds
		return e.src.SeekFrame(int64(seconds * float64(e.pipeline.SampleRate())))
	}
	if err := e.player.SetPosition(secondsToDuration(seconds)); err != nil {
		return err
	}
	e.resetAnalyserLocked()
	return nil
}

func (e *Element) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	if e.src != nil {
		e.src.SetGain(level)
	}
}

// Tone is the equalizer applied to every loaded track.
func (e *Element) Tone() *ToneControl { return e.tone }

// Close releases the player and decoder and aborts a Load in progress.
func (e *Element) Close() {
	e.shutdown()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
	e.heardPlayer.Store(nil)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
