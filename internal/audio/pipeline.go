package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ItIsShivam/ItZShivam/internal/spectrum"
	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"
)

const DefaultSampleRate = 48000

const readyPoll = 5 * time.Millisecond

var ErrNotStarted = errors.New("audio pipeline not started")

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioContextErr  error
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioContextErr != nil {
		return nil, audioContextErr
	}
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// Pipeline owns the output context and the analyser fed from it. The context
// is created on the first Start, never before.
type Pipeline struct {
	sampleRate int
	analyser   *spectrum.Analyser
	log        zerolog.Logger

	mu  sync.Mutex
	ctx *ebitaudio.Context
}

func NewPipeline(sampleRate int, analyser *spectrum.Analyser, log zerolog.Logger) *Pipeline {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Pipeline{sampleRate: sampleRate, analyser: analyser, log: log}
}

// Start creates the output context and returns once it reports ready. The
// context is primed with a short silent player, which brings the output up
// without an ebiten game loop (the terminal host has none).
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	started := p.ctx != nil
	p.mu.Unlock()
	if started {
		return nil
	}

	c, err := sharedAudioContext(p.sampleRate)
	if err != nil {
		return err
	}
	if !c.IsReady() {
		silence, err := c.NewPlayerF32(bytes.NewReader(make([]byte, p.sampleRate/10*bytesPerFrame)))
		if err != nil {
			return fmt.Errorf("priming audio output: %w", err)
		}
		silence.Play()
		defer silence.Close()
	}
	if err := waitReady(ctx, c.IsReady, readyPoll); err != nil {
		return err
	}

	p.mu.Lock()
	p.ctx = c
	p.mu.Unlock()
	if p.analyser != nil {
		p.analyser.Attach()
	}
	p.log.Debug().Int("rate", p.sampleRate).Msg("audio pipeline running")
	return nil
}

// waitReady polls ready until it reports true or ctx ends.
func waitReady(ctx context.Context, ready func() bool, every time.Duration) error {
	if ready() {
		return nil
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for audio output: %w", ctx.Err())
		case <-ticker.C:
			if ready() {
				return nil
			}
		}
	}
}

func (p *Pipeline) context() *ebitaudio.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctx
}

func (p *Pipeline) Started() bool { return p.context() != nil }

func (p *Pipeline) SampleRate() int { return p.sampleRate }

func (p *Pipeline) Analyser() *spectrum.Analyser { return p.analyser }
