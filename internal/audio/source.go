package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ItIsShivam/ItZShivam/internal/decode"
	"github.com/gopxl/beep/v2"
)

// TrackSource renders one decoded track at the output rate, applying a gain
// and handing every rendered block to an optional tap.
type TrackSource struct {
	mu       sync.Mutex
	stream   beep.StreamSeekCloser
	format   beep.Format
	rate     int
	out      beep.Streamer
	buf      [][2]float64
	finished bool

	gain atomic.Uint32 // float32 bit pattern; 1.0 = unity
	tone *ToneControl
	tap  func([]float32)
}

func NewTrackSource(s beep.StreamSeekCloser, format beep.Format, rate int) *TrackSource {
	t := &TrackSource{
		stream: s,
		format: format,
		rate:   rate,
		out:    decode.Resample(s, format.SampleRate, rate),
	}
	t.gain.Store(math.Float32bits(1))
	return t
}

// SetTap installs fn to receive interleaved stereo output on the audio thread.
func (t *TrackSource) SetTap(fn func([]float32)) {
	t.mu.Lock()
	t.tap = fn
	t.mu.Unlock()
}

// SetTone routes output through tc. A nil tc disables tone control.
func (t *TrackSource) SetTone(tc *ToneControl) {
	t.mu.Lock()
	t.tone = tc
	t.mu.Unlock()
	if tc != nil {
		tc.Reset()
	}
}

// SetGain is safe to call from any goroutine.
func (t *TrackSource) SetGain(g float64) {
	t.gain.Store(math.Float32bits(float32(g)))
}

func (t *TrackSource) Gain() float64 {
	return float64(math.Float32frombits(t.gain.Load()))
}

func (t *TrackSource) Process(dst []float32) {
	t.mu.Lock()
	frames := len(dst) / 2
	if cap(t.buf) < frames {
		t.buf = make([][2]float64, frames)
	}
	buf := t.buf[:frames]
	filled := 0
	for filled < frames && !t.finished {
		n, ok := t.out.Stream(buf[filled:])
		filled += n
		if !ok {
			t.finished = true
		}
	}
	g := math.Float32frombits(t.gain.Load())
	for i := 0; i < frames; i++ {
		if i < filled {
			dst[2*i] = float32(buf[i][0]) * g
			dst[2*i+1] = float32(buf[i][1]) * g
		} else {
			dst[2*i], dst[2*i+1] = 0, 0
		}
	}
	if t.tone != nil && !t.tone.Flat() {
		t.tone.Process(dst)
	}
	tap := t.tap
	t.mu.Unlock()
	if tap != nil {
		tap(dst)
	}
}

func (t *TrackSource) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// Frames is the track length in output frames.
func (t *TrackSource) Frames() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.framesLocked()
}

func (t *TrackSource) framesLocked() int64 {
	if t.format.SampleRate <= 0 {
		return -1
	}
	return int64(t.stream.Len()) * int64(t.rate) / int64(t.format.SampleRate)
}

// SeekFrame jumps to an output frame, clamped to the track.
func (t *TrackSource) SeekFrame(frame int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	pos := int(frame * int64(t.format.SampleRate) / int64(t.rate))
	if l := t.stream.Len(); pos > l {
		pos = l
	}
	if pos < 0 {
		pos = 0
	}
	if err := t.stream.Seek(pos); err != nil {
		return err
	}
	t.out = decode.Resample(t.stream, t.format.SampleRate, t.rate)
	t.finished = pos >= t.stream.Len()
	if t.tone != nil {
		t.tone.Reset()
	}
	return nil
}

// Duration is the track length in seconds, NaN when unknown.
func (t *TrackSource) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format.SampleRate <= 0 || t.stream.Len() <= 0 {
		return math.NaN()
	}
	return t.format.SampleRate.D(t.stream.Len()).Seconds()
}

// Position is the decoder position in seconds.
func (t *TrackSource) Position() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format.SampleRate <= 0 {
		return 0
	}
	return t.format.SampleRate.D(t.stream.Position()).Seconds()
}

func (t *TrackSource) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stream.Close()
}
