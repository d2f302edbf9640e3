package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"sync/atomic"

	"github.com/mjibson/go-dsp/fft"
)

const (
	DefaultFFTSize   = 256
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0

	ringBufLen = 131072
)

var ErrFFTSize = errors.New("fft size must be a power of two between 32 and 32768")

// Snapshot is one frame of frequency magnitudes, each 0..255.
type Snapshot []uint8

type Options struct {
	FFTSize   int
	Smoothing float64 // time constant 0..1, 0 disables smoothing
	MinDB     float64
	MaxDB     float64
}

func DefaultOptions() Options {
	return Options{
		FFTSize:   DefaultFFTSize,
		Smoothing: DefaultSmoothing,
		MinDB:     DefaultMinDB,
		MaxDB:     DefaultMaxDB,
	}
}

// Analyser turns the tapped output signal into byte frequency snapshots.
// Tap runs on the audio thread; ByteFrequencyData runs on the render tick.
type Analyser struct {
	mu          sync.Mutex
	opts        Options
	ring        []float32 // mono ring buffer
	writePos    int
	totalTapped int64 // mono samples written since last reset
	playhead    func() int64

	window   []float64
	frame    []float64
	smoothed []float64

	attached atomic.Bool
}

func NewAnalyser(opts Options) (*Analyser, error) {
	n := opts.FFTSize
	if n < 32 || n > 32768 || n&(n-1) != 0 {
		return nil, ErrFFTSize
	}
	if opts.Smoothing < 0 || opts.Smoothing >= 1 {
		opts.Smoothing = 0
	}
	if opts.MaxDB <= opts.MinDB {
		opts.MinDB, opts.MaxDB = DefaultMinDB, DefaultMaxDB
	}
	return &Analyser{
		opts:     opts,
		ring:     make([]float32, ringBufLen),
		window:   blackman(n),
		frame:    make([]float64, n),
		smoothed: make([]float64, n/2),
	}, nil
}

func (a *Analyser) FFTSize() int { return a.opts.FFTSize }

// FrequencyBinCount is the snapshot length, half the FFT size.
func (a *Analyser) FrequencyBinCount() int { return a.opts.FFTSize / 2 }

// Attach marks the analyser as connected to a running output pipeline.
func (a *Analyser) Attach() { a.attached.Store(true) }

func (a *Analyser) Ready() bool { return a.attached.Load() }

// SetPlayhead installs a function reporting how many frames the listener has
// heard since the last Reset. Without it the newest tapped samples are used.
func (a *Analyser) SetPlayhead(fn func() int64) {
	a.mu.Lock()
	a.playhead = fn
	a.mu.Unlock()
}

// Tap is called from the audio thread with interleaved stereo samples.
func (a *Analyser) Tap(samples []float32) {
	a.mu.Lock()
	for i := 0; i+1 < len(samples); i += 2 {
		a.ring[a.writePos] = (samples[i] + samples[i+1]) * 0.5
		a.writePos = (a.writePos + 1) % ringBufLen
		a.totalTapped++
	}
	a.mu.Unlock()
}

// Reset clears the tapped sample counter and smoothing state (call on load or seek).
func (a *Analyser) Reset() {
	a.mu.Lock()
	a.totalTapped = 0
	clear(a.smoothed)
	a.mu.Unlock()
}

// TimeDomain copies the n samples the listener is hearing right now.
func (a *Analyser) TimeDomain(dst []float32) {
	a.mu.Lock()
	a.copyAudibleLocked(dst)
	a.mu.Unlock()
}

func (a *Analyser) copyAudibleLocked(dst []float32) {
	n := len(dst)
	if n > ringBufLen {
		n = ringBufLen
	}
	delay := 0
	if a.playhead != nil {
		delay = int(a.totalTapped - a.playhead())
	}
	if delay < 0 {
		delay = 0
	}
	if delay > ringBufLen-n {
		delay = ringBufLen - n
	}
	start := (a.writePos - delay - n + ringBufLen*2) % ringBufLen
	for i := 0; i < n; i++ {
		dst[i] = a.ring[(start+i)%ringBufLen]
	}
}

// ByteFrequencyData fills dst (up to FrequencyBinCount values) with the
// current spectrum. It returns false and leaves dst alone while the analyser
// is not attached to a running pipeline.
func (a *Analyser) ByteFrequencyData(dst Snapshot) bool {
	if !a.Ready() {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.opts.FFTSize
	buf := make([]float32, n)
	a.copyAudibleLocked(buf)
	for i := range buf {
		a.frame[i] = float64(buf[i]) * a.window[i]
	}
	Magnitudes(a.frame, a.smoothed, a.opts.Smoothing)
	for i := 0; i < len(dst) && i < len(a.smoothed); i++ {
		dst[i] = ToByte(a.smoothed[i], a.opts.MinDB, a.opts.MaxDB)
	}
	return true
}

// Magnitudes runs an FFT over a windowed frame and blends the normalized bin
// magnitudes into smoothed using time constant tau.
func Magnitudes(frame []float64, smoothed []float64, tau float64) {
	coeffs := fft.FFTReal(frame)
	scale := 1.0 / float64(len(frame))
	for k := range smoothed {
		mag := cmplx.Abs(coeffs[k]) * scale
		v := tau*smoothed[k] + (1-tau)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		smoothed[k] = v
	}
}

// ToByte maps a linear magnitude onto 0..255 across the [minDB, maxDB] window.
func ToByte(mag, minDB, maxDB float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := math.Floor(255 / (maxDB - minDB) * (db - minDB))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0 := 0.5 * (1 - alpha)
	a1 := 0.5
	a2 := 0.5 * alpha
	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}
