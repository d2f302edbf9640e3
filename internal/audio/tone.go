package audio

import (
	"errors"
	"math"
	"sync/atomic"
)

// Bands is the number of tone control bands.
const Bands = 5

const maxBandGain = 2

var ErrBand = errors.New("tone band out of range")

// crossovers split the spectrum into the five bands, in Hz.
var crossovers = [Bands - 1]float64{200, 800, 2500, 8000}

// ToneControl is a five band equalizer built from cascaded one-pole
// crossovers. Band gains are stored as float32 bits so the audio thread reads
// them without locking. Filter state belongs to the audio thread.
type ToneControl struct {
	gains  [Bands]atomic.Uint32
	alphas [Bands - 1]float32
	lpL    [Bands - 1]float32
	lpR    [Bands - 1]float32
	reset  atomic.Bool
}

func NewToneControl(sampleRate int) *ToneControl {
	tc := &ToneControl{}
	dt := 1.0 / float64(sampleRate)
	for i, freq := range crossovers {
		rc := 1.0 / (2.0 * math.Pi * freq)
		tc.alphas[i] = float32(dt / (rc + dt))
	}
	for i := range tc.gains {
		tc.gains[i].Store(math.Float32bits(1))
	}
	return tc
}

// SetGain sets one band, clamped to 0..2 where 1 is unity.
func (tc *ToneControl) SetGain(band int, gain float64) error {
	if band < 0 || band >= Bands {
		return ErrBand
	}
	tc.setGain(band, gain)
	return nil
}

// SetGains applies gains to the leading bands; missing bands stay unchanged
// and extra values are ignored.
func (tc *ToneControl) SetGains(gains []float64) {
	for i := range min(len(gains), Bands) {
		tc.setGain(i, gains[i])
	}
}

func (tc *ToneControl) setGain(band int, gain float64) {
	gain = math.Max(0, math.Min(maxBandGain, gain))
	tc.gains[band].Store(math.Float32bits(float32(gain)))
}

func (tc *ToneControl) Gain(band int) float64 {
	if band < 0 || band >= Bands {
		return 1
	}
	return float64(math.Float32frombits(tc.gains[band].Load()))
}

// Flat reports whether every band is at unity.
func (tc *ToneControl) Flat() bool {
	for i := range tc.gains {
		if math.Float32frombits(tc.gains[i].Load()) != 1 {
			return false
		}
	}
	return true
}

// Reset clears the filter state before the next processed block. It is safe to
// call from any goroutine.
func (tc *ToneControl) Reset() {
	tc.reset.Store(true)
}

// Process filters interleaved stereo samples in place.
func (tc *ToneControl) Process(samples []float32) {
	if tc.reset.Swap(false) {
		tc.lpL = [Bands - 1]float32{}
		tc.lpR = [Bands - 1]float32{}
	}
	var g [Bands]float32
	for i := range g {
		g[i] = math.Float32frombits(tc.gains[i].Load())
	}
	for i := 0; i+1 < len(samples); i += 2 {
		remL, remR := samples[i], samples[i+1]
		var outL, outR float32
		for b := 0; b < Bands-1; b++ {
			tc.lpL[b] += tc.alphas[b] * (remL - tc.lpL[b])
			tc.lpR[b] += tc.alphas[b] * (remR - tc.lpR[b])
			outL += tc.lpL[b] * g[b]
			outR += tc.lpR[b] * g[b]
			remL -= tc.lpL[b]
			remR -= tc.lpR[b]
		}
		samples[i] = outL + remL*g[Bands-1]
		samples[i+1] = outR + remR*g[Bands-1]
	}
}
