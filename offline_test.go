package shivam

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func writeSineWAV(t *testing.T, path string, rate int, freq float64, frames int) {
	t.Helper()
	i := 0
	sine := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= frames {
			return 0, false
		}
		k := 0
		for ; k < len(samples) && i < frames; k++ {
			v := 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
			samples[k] = [2]float64{v, v}
			i++
		}
		return k, true
	})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.Encode(f, sine, beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestAnalyseSamplesSilence(t *testing.T) {
	snap, err := AnalyseSamples(make([]float32, 512), 256)
	if err != nil {
		t.Fatalf("AnalyseSamples: %v", err)
	}
	if len(snap) != 128 || snap.Peak() != 0 {
		t.Fatalf("silence snapshot len=%d peak=%d", len(snap), snap.Peak())
	}
	if _, err := AnalyseSamples(nil, 100); err == nil {
		t.Fatal("non power of two fft size accepted")
	}
}

func TestRenderTrackFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sine.wav")
	// 1 kHz at 8 kHz lands in bin 32 of a 256-point FFT
	writeSineWAV(t, path, 8000, 1000, 8000)

	opts := DefaultFrameOptions()
	opts.At = 0.5
	opts.Style.Bar = color.White
	c, err := RenderTrackFrame(path, opts)
	if err != nil {
		t.Fatalf("RenderTrackFrame: %v", err)
	}

	img := c.Image()
	peakX := 32*3 + 1
	r, _, _, _ := img.At(peakX, opts.Height-1).RGBA()
	if r == 0 {
		t.Fatal("peak bar not painted")
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Fatalf("png bounds = %v", b)
	}
}

func TestRenderTrackFrameMissingFile(t *testing.T) {
	if _, err := RenderTrackFrame(filepath.Join(t.TempDir(), "nope.mp3"), DefaultFrameOptions()); err == nil {
		t.Fatal("missing file rendered")
	}
}
