package shivam

import (
	"image/color"

	"github.com/ItIsShivam/ItZShivam/internal/decode"
	"github.com/ItIsShivam/ItZShivam/internal/spectrum"
	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
)

// FrameOptions controls offline rendering of a single visualizer frame.
type FrameOptions struct {
	At         float64 // seconds into the track
	Mode       visualizer.Mode
	Width      int
	Height     int
	FFTSize    int
	Style      visualizer.Style
	Background color.Color
	Ambient    bool
}

func DefaultFrameOptions() FrameOptions {
	return FrameOptions{
		Mode:       visualizer.ModeBars,
		Width:      384,
		Height:     160,
		FFTSize:    spectrum.DefaultFFTSize,
		Style:      visualizer.DefaultStyle(),
		Background: color.Black,
	}
}

// AnalyseSamples runs interleaved stereo samples through an unsmoothed
// analyser and returns the resulting snapshot.
func AnalyseSamples(samples []float32, fftSize int) (spectrum.Snapshot, error) {
	opts := spectrum.DefaultOptions()
	opts.FFTSize = fftSize
	opts.Smoothing = 0
	a, err := spectrum.NewAnalyser(opts)
	if err != nil {
		return nil, err
	}
	a.Attach()
	a.Tap(samples)
	snap := make(spectrum.Snapshot, a.FrequencyBinCount())
	a.ByteFrequencyData(snap)
	return snap, nil
}

// RenderSnapshot paints one snapshot onto a fresh image canvas.
func RenderSnapshot(snap spectrum.Snapshot, opts FrameOptions) *visualizer.ImageCanvas {
	c := visualizer.NewImageCanvas(opts.Width, opts.Height, opts.Background)
	visualizer.NewRenderer(opts.Mode, opts.Style).Render(c, snap)
	if opts.Ambient {
		bg := visualizer.NewAmbient(0).Update(snap)
		bg.Paint(c)
	}
	return c
}

// RenderTrackFrame decodes the track at path and renders the frame heard at
// opts.At.
func RenderTrackFrame(path string, opts FrameOptions) (*visualizer.ImageCanvas, error) {
	s, format, err := decode.Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	samples, err := decode.Window(s, format, opts.At, opts.FFTSize)
	if err != nil {
		return nil, err
	}
	snap, err := AnalyseSamples(samples, opts.FFTSize)
	if err != nil {
		return nil, err
	}
	return RenderSnapshot(snap, opts), nil
}
