package visualizer

import "github.com/ItIsShivam/ItZShivam/internal/spectrum"

// FrequencySource yields magnitude snapshots. ByteFrequencyData reports false
// while the source has no running pipeline behind it.
type FrequencySource interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst spectrum.Snapshot) bool
}

// Sampler pulls one snapshot per tick and paints it.
type Sampler struct {
	src      FrequencySource
	renderer *Renderer
	canvas   Canvas

	ambient    *Ambient
	background Canvas
	lastBG     Background

	buf spectrum.Snapshot
}

func NewSampler(src FrequencySource, r *Renderer, c Canvas) *Sampler {
	return &Sampler{src: src, renderer: r, canvas: c}
}

// WithAmbient paints the bass-driven background onto bg every tick. bg may be
// the same canvas as the foreground when the host layers them itself.
func (s *Sampler) WithAmbient(a *Ambient, bg Canvas) *Sampler {
	s.ambient = a
	s.background = bg
	return s
}

// Tick renders one frame. It returns false, drawing nothing, when the source
// is not ready.
func (s *Sampler) Tick() bool {
	n := s.src.FrequencyBinCount()
	if cap(s.buf) < n {
		s.buf = make(spectrum.Snapshot, n)
	}
	s.buf = s.buf[:n]
	if !s.src.ByteFrequencyData(s.buf) {
		return false
	}
	if s.ambient != nil {
		s.lastBG = s.ambient.Update(s.buf)
		if s.background != nil && s.background != s.canvas {
			s.background.Clear()
			s.lastBG.Paint(s.background)
		}
	}
	s.renderer.Render(s.canvas, s.buf)
	return true
}

// Background returns the ambient state computed on the last successful tick.
func (s *Sampler) Background() Background {
	return s.lastBG
}

func (s *Sampler) Renderer() *Renderer {
	return s.renderer
}
