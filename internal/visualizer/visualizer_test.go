package visualizer

import (
	"context"
	"image/color"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ItIsShivam/ItZShivam/internal/spectrum"
)

type rect struct{ x, y, w, h float64 }

type line struct{ x0, y0, x1, y1 float64 }

type circle struct{ cx, cy, r float64 }

type recorder struct {
	w, h      float64
	clears    int
	rects     []rect
	lines     []line
	polylines [][]Point
	circles   []circle
}

func newRecorder(w, h float64) *recorder { return &recorder{w: w, h: h} }

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) Clear() {
	r.clears++
	r.rects, r.lines, r.polylines, r.circles = nil, nil, nil, nil
}
func (r *recorder) FillRect(x, y, w, h float64, _ color.Color) {
	r.rects = append(r.rects, rect{x, y, w, h})
}
func (r *recorder) Line(x0, y0, x1, y1 float64, _ color.Color) {
	r.lines = append(r.lines, line{x0, y0, x1, y1})
}
func (r *recorder) Polyline(pts []Point, _ color.Color) {
	r.polylines = append(r.polylines, append([]Point(nil), pts...))
}
func (r *recorder) FillCircle(cx, cy, rad float64, _ color.Color) {
	r.circles = append(r.circles, circle{cx, cy, rad})
}

func (r *recorder) drawn() int {
	return len(r.rects) + len(r.lines) + len(r.circles)
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(" " + string(m) + " ")
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseMode("sparkles"); err == nil {
		t.Fatal("unknown mode accepted")
	}
	if ModeEqualizer.Next() != ModeBars {
		t.Fatalf("cycle does not wrap: %q", ModeEqualizer.Next())
	}
}

func TestRenderAllZeroSnapshot(t *testing.T) {
	zero := make(spectrum.Snapshot, 128)
	for _, m := range Modes {
		t.Run(string(m), func(t *testing.T) {
			c := newRecorder(400, 200)
			NewRenderer(m, DefaultStyle()).Render(c, zero)
			switch m {
			case ModeWave:
				if len(c.polylines) != 1 {
					t.Fatalf("polylines = %d, want 1", len(c.polylines))
				}
				for _, p := range c.polylines[0] {
					if p.Y != 200 {
						t.Fatalf("wave point %+v not on baseline", p)
					}
				}
			case ModeEqualizer:
				if len(c.rects) != 8 {
					t.Fatalf("equalizer bars = %d, want 8", len(c.rects))
				}
				for _, r := range c.rects {
					if r.h != 4 {
						t.Fatalf("bar height %v, want floor 4", r.h)
					}
				}
			default:
				if c.drawn() != 0 {
					t.Fatalf("drew %d shapes for silence", c.drawn())
				}
			}
		})
	}
}

func TestRenderBarsGeometry(t *testing.T) {
	s := spectrum.Snapshot{0, 100, 255, 40}
	c := newRecorder(300, 150)
	NewRenderer(ModeBars, DefaultStyle()).Render(c, s)
	want := []rect{
		{3, 100, 2, 50},
		{6, 22.5, 2, 127.5},
		{9, 130, 2, 20},
	}
	if len(c.rects) != len(want) {
		t.Fatalf("rects = %+v", c.rects)
	}
	for i := range want {
		if c.rects[i] != want[i] {
			t.Errorf("rect %d = %+v, want %+v", i, c.rects[i], want[i])
		}
	}
}

func TestRenderBarsClipsToWidth(t *testing.T) {
	s := make(spectrum.Snapshot, 128)
	for i := range s {
		s[i] = 10
	}
	c := newRecorder(30, 100)
	NewRenderer(ModeBars, DefaultStyle()).Render(c, s)
	if len(c.rects) != 10 {
		t.Fatalf("bars = %d, want 10", len(c.rects))
	}
}

func TestRenderRadialAndPulse(t *testing.T) {
	s := make(spectrum.Snapshot, 8)
	s[0] = 255
	s[2] = 255

	c := newRecorder(200, 100)
	NewRenderer(ModeRadial, DefaultStyle()).Render(c, s)
	if len(c.lines) != 2 {
		t.Fatalf("rays = %d, want 2", len(c.lines))
	}
	ray := c.lines[0]
	if ray.x0 != 100 || ray.y0 != 50 || ray.x1 != 150 || ray.y1 != 50 {
		t.Fatalf("first ray = %+v", ray)
	}
	up := c.lines[1]
	if math.Abs(up.x1-100) > 1e-9 || math.Abs(up.y1-100) > 1e-9 {
		t.Fatalf("quarter-turn ray = %+v", up)
	}

	c = newRecorder(200, 100)
	NewRenderer(ModePulse, DefaultStyle()).Render(c, s)
	if len(c.circles) != 1 || c.circles[0].r != 25 {
		t.Fatalf("pulse = %+v, want radius 25", c.circles)
	}
}

func TestEqualizerHeights(t *testing.T) {
	e := DefaultEqualizer()
	idx := e.Indices(128)
	want := []int{0, 8, 16, 24, 32, 40, 48, 56}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("indices = %v, want %v", idx, want)
		}
	}
	s := make(spectrum.Snapshot, 128)
	s[16] = 255
	h := e.Heights(s, 100)
	if h[2] != 100 || h[0] != e.Floor {
		t.Fatalf("heights = %v", h)
	}
}

func TestAmbient(t *testing.T) {
	loud := make(spectrum.Snapshot, 16)
	for i := range loud {
		loud[i] = 255
	}
	quiet := make(spectrum.Snapshot, 16)

	a := NewAmbient(0)
	bg := a.Update(quiet)
	if bg.Bass != 0 || bg.Opacity != a.MinOpacity || bg.Hue != a.BaseHue {
		t.Fatalf("quiet background = %+v", bg)
	}
	bg = a.Update(loud)
	if bg.Bass != 1 || math.Abs(bg.Opacity-a.MaxOpacity) > 1e-9 {
		t.Fatalf("loud background = %+v", bg)
	}

	smooth := NewAmbient(0.5)
	smooth.Update(quiet)
	bg = smooth.Update(loud)
	if bg.Bass != 0.5 {
		t.Fatalf("smoothed bass = %v, want 0.5", bg.Bass)
	}
}

func TestBackgroundPaintFallsBackToCircles(t *testing.T) {
	c := newRecorder(100, 100)
	Background{Bass: 1, Hue: 300, Opacity: 0.8}.Paint(c)
	if len(c.circles) == 0 {
		t.Fatal("no circles painted")
	}
}

type fakeSource struct {
	ready bool
	fill  uint8
}

func (f *fakeSource) FrequencyBinCount() int { return 16 }
func (f *fakeSource) ByteFrequencyData(dst spectrum.Snapshot) bool {
	if !f.ready {
		return false
	}
	for i := range dst {
		dst[i] = f.fill
	}
	return true
}

func TestSamplerSkipsWhenNotReady(t *testing.T) {
	src := &fakeSource{fill: 200}
	c := newRecorder(100, 100)
	bg := newRecorder(100, 100)
	s := NewSampler(src, NewRenderer(ModeBars, DefaultStyle()), c).WithAmbient(NewAmbient(0), bg)
	if s.Tick() {
		t.Fatal("tick rendered without a ready source")
	}
	if c.clears != 0 || bg.clears != 0 {
		t.Fatal("canvas touched without a ready source")
	}
	src.ready = true
	if !s.Tick() {
		t.Fatal("tick skipped with a ready source")
	}
	if len(c.rects) == 0 || len(bg.circles) == 0 {
		t.Fatal("nothing painted")
	}
	if s.Background().Bass == 0 {
		t.Fatal("ambient not updated")
	}
}

func TestImageCanvasRendersPixels(t *testing.T) {
	c := NewImageCanvas(64, 32, color.Black)
	s := make(spectrum.Snapshot, 8)
	s[0] = 255
	NewRenderer(ModeBars, Style{Bar: color.White, Line: color.White}).Render(c, s)
	r, _, _, _ := c.Image().At(1, 31).RGBA()
	if r == 0 {
		t.Fatal("bar pixel not painted")
	}
	r, _, _, _ = c.Image().At(40, 5).RGBA()
	if r != 0 {
		t.Fatal("background pixel painted")
	}
}

func TestLoopStopAndRestart(t *testing.T) {
	var frames atomic.Int64
	l := NewLoop(200, func() { frames.Add(1) })

	for round := 0; round < 2; round++ {
		done := make(chan error, 1)
		go func() { done <- l.Run(context.Background()) }()

		deadline := time.Now().Add(2 * time.Second)
		start := frames.Load()
		for frames.Load() < start+3 {
			if time.Now().After(deadline) {
				t.Fatalf("round %d: loop produced no frames", round)
			}
			time.Sleep(5 * time.Millisecond)
		}
		l.Stop()
		l.Stop()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("round %d: Run = %v", round, err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("round %d: loop did not stop", round)
		}
		if l.Running() {
			t.Fatalf("round %d: still running", round)
		}
	}
}

func TestLoopRejectsConcurrentRun(t *testing.T) {
	l := NewLoop(100, func() {})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	for !l.Running() {
		time.Sleep(time.Millisecond)
	}
	if err := l.Run(context.Background()); err != ErrLoopRunning {
		t.Fatalf("second Run = %v, want ErrLoopRunning", err)
	}
	cancel()
	<-done
}

func TestClampFPS(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultFPS},
		{-5, DefaultFPS},
		{30, 30},
		{MaxFPS, MaxFPS},
		{2_000_000_000, MaxFPS},
	}
	for _, tc := range cases {
		if got := ClampFPS(tc.in); got != tc.want {
			t.Errorf("ClampFPS(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestLoopHugeFPSRuns(t *testing.T) {
	var frames atomic.Int64
	l := NewLoop(2_000_000_000, func() { frames.Add(1) })
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if frames.Load() == 0 {
		t.Fatal("no frames at the clamped rate")
	}
}
