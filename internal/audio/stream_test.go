package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/gopxl/beep/v2"
)

// rampStream yields frame i as (i, -i) for n frames.
type rampStream struct {
	n, pos int
	closed bool
}

func (r *rampStream) Stream(samples [][2]float64) (int, bool) {
	if r.pos >= r.n {
		return 0, false
	}
	k := 0
	for ; k < len(samples) && r.pos < r.n; k++ {
		samples[k] = [2]float64{float64(r.pos), -float64(r.pos)}
		r.pos++
	}
	return k, true
}

func (r *rampStream) Err() error    { return nil }
func (r *rampStream) Len() int      { return r.n }
func (r *rampStream) Position() int { return r.pos }
func (r *rampStream) Seek(p int) error {
	r.pos = p
	return nil
}
func (r *rampStream) Close() error {
	r.closed = true
	return nil
}

func newRampSource(n int) (*TrackSource, *rampStream) {
	rs := &rampStream{n: n}
	format := beep.Format{SampleRate: 100, NumChannels: 2, Precision: 2}
	return NewTrackSource(rs, format, 100), rs
}

func TestTrackSourceProcessAndFinish(t *testing.T) {
	src, _ := newRampSource(5)
	var tapped []float32
	src.SetTap(func(s []float32) { tapped = append(tapped, s...) })
	src.SetGain(0.5)

	dst := make([]float32, 8)
	src.Process(dst)
	want := []float32{0, 0, 0.5, -0.5, 1, -1, 1.5, -1.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("block 1 = %v, want %v", dst, want)
		}
	}
	if src.Finished() {
		t.Fatal("finished early")
	}
	src.Process(dst)
	if dst[0] != 2 || dst[2] != 0 || !src.Finished() {
		t.Fatalf("block 2 = %v, finished = %v", dst, src.Finished())
	}
	if len(tapped) != 16 {
		t.Fatalf("tapped %d samples, want 16", len(tapped))
	}
	if d := src.Duration(); d != 0.05 {
		t.Fatalf("duration = %v, want 0.05", d)
	}
}

func TestTrackSourceSeekClearsFinished(t *testing.T) {
	src, rs := newRampSource(4)
	dst := make([]float32, 16)
	src.Process(dst)
	if !src.Finished() {
		t.Fatal("not finished after reading past the end")
	}
	if err := src.SeekFrame(2); err != nil {
		t.Fatalf("SeekFrame: %v", err)
	}
	if src.Finished() || rs.pos != 2 {
		t.Fatalf("after seek finished=%v pos=%d", src.Finished(), rs.pos)
	}
	src.Process(dst[:2])
	if dst[0] != 2 {
		t.Fatalf("frame after seek = %v, want 2", dst[0])
	}
	if err := src.SeekFrame(99); err != nil || !src.Finished() {
		t.Fatalf("seek past end: err=%v finished=%v", err, src.Finished())
	}
}

func TestStreamReaderReadSeekEOF(t *testing.T) {
	src, _ := newRampSource(3)
	r := NewStreamReader(src)

	p := make([]byte, 2*bytesPerFrame)
	n, err := r.Read(p)
	if n != len(p) || err != nil {
		t.Fatalf("Read = %d, %v", n, err)
	}
	second := math.Float32frombits(binary.LittleEndian.Uint32(p[bytesPerFrame:]))
	if second != 1 {
		t.Fatalf("second frame left = %v, want 1", second)
	}

	off, err := r.Seek(bytesPerFrame+3, io.SeekStart)
	if err != nil || off != bytesPerFrame {
		t.Fatalf("Seek = %d, %v (want frame-aligned %d)", off, err, bytesPerFrame)
	}
	if cur, _ := r.Seek(0, io.SeekCurrent); cur != bytesPerFrame {
		t.Fatalf("SeekCurrent = %d", cur)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil || end != 3*bytesPerFrame {
		t.Fatalf("SeekEnd = %d, %v", end, err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	big := make([]byte, 8*bytesPerFrame)
	if _, err := r.Read(big); err != io.EOF {
		t.Fatalf("read past end err = %v, want EOF", err)
	}
	if n, err := r.Read(big); n != 0 || err != io.EOF {
		t.Fatalf("read after EOF = %d, %v", n, err)
	}
}

type plainSource struct{}

func (plainSource) Process(dst []float32) { clear(dst) }

func TestStreamReaderSeekUnsupported(t *testing.T) {
	r := NewStreamReader(plainSource{})
	if _, err := r.Seek(0, io.SeekStart); err == nil {
		t.Fatal("seek on plain source succeeded")
	}
}
