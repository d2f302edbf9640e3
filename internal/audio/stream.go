package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
)

const bytesPerFrame = 8 // stereo float32

type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource that can signal when playback has ended.
// When Finished returns true, the stream will return io.EOF on the next Read.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// SeekableSource can jump to an absolute frame. Frames reports the total
// length, or -1 when unknown.
type SeekableSource interface {
	SampleSource
	SeekFrame(frame int64) error
	Frames() int64
}

var errSeekUnsupported = errors.New("source does not support seeking")

// StreamReader adapts a SampleSource to the float32 little-endian byte
// stream ebiten players consume.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
	pos    int64 // bytes handed out since the last seek target
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return 0, io.EOF
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		u := math.Float32bits(r.buf[i])
		binary.LittleEndian.PutUint32(p[i*4:], u)
	}
	n := frames * bytesPerFrame
	r.pos += int64(n)
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

// Seek moves the source to a byte offset, rounded down to a whole frame.
func (r *StreamReader) Seek(offset int64, whence int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.source.(SeekableSource)
	if !ok {
		return 0, errSeekUnsupported
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		total := src.Frames()
		if total < 0 {
			return 0, errSeekUnsupported
		}
		abs = total*bytesPerFrame + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	abs -= abs % bytesPerFrame
	if err := src.SeekFrame(abs / bytesPerFrame); err != nil {
		return 0, err
	}
	r.pos = abs
	return abs, nil
}

func (r *StreamReader) Close() error { return nil }
