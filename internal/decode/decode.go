package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

const (
	extMP3  = ".mp3"
	extWAV  = ".wav"
	extFLAC = ".flac"
	extOGG  = ".ogg"
	extOGA  = ".oga"
)

// ResampleQuality is the beep resampler quality used for rate conversion.
const ResampleQuality = 4

// Supported reports whether a file name has a decodable extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case extMP3, extWAV, extFLAC, extOGG, extOGA:
		return true
	}
	return false
}

// Decode picks a decoder from the extension of name. Closing the returned
// streamer closes rc.
func Decode(rc io.ReadCloser, name string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case extMP3:
		s, format, err = mp3.Decode(rc)
	case extWAV:
		s, format, err = wav.Decode(rc)
	case extFLAC:
		s, format, err = flac.Decode(rc)
	case extOGG, extOGA:
		s, format, err = vorbis.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	return s, format, nil
}

// Open decodes the file at path.
func Open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	if !Supported(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return Decode(f, path)
}

// Resample converts s to the target rate, passing it through when the rates
// already match.
func Resample(s beep.Streamer, from beep.SampleRate, to int) beep.Streamer {
	if int(from) == to {
		return s
	}
	return beep.Resample(ResampleQuality, from, beep.SampleRate(to), s)
}

// Window reads n stereo frames starting at second t and returns them
// interleaved as float32, zero-padded past the end of the stream.
func Window(s beep.StreamSeekCloser, format beep.Format, t float64, n int) ([]float32, error) {
	pos := format.SampleRate.N(time.Duration(t * float64(time.Second)))
	if pos < 0 {
		pos = 0
	}
	if l := s.Len(); l > 0 && pos >= l {
		pos = l - 1
	}
	if err := s.Seek(pos); err != nil {
		return nil, fmt.Errorf("seek to %.2fs: %w", t, err)
	}
	buf := make([][2]float64, n)
	read := 0
	for read < n {
		got, ok := s.Stream(buf[read:])
		read += got
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	out := make([]float32, 2*n)
	for i := 0; i < read; i++ {
		out[2*i] = float32(buf[i][0])
		out[2*i+1] = float32(buf[i][1])
	}
	return out, nil
}
