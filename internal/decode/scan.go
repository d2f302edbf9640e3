package decode

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dhowden/tag"
	"github.com/rs/zerolog"
)

// Entry describes one audio file found by Scan. Title is empty when the file
// carries no usable tag.
type Entry struct {
	Source   string // relative to the scanned directory, slash-separated
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// Scan walks dir for decodable audio files, reading tags and durations.
// Unreadable files are logged and skipped.
func Scan(dir string, log zerolog.Logger) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		e := Entry{Source: filepath.ToSlash(rel)}
		readTags(path, &e, log)
		e.Duration = probeDuration(path, log)
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Source < entries[j].Source })
	return entries, nil
}

func readTags(path string, e *Entry, log zerolog.Logger) {
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("open for tags failed")
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("no tags")
		return
	}
	e.Title = m.Title()
	e.Artist = m.Artist()
	e.Album = m.Album()
}

func probeDuration(path string, log zerolog.Logger) time.Duration {
	s, format, err := Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("probe failed")
		return 0
	}
	defer s.Close()
	return format.SampleRate.D(s.Len())
}
