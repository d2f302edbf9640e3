package shivam

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrNoTracks        = errors.New("track list is empty")
	ErrIndexOutOfRange = errors.New("track index out of range")
)

// Track is one entry of the manifest. Tracks are immutable once created.
type Track struct {
	ID     string
	Title  string
	Source string
}

// TrackSpec is the serialized form of a track in the manifest/config file.
type TrackSpec struct {
	Title  string
	Source string
}

// DefaultManifest is the stock track list shipped with the player.
var DefaultManifest = []TrackSpec{
	{Title: "Mortals (Funk Remix)", Source: "mortals-funk-remix.mp3"},
	{Title: "On & On", Source: "on-and-on.mp3"},
	{Title: "Make Me Move", Source: "make-me-move.mp3"},
	{Title: "Heroes Tonight", Source: "heroes-tonight.mp3"},
	{Title: "Power", Source: "power.mp3"},
	{Title: "Only Human", Source: "only-human.mp3"},
	{Title: "Want Your Body", Source: "want-your-body.mp3"},
	{Title: "Did It Mean Forever", Source: "did-it-mean-forever.mp3"},
	{Title: "Digital Death", Source: "digital-death.mp3"},
	{Title: "All I Need", Source: "all-i-need.mp3"},
}

// NewTracks assigns ids to a manifest and resolves relative sources against
// baseDir. Remote (http/https) sources are kept as is.
func NewTracks(specs []TrackSpec, baseDir string) []Track {
	return lo.Map(specs, func(s TrackSpec, _ int) Track {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = TitleFromSource(s.Source)
		}
		return Track{
			ID:     uuid.NewString(),
			Title:  title,
			Source: ResolveSource(s.Source, baseDir),
		}
	})
}

// ResolveSource joins a relative file locator onto baseDir.
func ResolveSource(src, baseDir string) string {
	if IsRemote(src) || filepath.IsAbs(src) || baseDir == "" {
		return src
	}
	return filepath.Join(baseDir, src)
}

// IsRemote reports whether src is an http(s) URL.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// TitleFromSource derives a display title from a file name.
func TitleFromSource(src string) string {
	base := src
	if u, err := url.Parse(src); err == nil && IsRemote(src) {
		base = u.Path
	}
	base = filepath.Base(base)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(name)
}
