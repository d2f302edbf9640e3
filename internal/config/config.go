package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/20after4/configdir"
	"github.com/pelletier/go-toml/v2"
)

const (
	AppName        = "shivam"
	ConfigFileName = "config.toml"
)

type TrackEntry struct {
	Title  string
	Source string
}

type PlayerConfig struct {
	MusicDir string
	Volume   float64
	// EQ holds the tone control gains, lowest band first; 1 is unity.
	EQ []float64
	// Tracks replaces the built-in manifest when non-empty.
	Tracks []TrackEntry
}

type VisualizerConfig struct {
	Mode             string
	FPS              int
	FFTSize          int
	Smoothing        float64
	Ambient          bool
	AmbientSmoothing float64
}

type QuoteConfig struct {
	Policy   string
	Category string
	Fallback bool
}

type AppearanceConfig struct {
	Theme        string
	WindowWidth  int
	WindowHeight int
}

type CacheConfig struct {
	Enabled bool
	Dir     string
}

type Config struct {
	Player     PlayerConfig
	Visualizer VisualizerConfig
	Quote      QuoteConfig
	Appearance AppearanceConfig
	Cache      CacheConfig
}

func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			MusicDir: "music",
			Volume:   1,
			EQ:       []float64{1, 1, 1, 1, 1},
		},
		Visualizer: VisualizerConfig{
			Mode:      "bars",
			FPS:       60,
			FFTSize:   256,
			Smoothing: 0.8,
			Ambient:   true,
		},
		Quote: QuoteConfig{
			Policy:   "random",
			Category: "auto",
		},
		Appearance: AppearanceConfig{
			Theme:        "dark",
			WindowWidth:  960,
			WindowHeight: 640,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig()
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

var writeLock sync.Mutex

func (c *Config) WriteConfigFile(path string) error {
	writeLock.Lock()
	defer writeLock.Unlock()

	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := configdir.MakePath(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ApplyEnv overlays SHIVAM_* environment variables.
func (c *Config) ApplyEnv() {
	c.Player.MusicDir = envStr("SHIVAM_MUSIC_DIR", c.Player.MusicDir)
	c.Appearance.Theme = envStr("SHIVAM_THEME", c.Appearance.Theme)
	c.Visualizer.Mode = envStr("SHIVAM_VISUALIZER", c.Visualizer.Mode)
	c.Visualizer.FPS = envInt("SHIVAM_FPS", c.Visualizer.FPS)
	c.Quote.Policy = envStr("SHIVAM_QUOTE_POLICY", c.Quote.Policy)
}

// Load reads path if it exists, falling back to defaults, then applies the
// environment.
func Load(path string) (*Config, error) {
	c, err := ReadConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	return c, nil
}

type Dirs struct {
	Config string
	Cache  string
}

// DefaultDirs returns the per-user config and cache directories, creating them.
// SHIVAM_CONFIG_DIR and SHIVAM_CACHE_DIR override the platform locations.
func DefaultDirs() Dirs {
	d := Dirs{
		Config: envStr("SHIVAM_CONFIG_DIR", configdir.LocalConfig(AppName)),
		Cache:  envStr("SHIVAM_CACHE_DIR", configdir.LocalCache(AppName)),
	}
	configdir.MakePath(d.Config)
	configdir.MakePath(d.Cache)
	return d
}

func (d Dirs) ConfigFile() string {
	return filepath.Join(d.Config, ConfigFileName)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
