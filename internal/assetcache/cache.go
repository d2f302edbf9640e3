package assetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/20after4/configdir"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Name identifies the current cache generation. Changing the version makes
// the next Install drop the other generations of the same name.
const Name = "shivam-music-v1"

var ErrNotCached = errors.New("asset not cached")

const stagingSuffix = ".installing"

type Option func(*Cache)

func WithName(name string) Option {
	return func(c *Cache) {
		if name != "" {
			c.name = name
		}
	}
}

func WithClient(client *retryablehttp.Client) Option {
	return func(c *Cache) {
		if client != nil {
			c.client = client
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// Cache stores precached remote assets on disk and serves them ahead of the
// network. Local paths are passed straight through.
type Cache struct {
	mu     sync.Mutex
	root   string
	name   string
	client *retryablehttp.Client
	log    zerolog.Logger
}

func New(root string, opts ...Option) *Cache {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	c := &Cache{root: root, name: Name, client: client, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Name() string { return c.name }

// Dir is the directory holding the current generation.
func (c *Cache) Dir() string { return filepath.Join(c.root, c.name) }

func IsRemote(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func entryName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:])
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 6 {
			name += strings.ToLower(ext)
		}
	}
	return name
}

// Lookup returns the cached file for rawURL in the current generation.
func (c *Cache) Lookup(rawURL string) (string, bool) {
	p := filepath.Join(c.Dir(), entryName(rawURL))
	if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
		return p, true
	}
	return "", false
}

// Install fetches every URL into a staging area and only then publishes them
// into the current generation; one failure leaves the cache untouched. Older
// generations are removed afterwards.
func (c *Cache) Install(ctx context.Context, urls []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stage := c.Dir() + stagingSuffix
	if err := os.RemoveAll(stage); err != nil {
		return err
	}
	if err := configdir.MakePath(stage); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	for _, u := range urls {
		if !IsRemote(u) {
			continue
		}
		if err := c.download(ctx, u, filepath.Join(stage, entryName(u))); err != nil {
			return fmt.Errorf("precache %s: %w", u, err)
		}
	}

	if err := configdir.MakePath(c.Dir()); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	staged, err := os.ReadDir(stage)
	if err != nil {
		return err
	}
	for _, e := range staged {
		if err := os.Rename(filepath.Join(stage, e.Name()), filepath.Join(c.Dir(), e.Name())); err != nil {
			return fmt.Errorf("publish %s: %w", e.Name(), err)
		}
	}
	removed, err := c.pruneLocked()
	if err != nil {
		return err
	}
	c.log.Info().Str("cache", c.name).Int("assets", len(staged)).Strs("removed", removed).Msg("cache installed")
	return nil
}

// Prune deletes the other generations of this cache: directories named like
// the current one with a different "-vN" suffix. Anything else under the root
// is left alone.
func (c *Cache) Prune() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneLocked()
}

func (c *Cache) pruneLocked() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	prefix := generationPrefix(c.name)
	if prefix == "" {
		return nil, nil
	}
	var removed []string
	for _, e := range entries {
		base := strings.TrimSuffix(e.Name(), stagingSuffix)
		if !e.IsDir() || base == c.name {
			continue
		}
		if v, ok := strings.CutPrefix(base, prefix); !ok || !isVersion(v) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return removed, err
		}
		removed = append(removed, e.Name())
	}
	return removed, nil
}

// generationPrefix is the part of name shared by all its generations,
// "shivam-music-" for "shivam-music-v1". Unversioned names have none.
func generationPrefix(name string) string {
	i := strings.LastIndex(name, "-")
	if i < 0 || !isVersion(name[i+1:]) {
		return ""
	}
	return name[:i+1]
}

func isVersion(s string) bool {
	digits, ok := strings.CutPrefix(s, "v")
	if !ok || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Open serves src cache-first. Misses go to the network without being stored.
func (c *Cache) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !IsRemote(src) {
		return os.Open(src)
	}
	if p, ok := c.Lookup(src); ok {
		c.log.Debug().Str("url", src).Msg("cache hit")
		return os.Open(p)
	}
	c.log.Debug().Str("url", src).Msg("cache miss")
	resp, err := c.get(ctx, src)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// OpenCached is Open without the network fallback.
func (c *Cache) OpenCached(src string) (io.ReadCloser, error) {
	if !IsRemote(src) {
		return os.Open(src)
	}
	if p, ok := c.Lookup(src); ok {
		return os.Open(p)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotCached, src)
}

func (c *Cache) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return resp, nil
}

func (c *Cache) download(ctx context.Context, rawURL, dst string) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
