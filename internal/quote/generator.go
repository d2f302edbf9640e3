package quote

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

var ErrUnknownCategory = errors.New("unknown quote category")

// Auto asks the generator to pick the category itself.
const Auto = "auto"

type Policy int

const (
	// PolicyRandom picks uniformly among Categories.
	PolicyRandom Policy = iota
	// PolicyTimeOfDay picks the mood for the current hour.
	PolicyTimeOfDay
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return PolicyRandom, nil
	case "time", "time-of-day", "timeofday":
		return PolicyTimeOfDay, nil
	}
	return 0, fmt.Errorf("invalid quote policy %q (expected random|time-of-day)", s)
}

type Quote struct {
	Category string
	Text     string
}

type generatorConfig struct {
	pools    Pools
	fallback []string
	union    bool
	policy   Policy
	now      func() time.Time
	rng      *rand.Rand
}

type Option func(*generatorConfig)

func WithPolicy(p Policy) Option {
	return func(c *generatorConfig) { c.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(c *generatorConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func WithRand(r *rand.Rand) Option {
	return func(c *generatorConfig) {
		if r != nil {
			c.rng = r
		}
	}
}

func WithPools(p Pools) Option {
	return func(c *generatorConfig) {
		if len(p) > 0 {
			c.pools = p
		}
	}
}

// WithFallback unions every pick with the given pool.
func WithFallback(pool []string) Option {
	return func(c *generatorConfig) {
		c.fallback = pool
		c.union = len(pool) > 0
	}
}

// Generator is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	cfg generatorConfig
}

func NewGenerator(opts ...Option) *Generator {
	cfg := generatorConfig{
		pools:  DefaultPools(),
		policy: PolicyRandom,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Generator{cfg: cfg}
}

// Resolve turns a requested category into the pool label to draw from.
func (g *Generator) Resolve(category string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveLocked(category)
}

func (g *Generator) resolveLocked(category string) (string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == Auto {
		if g.cfg.policy == PolicyTimeOfDay {
			return MoodForHour(g.cfg.now().Hour()), nil
		}
		choices := lo.Filter(Categories, func(c string, _ int) bool {
			return len(g.cfg.pools[c]) > 0
		})
		if len(choices) == 0 {
			return "", ErrUnknownCategory
		}
		return choices[g.cfg.rng.IntN(len(choices))], nil
	}
	if _, ok := g.cfg.pools[category]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return category, nil
}

// Pool returns the candidates for a resolved label, fallback included.
func (g *Generator) Pool(label string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poolLocked(label)
}

func (g *Generator) poolLocked(label string) []string {
	pool := g.cfg.pools[label]
	if g.cfg.union {
		return lo.Union(pool, g.cfg.fallback)
	}
	return pool
}

func (g *Generator) Generate(category string) (Quote, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	label, err := g.resolveLocked(category)
	if err != nil {
		return Quote{}, err
	}
	pool := g.poolLocked(label)
	if len(pool) == 0 {
		return Quote{}, fmt.Errorf("%w: %q has no quotes", ErrUnknownCategory, label)
	}
	return Quote{Category: label, Text: pool[g.cfg.rng.IntN(len(pool))]}, nil
}
