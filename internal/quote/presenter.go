package quote

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultFade = 200 * time.Millisecond

// Timer is the cancel handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Store persists the last shown quote.
type Store interface {
	LastQuote() (string, error)
	SaveLastQuote(text string) error
}

// View is what the host should show. While Fading is true the old text is
// on its way out and the host dims it.
type View struct {
	Text     string
	Category string
	Fading   bool
	Changed  time.Time
}

type presenterConfig struct {
	fade     time.Duration
	schedule Scheduler
	store    Store
	log      zerolog.Logger
	onChange func(View)
	now      func() time.Time
}

type PresenterOption func(*presenterConfig)

func WithFade(d time.Duration) PresenterOption {
	return func(c *presenterConfig) { c.fade = d }
}

func WithScheduler(s Scheduler) PresenterOption {
	return func(c *presenterConfig) {
		if s != nil {
			c.schedule = s
		}
	}
}

func WithStore(s Store) PresenterOption {
	return func(c *presenterConfig) { c.store = s }
}

func WithLogger(l zerolog.Logger) PresenterOption {
	return func(c *presenterConfig) { c.log = l }
}

// OnChange is called after every view transition, outside the presenter lock.
func OnChange(f func(View)) PresenterOption {
	return func(c *presenterConfig) { c.onChange = f }
}

// Presenter swaps quote text with a fade. At most one swap is pending; a new
// Show replaces it.
type Presenter struct {
	mu      sync.Mutex
	gen     *Generator
	cfg     presenterConfig
	view    View
	pending Timer
	seq     uint64
}

func NewPresenter(gen *Generator, opts ...PresenterOption) *Presenter {
	cfg := presenterConfig{
		fade:     DefaultFade,
		schedule: realScheduler,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Presenter{gen: gen, cfg: cfg}
}

// Restore loads the persisted quote into the view without a fade. It returns
// the restored text, empty when nothing was stored.
func (p *Presenter) Restore() string {
	if p.cfg.store == nil {
		return ""
	}
	text, err := p.cfg.store.LastQuote()
	if err != nil {
		p.cfg.log.Warn().Err(err).Msg("quote restore failed")
		return ""
	}
	if text == "" {
		return ""
	}
	p.mu.Lock()
	p.view = View{Text: text, Changed: p.cfg.now()}
	v := p.view
	p.mu.Unlock()
	p.notify(v)
	return text
}

// Show picks a quote from category and starts the fade to it.
func (p *Presenter) Show(category string) (Quote, error) {
	q, err := p.gen.Generate(category)
	if err != nil {
		return Quote{}, err
	}
	p.Display(q)
	return q, nil
}

// Display starts the fade to q, superseding any pending swap.
func (p *Presenter) Display(q Quote) {
	p.mu.Lock()
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
	p.seq++
	seq := p.seq
	p.view.Fading = true
	p.view.Changed = p.cfg.now()
	faded := p.view
	p.pending = p.cfg.schedule(p.cfg.fade, func() { p.land(seq, q) })
	p.mu.Unlock()
	p.notify(faded)
}

func (p *Presenter) land(seq uint64, q Quote) {
	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return
	}
	p.pending = nil
	p.view = View{Text: q.Text, Category: q.Category, Changed: p.cfg.now()}
	v := p.view
	p.mu.Unlock()

	if p.cfg.store != nil {
		if err := p.cfg.store.SaveLastQuote(q.Text); err != nil {
			p.cfg.log.Warn().Err(err).Msg("quote save failed")
		}
	}
	p.cfg.log.Debug().Str("category", q.Category).Msg("quote shown")
	p.notify(v)
}

func (p *Presenter) notify(v View) {
	if p.cfg.onChange != nil {
		p.cfg.onChange(v)
	}
}

func (p *Presenter) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Pending reports whether a swap is scheduled.
func (p *Presenter) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

func (p *Presenter) FadeDuration() time.Duration {
	return p.cfg.fade
}

// Close cancels a pending swap.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
	p.seq++
}
