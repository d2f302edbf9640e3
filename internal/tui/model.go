package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	shivam "github.com/ItIsShivam/ItZShivam"
	"github.com/ItIsShivam/ItZShivam/internal/quote"
	"github.com/ItIsShivam/ItZShivam/internal/theme"
	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	vizRows       = 8
	timeUpdate    = 250 * time.Millisecond
	startTimeout  = 5 * time.Second
	seekStep      = 0.05
	volumeStep    = 0.05
	defaultWidth  = 72
	minCanvasCols = 16
)

type timeMsg time.Time

type frameMsg struct{}

type quoteMsg quote.View

// SettingsMsg applies reloaded appearance settings to a running model.
type SettingsMsg struct {
	Theme theme.Name
	Mode  visualizer.Mode
}

// Options wires the model to the core components.
type Options struct {
	Player      *shivam.Player
	Presenter   *quote.Presenter
	QuoteEvents <-chan quote.View
	Source      visualizer.FrequencySource
	Mode        visualizer.Mode
	Theme       theme.Name
	FPS         int
	Category    string
	Log         zerolog.Logger
}

// Model is the bubbletea model of the terminal player.
type Model struct {
	player    *shivam.Player
	presenter *quote.Presenter
	quotes    <-chan quote.View
	log       zerolog.Logger

	canvas   *BrailleCanvas
	renderer *visualizer.Renderer
	sampler  *visualizer.Sampler
	loop     *visualizer.Loop
	frames   chan struct{}
	vizOn    bool

	themeName theme.Name
	styles    theme.Styles
	category  string

	display shivam.Display
	quote   quote.View
	cursor  int
	status  string
	err     error
	width   int
}

func New(opts Options) Model {
	frames := make(chan struct{}, 1)
	canvas := NewBrailleCanvas(defaultWidth-4, vizRows)
	renderer := visualizer.NewRenderer(opts.Mode, theme.For(opts.Theme).Visualizer())
	fitRenderer(renderer, canvas)
	m := Model{
		player:    opts.Player,
		presenter: opts.Presenter,
		quotes:    opts.QuoteEvents,
		log:       opts.Log,
		canvas:    canvas,
		renderer:  renderer,
		sampler:   visualizer.NewSampler(opts.Source, renderer, canvas),
		frames:    frames,
		vizOn:     true,
		themeName: opts.Theme,
		styles:    theme.For(opts.Theme).Styles(),
		category:  opts.Category,
		width:     defaultWidth,
	}
	m.loop = visualizer.NewLoop(opts.FPS, func() {
		select {
		case frames <- struct{}{}:
		default:
		}
	})
	if m.category == "" {
		m.category = quote.Auto
	}
	if opts.Player != nil {
		m.display = opts.Player.Display()
		m.cursor = opts.Player.Index()
		m.err = opts.Player.LoadError()
	}
	if opts.Presenter != nil {
		m.quote = opts.Presenter.View()
	}
	return m
}

// fitRenderer scales bar and wave output to the canvas height.
func fitRenderer(r *visualizer.Renderer, c *BrailleCanvas) {
	_, h := c.Size()
	r.BarPitch = 2
	r.BarWidth = 1
	r.Scale = h / 255
	r.Equalizer.Floor = 1
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.runLoop(), waitFrame(m.frames), tickTime(), waitQuote(m.quotes))
}

func (m Model) runLoop() tea.Cmd {
	loop := m.loop
	return func() tea.Msg {
		// a just-stopped run may still be unwinding
		for range 10 {
			err := loop.Run(context.Background())
			if !errors.Is(err, visualizer.ErrLoopRunning) {
				return nil
			}
			time.Sleep(10 * time.Millisecond)
		}
		return errMsg{visualizer.ErrLoopRunning}
	}
}

type errMsg struct{ err error }

func waitFrame(frames <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-frames
		return frameMsg{}
	}
}

func tickTime() tea.Cmd {
	return tea.Tick(timeUpdate, func(t time.Time) tea.Msg { return timeMsg(t) })
}

func waitQuote(ch <-chan quote.View) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return quoteMsg(v)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		cols := msg.Width - 4
		if cols < minCanvasCols {
			cols = minCanvasCols
		}
		m.canvas.Resize(cols, vizRows)
		fitRenderer(m.renderer, m.canvas)
		return m, nil
	case frameMsg:
		if m.vizOn {
			m.sampler.Tick()
		}
		return m, waitFrame(m.frames)
	case timeMsg:
		if m.player != nil {
			ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
			d, err := m.player.Tick(ctx)
			cancel()
			m.display = d
			if err != nil {
				m.setError(err)
			}
		}
		return m, tickTime()
	case quoteMsg:
		m.quote = quote.View(msg)
		return m, waitQuote(m.quotes)
	case errMsg:
		m.setError(msg.err)
		return m, nil
	case SettingsMsg:
		m.applyTheme(msg.Theme)
		m.renderer.Mode = msg.Mode
		m.setStatus("Settings reloaded")
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "Q":
		m.loop.Stop()
		if m.presenter != nil {
			m.presenter.Close()
		}
		return m, tea.Quit
	}
	if m.player == nil {
		return m, nil
	}
	n := len(m.player.Tracks())
	switch msg.String() {
	case " ":
		ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
		err := m.player.TogglePlay(ctx)
		cancel()
		if err != nil {
			m.setError(err)
		} else {
			m.setStatus(playLabel(m.player.IsPlaying()))
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter":
		if err := m.selectTrack(m.cursor); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Selected " + m.player.Current().Title)
		}
	case "n":
		m.selectRelative(1, n)
	case "p":
		m.selectRelative(-1, n)
	case "K":
		m.moveTrack(-1, n)
	case "J":
		m.moveTrack(1, n)
	case "left", "h":
		m.seekRelative(-seekStep)
	case "right", "l":
		m.seekRelative(seekStep)
	case "+", "=":
		m.player.SetVolume(m.player.Volume() + volumeStep)
		m.setStatus(fmt.Sprintf("Volume: %d%%", int(m.player.Volume()*100+0.5)))
	case "-":
		m.player.SetVolume(m.player.Volume() - volumeStep)
		m.setStatus(fmt.Sprintf("Volume: %d%%", int(m.player.Volume()*100+0.5)))
	case "v":
		m.renderer.Mode = m.renderer.Mode.Next()
		m.setStatus("Visualizer: " + string(m.renderer.Mode))
	case "V":
		return m.toggleVisualizer()
	case "t":
		m.applyTheme(m.themeName.Toggle())
		m.setStatus("Theme: " + string(m.themeName))
	case "c":
		m.category = nextCategory(m.category)
		m.setStatus("Quote category: " + m.category)
	case "i":
		if m.presenter != nil {
			if _, err := m.presenter.Show(m.category); err != nil {
				m.setError(err)
			}
		}
	}
	m.display = m.player.Display()
	return m, nil
}

func (m *Model) toggleVisualizer() (tea.Model, tea.Cmd) {
	if m.vizOn {
		m.vizOn = false
		m.loop.Stop()
		m.canvas.Clear()
		m.setStatus("Visualizer off")
		return *m, nil
	}
	m.vizOn = true
	m.setStatus("Visualizer on")
	return *m, m.runLoop()
}

func (m *Model) applyTheme(n theme.Name) {
	m.themeName = n
	palette := theme.For(n)
	m.styles = palette.Styles()
	m.renderer.Style = palette.Visualizer()
}

func (m *Model) selectTrack(i int) error {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	return m.player.SelectTrack(ctx, i)
}

func (m *Model) selectRelative(delta, n int) {
	i := (m.player.Index() + delta + n) % n
	if err := m.selectTrack(i); err != nil {
		m.setError(err)
		return
	}
	m.cursor = i
	m.setStatus("Selected " + m.player.Current().Title)
}

func (m *Model) moveTrack(delta, n int) {
	j := m.cursor + delta
	if j < 0 || j >= n {
		return
	}
	if err := m.player.SwapTracks(m.cursor, j); err != nil {
		m.setError(err)
		return
	}
	m.cursor = j
}

func (m *Model) seekRelative(delta float64) {
	if err := m.player.Seek(m.display.Progress + delta); err != nil {
		m.setError(err)
	}
}

func nextCategory(c string) string {
	all := append([]string{quote.Auto}, quote.Categories...)
	for i, v := range all {
		if v == c {
			return all[(i+1)%len(all)]
		}
	}
	return quote.Auto
}

func playLabel(playing bool) string {
	if playing {
		return "Playing"
	}
	return "Paused"
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *Model) setError(err error) {
	m.err = err
	m.log.Warn().Err(err).Msg("player error")
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString("\n  ")
	sb.WriteString(m.styles.Title.Render("ItZShivam"))
	sb.WriteString("\n  ")
	sb.WriteString(m.styles.Text.Render(m.display.NowPlaying))
	sb.WriteString("\n\n  ")
	sb.WriteString(m.progressLine())
	sb.WriteString("\n  ")

	state := "❚❚ paused"
	if m.player != nil && m.player.IsPlaying() {
		state = "▶ playing"
	}
	vol := 0.0
	if m.player != nil {
		vol = m.player.Volume()
	}
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s   vol %d%%   viz %s   theme %s   quotes %s",
		state, int(vol*100+0.5), m.renderer.Mode, m.themeName, m.category)))
	sb.WriteString("\n\n")

	if m.vizOn {
		for _, line := range strings.Split(m.canvas.String(), "\n") {
			sb.WriteString("  ")
			sb.WriteString(m.styles.Accent.Render(line))
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}

	if m.quote.Text != "" {
		q := m.styles.Quote
		if m.quote.Fading {
			q = q.Faint(true)
		}
		sb.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(q.Render(m.quote.Text)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.trackList())
	sb.WriteByte('\n')

	if m.err != nil {
		sb.WriteString("  ")
		sb.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		sb.WriteByte('\n')
	} else if m.status != "" {
		sb.WriteString("  ")
		sb.WriteString(m.styles.Muted.Render(m.status))
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	sb.WriteString(m.styles.Muted.Render("space play/pause  ↑↓ enter select  n/p next/prev  J/K move  ←→ seek  +/- volume  v mode  V viz  t theme  i inspire  c category  esc quit"))
	sb.WriteByte('\n')
	return sb.String()
}

func (m Model) progressLine() string {
	barW := m.width - 20
	if barW < 10 {
		barW = 10
	}
	filled := int(m.display.Progress * float64(barW))
	if filled > barW {
		filled = barW
	}
	bar := m.styles.Accent.Render(strings.Repeat("━", filled)) +
		m.styles.Muted.Render(strings.Repeat("─", barW-filled))
	elapsed, remaining := m.display.Elapsed, m.display.Remaining
	if elapsed == "" {
		elapsed, remaining = "0:00", "-0:00"
	}
	return fmt.Sprintf("%s %s %s", m.styles.Text.Render(elapsed), bar, m.styles.Text.Render(remaining))
}

func (m Model) trackList() string {
	if m.player == nil {
		return ""
	}
	var sb strings.Builder
	current := m.player.Index()
	for i, t := range m.player.Tracks() {
		marker := "  "
		if i == current {
			marker = "♪ "
		}
		line := fmt.Sprintf("%s%2d. %s", marker, i+1, t.Title)
		switch {
		case i == m.cursor:
			line = m.styles.Selected.Render(line)
		case i == current:
			line = m.styles.Accent.Render(line)
		default:
			line = m.styles.Text.Render(line)
		}
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
