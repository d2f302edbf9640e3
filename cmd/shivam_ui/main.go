package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	shivam "github.com/ItIsShivam/ItZShivam"
	"github.com/ItIsShivam/ItZShivam/internal/app"
	"github.com/ItIsShivam/ItZShivam/internal/config"
	"github.com/ItIsShivam/ItZShivam/internal/logging"
	"github.com/ItIsShivam/ItZShivam/internal/quote"
	"github.com/ItIsShivam/ItZShivam/internal/theme"
	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	startTimeout = 2 * time.Second
	timeUpdates  = 4 // per second
	seekStep     = 0.05
	volumeStep   = 0.05
)

const (
	dragNone = iota
	dragVolume
	dragProgress
)

type game struct {
	app       *app.App
	player    *shivam.Player
	presenter *quote.Presenter
	log       zerolog.Logger

	themeName theme.Name
	palette   theme.Palette
	category  string

	vizCanvas *screenCanvas
	bgCanvas  *screenCanvas
	renderer  *visualizer.Renderer
	sampler   *visualizer.Sampler
	vizOn     bool

	dragging    int
	draggingEQ  int // band being dragged, -1 when none
	dragTrack   int // track index pressed in the list, -1 when none
	trackScroll int

	frameTick int
	tickEvery int
	settings  chan *config.Config

	status    string
	statusErr bool

	textCache map[string]*ebiten.Image
	viewW     int
	viewH     int
}

func newGame(a *app.App) (*game, error) {
	cfg := a.Config
	mode, err := visualizer.ParseMode(cfg.Visualizer.Mode)
	if err != nil {
		return nil, err
	}
	themeName, err := theme.Parse(cfg.Appearance.Theme)
	if err != nil {
		return nil, err
	}
	fps := visualizer.ClampFPS(cfg.Visualizer.FPS)

	g := &game{
		app:        a,
		player:     a.Player,
		presenter:  a.NewPresenter(),
		log:        a.Log,
		category:   cfg.Quote.Category,
		vizOn:      true,
		dragTrack:  -1,
		draggingEQ: -1,
		tickEvery:  max(1, fps/timeUpdates),
		settings:   make(chan *config.Config, 1),
		status:     "Ready",
		textCache:  make(map[string]*ebiten.Image, 1024),
		viewW:      max(cfg.Appearance.WindowWidth, minWindowW),
		viewH:      max(cfg.Appearance.WindowHeight, minWindowH),
	}
	inner := layoutRects(g.viewW, g.viewH).vizInner()
	g.vizCanvas = newScreenCanvas(inner.Dx(), inner.Dy())
	g.bgCanvas = newScreenCanvas(inner.Dx(), inner.Dy())
	g.renderer = visualizer.NewRenderer(mode, theme.For(themeName).Visualizer())
	g.sampler = visualizer.NewSampler(a.Analyser, g.renderer, g.vizCanvas)
	if cfg.Visualizer.Ambient {
		g.sampler.WithAmbient(visualizer.NewAmbient(cfg.Visualizer.AmbientSmoothing), g.bgCanvas)
	}
	g.applyTheme(themeName)
	if err := a.Player.LoadError(); err != nil {
		g.setError(err.Error())
	}
	ebiten.SetTPS(fps)
	return g, nil
}

func (g *game) Update() error {
	g.frameTick++
	g.applySettings()
	g.handleKeys()
	g.handleMouse()
	if g.frameTick%g.tickEvery == 0 {
		g.tickPlayer()
	}
	if g.vizOn {
		inner := layoutRects(g.viewW, g.viewH).vizInner()
		g.vizCanvas.resize(inner.Dx(), inner.Dy())
		g.bgCanvas.resize(inner.Dx(), inner.Dy())
		g.sampler.Tick()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background)
	l := layoutRects(g.viewW, g.viewH)
	d := g.player.Display()
	mx, my := ebiten.CursorPosition()

	maxChars := max(8, l.header.Dx()/charW)
	g.drawText(screen, "ItZShivam", l.header.Min.X, l.header.Min.Y, g.palette.Accent, 1)
	g.drawText(screen, shortenEnd(d.NowPlaying, maxChars), l.header.Min.X, l.header.Min.Y+lineH+4, g.palette.Text, 1)

	g.drawVisualizer(screen, l)
	g.drawQuote(screen, l.quote)
	g.drawTrackList(screen, l)
	g.drawEQ(screen, l.eq)
	g.drawProgress(screen, l, d)

	g.drawButton(screen, l.play, g.playButtonLabel(), pointInRect(mx, my, l.play))
	g.drawButton(screen, l.inspire, "Inspire", pointInRect(mx, my, l.inspire))
	g.drawButton(screen, l.theme, themeLabel(g.themeName), pointInRect(mx, my, l.theme))
	g.drawButton(screen, l.mode, modeLabel(g.renderer.Mode), pointInRect(mx, my, l.mode))
	g.drawButton(screen, l.vizBtn, "Viz", pointInRect(mx, my, l.vizBtn))
	g.drawVolumeSlider(screen, l)

	g.drawSunkenPanel(screen, l.status)
	g.drawStatus(screen, l.status)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

func (g *game) Close() {
	g.presenter.Close()
	g.app.Close()
}

func (g *game) tickPlayer() {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if _, err := g.player.Tick(ctx); err != nil {
		g.setError(err.Error())
	}
}

// applySettings picks up a config reloaded by the file watcher.
func (g *game) applySettings() {
	select {
	case cfg := <-g.settings:
		if m, err := visualizer.ParseMode(cfg.Visualizer.Mode); err == nil {
			g.renderer.Mode = m
		}
		if n, err := theme.Parse(cfg.Appearance.Theme); err == nil {
			g.applyTheme(n)
		}
		g.player.SetVolume(cfg.Player.Volume)
		g.app.Element.Tone().SetGains(cfg.Player.EQ)
		g.setStatus("Settings reloaded")
	default:
	}
}

func (g *game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.togglePlayPause()
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.seekRelative(seekStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.seekRelative(-seekStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.setVolume(g.player.Volume() + volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.setVolume(g.player.Volume() - volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.selectRelative(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.selectRelative(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.cycleMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.toggleVisualizer()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.toggleTheme()
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		g.inspire()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.category = nextCategory(g.category)
		g.setStatus("Quote category: " + g.category)
	}
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	l := layoutRects(g.viewW, g.viewH)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case pointInRect(mx, my, l.play):
			g.togglePlayPause()
		case pointInRect(mx, my, l.inspire):
			g.inspire()
		case pointInRect(mx, my, l.theme):
			g.toggleTheme()
		case pointInRect(mx, my, l.mode):
			g.cycleMode()
		case pointInRect(mx, my, l.vizBtn):
			g.toggleVisualizer()
		case pointInRect(mx, my, l.volume):
			g.dragging = dragVolume
			g.setVolume(sliderFrac(mx, l.volumeTrack))
		case pointInRect(mx, my, l.progress):
			g.dragging = dragProgress
			g.seekTo(sliderFrac(mx, l.progressTrack))
		case pointInRect(mx, my, l.eq):
			g.clickEQ(mx, my, l.eq)
		case pointInRect(mx, my, l.tracks):
			if row := l.trackRowAt(my); row >= 0 {
				g.dragTrack = g.trackScroll + row
			}
		}
		return
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.dragTrack >= 0 {
			g.releaseTrack(l, mx, my)
		}
		g.dragging = dragNone
		g.draggingEQ = -1
		g.dragTrack = -1
	}
	if g.draggingEQ >= 0 {
		g.dragEQ(my, l.eq)
	}
	switch g.dragging {
	case dragVolume:
		g.setVolume(sliderFrac(mx, l.volumeTrack))
	case dragProgress:
		g.seekTo(sliderFrac(mx, l.progressTrack))
	}

	_, wy := ebiten.Wheel()
	if wy != 0 && pointInRect(mx, my, l.tracks) {
		maxScroll := max(0, len(g.player.Tracks())-l.trackRows())
		g.trackScroll = int(clamp(float64(g.trackScroll)-wy, 0, float64(maxScroll)))
	}
}

// releaseTrack selects the pressed track, or swaps it with the one it was
// dropped on.
func (g *game) releaseTrack(l uiLayout, mx, my int) {
	n := len(g.player.Tracks())
	if g.dragTrack >= n {
		return
	}
	target := -1
	if pointInRect(mx, my, l.tracks) {
		if row := l.trackRowAt(my); row >= 0 && g.trackScroll+row < n {
			target = g.trackScroll + row
		}
	}
	switch {
	case target == g.dragTrack:
		if err := g.selectTrack(target); err != nil {
			g.setError(err.Error())
			return
		}
		g.setStatus("Selected " + g.player.Current().Title)
	case target >= 0:
		if err := g.player.SwapTracks(g.dragTrack, target); err != nil {
			g.setError(err.Error())
			return
		}
		g.setStatus(fmt.Sprintf("Moved track %d to %d", g.dragTrack+1, target+1))
	}
}

func (g *game) togglePlayPause() {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := g.player.TogglePlay(ctx); err != nil {
		g.setError(err.Error())
		return
	}
	if g.player.IsPlaying() {
		g.setStatus("Playing")
	} else {
		g.setStatus("Paused")
	}
}

func (g *game) selectTrack(i int) error {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	return g.player.SelectTrack(ctx, i)
}

func (g *game) selectRelative(delta int) {
	n := len(g.player.Tracks())
	i := (g.player.Index() + delta + n) % n
	if err := g.selectTrack(i); err != nil {
		g.setError(err.Error())
		return
	}
	g.setStatus("Selected " + g.player.Current().Title)
}

func (g *game) seekRelative(delta float64) {
	g.seekTo(g.player.Display().Progress + delta)
}

func (g *game) seekTo(frac float64) {
	if err := g.player.Seek(frac); err != nil {
		g.setError(err.Error())
	}
}

func (g *game) setVolume(v float64) {
	g.player.SetVolume(v)
	g.setStatus(fmt.Sprintf("Volume: %d%%", int(g.player.Volume()*100+0.5)))
}

func (g *game) inspire() {
	if _, err := g.presenter.Show(g.category); err != nil {
		g.setError(err.Error())
	}
}

func (g *game) cycleMode() {
	g.renderer.Mode = g.renderer.Mode.Next()
	g.setStatus("Visualizer: " + modeLabel(g.renderer.Mode))
}

func (g *game) toggleVisualizer() {
	g.vizOn = !g.vizOn
	if g.vizOn {
		g.setStatus("Visualizer on")
		return
	}
	g.vizCanvas.Clear()
	g.bgCanvas.Clear()
	g.setStatus("Visualizer off")
}

func (g *game) toggleTheme() {
	g.applyTheme(g.themeName.Toggle())
	g.setStatus("Theme: " + themeLabel(g.themeName))
}

func (g *game) applyTheme(n theme.Name) {
	g.themeName = n
	g.palette = theme.For(n)
	g.renderer.Style = g.palette.Visualizer()
}

func (g *game) playButtonLabel() string {
	if g.player.IsPlaying() {
		return "Pause"
	}
	return "Play"
}

func (g *game) setError(msg string) {
	g.status = msg
	g.statusErr = true
	g.log.Warn().Msg(msg)
}

func (g *game) setStatus(msg string) {
	g.status = msg
	g.statusErr = false
}

func (g *game) drawVisualizer(screen *ebiten.Image, l uiLayout) {
	g.drawSunkenPanel(screen, l.viz)
	inner := l.vizInner()
	if !g.vizOn {
		g.drawText(screen, "Visualizer off", inner.Min.X+8, inner.Min.Y+8, g.palette.Muted, 1)
		return
	}
	for _, c := range []*screenCanvas{g.bgCanvas, g.vizCanvas} {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(inner.Min.X), float64(inner.Min.Y))
		screen.DrawImage(c.img, op)
	}
}

func (g *game) drawQuote(screen *ebiten.Image, rect image.Rectangle) {
	g.drawPanel(screen, rect)
	v := g.presenter.View()
	if v.Text == "" {
		g.drawText(screen, "Press Inspire for a quote.", rect.Min.X+12, rect.Min.Y+12, g.palette.Muted, 1)
		return
	}
	alpha := quoteAlpha(v, time.Now(), g.presenter.FadeDuration())
	maxChars := max(8, (rect.Dx()-24)/charW)
	lines := wrapText(v.Text, maxChars)
	for i, line := range lines {
		if i == quoteRows {
			break
		}
		if i == quoteRows-1 && len(lines) > quoteRows {
			line = shortenEnd(line+" ...", maxChars)
		}
		g.drawText(screen, line, rect.Min.X+12, rect.Min.Y+12+i*lineH, g.palette.Text, alpha)
	}
}

func (g *game) drawTrackList(screen *ebiten.Image, l uiLayout) {
	rect := l.tracks
	g.drawSunkenPanel(screen, rect)
	g.drawText(screen, "Tracks", rect.Min.X+8, rect.Min.Y+8, g.palette.Muted, 1)

	tracks := g.player.Tracks()
	current := g.player.Index()
	maxChars := max(8, (rect.Dx()-20)/charW)
	top := rect.Min.Y + 12 + lineH + 4
	for row := 0; row < l.trackRows(); row++ {
		idx := g.trackScroll + row
		if idx >= len(tracks) {
			break
		}
		y := top + row*trackRowH
		col := g.palette.Text
		if idx == current {
			fillRect(screen, float64(rect.Min.X+4), float64(y-2), float64(rect.Dx()-8), float64(trackRowH), g.palette.Accent)
			col = g.palette.Panel
		}
		if idx == g.dragTrack {
			drawBorder(screen, image.Rect(rect.Min.X+4, y-2, rect.Max.X-4, y-2+trackRowH))
		}
		label := fmt.Sprintf("%d. %s", idx+1, tracks[idx].Title)
		g.drawText(screen, shortenEnd(label, maxChars), rect.Min.X+10, y, col, 1)
	}
}

func (g *game) drawProgress(screen *ebiten.Image, l uiLayout, d shivam.Display) {
	g.drawPanel(screen, l.progress)
	y := l.progress.Min.Y + (rowH-lineH)/2
	g.drawText(screen, d.Elapsed, l.progress.Min.X+8, y, g.palette.Text, 1)
	g.drawText(screen, d.Remaining, l.progressTrack.Max.X+12, y, g.palette.Text, 1)
	g.drawSlider(screen, l.progressTrack, d.Progress)
}

func (g *game) drawVolumeSlider(screen *ebiten.Image, l uiLayout) {
	g.drawPanel(screen, l.volume)
	label := fmt.Sprintf("Vol %d%%", int(g.player.Volume()*100+0.5))
	g.drawText(screen, label, l.volume.Min.X+8, l.volume.Min.Y+(rowH-lineH)/2, g.palette.Text, 1)
	if l.volumeTrack.Dx() >= 20 {
		g.drawSlider(screen, l.volumeTrack, g.player.Volume())
	}
}

func (g *game) drawStatus(screen *ebiten.Image, rect image.Rectangle) {
	msg := "Status: " + g.status
	col := g.palette.Text
	if g.statusErr {
		msg = "Status: ERROR - " + g.status
		col = g.palette.Error
	}
	maxChars := max(8, (rect.Dx()-16)/charW)
	g.drawText(screen, shortenEnd(msg, maxChars), rect.Min.X+8, rect.Min.Y+6, col, 1)
}

// quoteAlpha is the opacity of the quote text: fading out while a swap is
// pending, fading in after it lands.
func quoteAlpha(v quote.View, now time.Time, fade time.Duration) float64 {
	t := 1.0
	if fade > 0 {
		t = clamp(float64(now.Sub(v.Changed))/float64(fade), 0, 1)
	}
	if v.Fading {
		return 1 - t
	}
	return t
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

func themeLabel(n theme.Name) string {
	if n == theme.Light {
		return "Light"
	}
	return "Dark"
}

func modeLabel(m visualizer.Mode) string {
	switch m {
	case visualizer.ModeWave:
		return "Wave"
	case visualizer.ModeRadial:
		return "Radial"
	case visualizer.ModePulse:
		return "Pulse"
	case visualizer.ModeEqualizer:
		return "Equalizer"
	default:
		return "Bars"
	}
}

type Params struct {
	Config   string `short:"c" optional:"true" help:"Config file (default: per-user config directory)."`
	LogLevel string `help:"Log level: trace, debug, info, warn, error." default:"info"`
}

func main() {
	boa.CmdT[Params]{
		Use:         "shivam_ui",
		Short:       "ItZShivam music player window",
		ParamEnrich: boa.ParamEnricherCombine(
			boa.ParamEnricherBool,
			boa.ParamEnricherName,
			boa.ParamEnricherShort,
		),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "shivam_ui: %v\n", err)
				os.Exit(1)
			}
		},
	}.Run()
}

func run(params *Params) error {
	log, err := logging.Setup(params.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	dirs := config.DefaultDirs()
	path := params.Config
	if path == "" {
		path = dirs.ConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, dirs, log)
	if err != nil {
		return err
	}
	g, err := newGame(a)
	if err != nil {
		a.Close()
		return err
	}
	defer g.Close()

	watcher, err := config.NewWatcher(path, func(c *config.Config) {
		select {
		case g.settings <- c:
		default:
		}
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		watcher.StartAsync()
		defer watcher.Stop()
	}

	ebiten.SetWindowSize(g.viewW, g.viewH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("ItZShivam")
	return ebiten.RunGame(g)
}
