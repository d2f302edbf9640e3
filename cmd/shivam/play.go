package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ItIsShivam/ItZShivam/internal/app"
	"github.com/ItIsShivam/ItZShivam/internal/config"
	"github.com/ItIsShivam/ItZShivam/internal/quote"
	"github.com/ItIsShivam/ItZShivam/internal/theme"
	"github.com/ItIsShivam/ItZShivam/internal/tui"
	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const logFileName = "shivam.log"

type PlayParams struct {
	Config   string `short:"c" optional:"true" help:"Config file (default: per-user config directory)."`
	LogLevel string `help:"Log level: trace, debug, info, warn, error." default:"info"`
	Mode     string `short:"m" optional:"true" help:"Visualizer mode: bars, wave, radial, pulse, equalizer."`
	Theme    string `short:"t" optional:"true" help:"Theme: dark or light."`
	Category string `optional:"true" help:"Quote category: auto, focus, calm, growth, life."`
}

func PlayCmd() *cobra.Command {
	return boa.CmdT[PlayParams]{
		Use:         "play",
		Short:       "Play the track list in the terminal",
		Long:        "Open the terminal player: track list, progress, braille visualizer and motivational quotes. Logs go to shivam.log in the cache directory.",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *PlayParams, cmd *cobra.Command, args []string) {
			os.Exit(RunPlay(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunPlay(params *PlayParams, stdout, stderr io.Writer) int {
	dirs := config.DefaultDirs()
	logFile, err := os.OpenFile(filepath.Join(dirs.Cache, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}
	defer logFile.Close()

	e, err := setup(params.Config, params.LogLevel, logFile)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}
	if params.Mode != "" {
		e.cfg.Visualizer.Mode = params.Mode
	}
	if params.Theme != "" {
		e.cfg.Appearance.Theme = params.Theme
	}
	if params.Category != "" {
		e.cfg.Quote.Category = params.Category
	}
	mode, err := visualizer.ParseMode(e.cfg.Visualizer.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}
	themeName, err := theme.Parse(e.cfg.Appearance.Theme)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}

	a, err := app.New(e.cfg, e.dirs, e.log)
	if err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}
	defer a.Close()

	quotes := make(chan quote.View, 8)
	presenter := a.NewPresenter(quote.OnChange(func(v quote.View) {
		select {
		case quotes <- v:
		default:
		}
	}))
	defer presenter.Close()

	model := tui.New(tui.Options{
		Player:      a.Player,
		Presenter:   presenter,
		QuoteEvents: quotes,
		Source:      a.Analyser,
		Mode:        mode,
		Theme:       themeName,
		FPS:         e.cfg.Visualizer.FPS,
		Category:    e.cfg.Quote.Category,
		Log:         e.log,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithOutput(stdout))

	watcher, err := config.NewWatcher(e.configPath, func(c *config.Config) {
		m, err := visualizer.ParseMode(c.Visualizer.Mode)
		if err != nil {
			e.log.Warn().Err(err).Msg("ignoring reloaded visualizer mode")
			return
		}
		n, err := theme.Parse(c.Appearance.Theme)
		if err != nil {
			e.log.Warn().Err(err).Msg("ignoring reloaded theme")
			return
		}
		a.Player.SetVolume(c.Player.Volume)
		a.Element.Tone().SetGains(c.Player.EQ)
		program.Send(tui.SettingsMsg{Theme: n, Mode: m})
	}, e.log)
	if err != nil {
		e.log.Warn().Err(err).Msg("config hot reload disabled")
	} else {
		watcher.StartAsync()
		defer watcher.Stop()
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(stderr, "play: %v\n", err)
		return 1
	}
	return 0
}
