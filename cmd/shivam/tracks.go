package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	shivam "github.com/ItIsShivam/ItZShivam"
	"github.com/ItIsShivam/ItZShivam/internal/app"
	"github.com/ItIsShivam/ItZShivam/internal/assetcache"
	"github.com/ItIsShivam/ItZShivam/internal/decode"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type TracksParams struct {
	Config   string `short:"c" optional:"true" help:"Config file (default: per-user config directory)."`
	LogLevel string `help:"Log level: trace, debug, info, warn, error." default:"warn"`
	Scan     string `short:"s" optional:"true" help:"Scan a directory for audio files instead of listing the configured tracks."`
}

func TracksCmd() *cobra.Command {
	return boa.CmdT[TracksParams]{
		Use:         "tracks",
		Short:       "List the track list or scan a music directory",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *TracksParams, cmd *cobra.Command, args []string) {
			os.Exit(RunTracks(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunTracks(params *TracksParams, stdout, stderr io.Writer) int {
	e, err := setup(params.Config, params.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "tracks: %v\n", err)
		return 1
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)

	if params.Scan != "" {
		entries, err := decode.Scan(params.Scan, e.log)
		if err != nil {
			fmt.Fprintf(stderr, "tracks: %v\n", err)
			return 1
		}
		t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Length", "Source"})
		for i, en := range entries {
			title := en.Title
			if title == "" {
				title = shivam.TitleFromSource(en.Source)
			}
			t.AppendRow(table.Row{i + 1, title, en.Artist, en.Album, shivam.FormatTime(en.Duration.Seconds()), en.Source})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 5, Align: text.AlignRight}})
		t.Render()
		return 0
	}

	var cache *assetcache.Cache
	if e.cfg.Cache.Enabled {
		cache = assetcache.New(app.CacheRoot(e.cfg, e.dirs), assetcache.WithLogger(e.log))
	}
	t.AppendHeader(table.Row{"#", "Title", "Source", "Cached"})
	for i, tr := range app.Tracks(e.cfg) {
		t.AppendRow(table.Row{i + 1, tr.Title, tr.Source, cachedLabel(cache, tr.Source)})
	}
	t.Render()
	return 0
}

func cachedLabel(c *assetcache.Cache, src string) string {
	if !assetcache.IsRemote(src) {
		return "local"
	}
	if c == nil {
		return "-"
	}
	if _, ok := c.Lookup(src); ok {
		return "yes"
	}
	return "no"
}
