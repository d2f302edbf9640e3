package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ItIsShivam/ItZShivam/internal/app"
	"github.com/ItIsShivam/ItZShivam/internal/assetcache"
	"github.com/spf13/cobra"
)

type CacheParams struct {
	Config    string `short:"c" optional:"true" help:"Config file (default: per-user config directory)."`
	LogLevel  string `help:"Log level: trace, debug, info, warn, error." default:"info"`
	PruneOnly bool   `optional:"true" help:"Only remove older shivam-music-vN cache generations."`
}

func CacheCmd() *cobra.Command {
	return boa.CmdT[CacheParams]{
		Use:         "cache",
		Short:       "Download remote tracks into the offline cache",
		Long:        "Install every http(s) track of the track list into the current cache generation, all or nothing, then remove older generations.",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *CacheParams, cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			os.Exit(RunCache(ctx, params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunCache(ctx context.Context, params *CacheParams, stdout, stderr io.Writer) int {
	e, err := setup(params.Config, params.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "cache: %v\n", err)
		return 1
	}
	c := assetcache.New(app.CacheRoot(e.cfg, e.dirs), assetcache.WithLogger(e.log))

	if params.PruneOnly {
		removed, err := c.Prune()
		if err != nil {
			fmt.Fprintf(stderr, "cache: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "removed %d old cache generation(s)\n", len(removed))
		return 0
	}

	urls := app.RemoteSources(app.Tracks(e.cfg))
	if len(urls) == 0 {
		fmt.Fprintln(stdout, "no remote tracks to cache")
		return 0
	}
	if err := c.Install(ctx, urls); err != nil {
		fmt.Fprintf(stderr, "cache: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "cached %d track(s) in %s\n", len(urls), c.Dir())
	return 0
}
