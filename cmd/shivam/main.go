package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "shivam",
		Short:   "ItZShivam music player with a live visualizer and quotes",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			PlayCmd(),
			TracksCmd(),
			QuoteCmd(),
			RenderCmd(),
			CacheCmd(),
			ConfigCmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-(no build info)"
	}
	if bi.Main.Version == "" {
		return "unknown-(no version)"
	}
	return bi.Main.Version
}
