package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	shivam "github.com/ItIsShivam/ItZShivam"
	"github.com/ItIsShivam/ItZShivam/internal/theme"
	"github.com/ItIsShivam/ItZShivam/internal/visualizer"
	"github.com/spf13/cobra"
)

type RenderParams struct {
	Track   string  `pos:"true" required:"true" help:"Audio file to analyse."`
	Out     string  `short:"o" help:"Output PNG path." default:"frame.png"`
	At      float64 `help:"Position in seconds." default:"0"`
	Mode    string  `short:"m" help:"Visualizer mode: bars, wave, radial, pulse, equalizer." default:"bars"`
	Theme   string  `short:"t" help:"Theme: dark or light." default:"dark"`
	Width   int     `help:"Image width in pixels." default:"384"`
	Height  int     `help:"Image height in pixels." default:"160"`
	FFTSize int     `help:"FFT size, a power of two." default:"256"`
	Ambient bool    `short:"a" optional:"true" help:"Paint the ambient bass glow."`
}

func RenderCmd() *cobra.Command {
	return boa.CmdT[RenderParams]{
		Use:         "render",
		Short:       "Render one visualizer frame of a track to PNG",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *RenderParams, cmd *cobra.Command, args []string) {
			os.Exit(RunRender(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunRender(params *RenderParams, stdout, stderr io.Writer) int {
	mode, err := visualizer.ParseMode(params.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	n, err := theme.Parse(params.Theme)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	if params.Width <= 0 || params.Height <= 0 {
		fmt.Fprintf(stderr, "render: invalid size %dx%d\n", params.Width, params.Height)
		return 1
	}
	palette := theme.For(n)

	opts := shivam.DefaultFrameOptions()
	opts.At = params.At
	opts.Mode = mode
	opts.Width = params.Width
	opts.Height = params.Height
	opts.FFTSize = params.FFTSize
	opts.Style = palette.Visualizer()
	opts.Background = palette.Background
	opts.Ambient = params.Ambient

	c, err := shivam.RenderTrackFrame(params.Track, opts)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	if err := c.SavePNG(params.Out); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", params.Out)
	return 0
}
