package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ItIsShivam/ItZShivam/internal/app"
	"github.com/ItIsShivam/ItZShivam/internal/theme"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type QuoteParams struct {
	Config   string `short:"c" optional:"true" help:"Config file (default: per-user config directory)."`
	LogLevel string `help:"Log level: trace, debug, info, warn, error." default:"warn"`
	Category string `optional:"true" help:"Quote category: auto, focus, calm, growth, life."`
	Policy   string `short:"p" optional:"true" help:"Auto category policy: random or time."`
	Last     bool   `short:"l" optional:"true" help:"Print the last shown quote instead of a new one."`
}

func QuoteCmd() *cobra.Command {
	return boa.CmdT[QuoteParams]{
		Use:         "quote",
		Short:       "Print a motivational quote",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *QuoteParams, cmd *cobra.Command, args []string) {
			os.Exit(RunQuote(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunQuote(params *QuoteParams, stdout, stderr io.Writer) int {
	e, err := setup(params.Config, params.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "quote: %v\n", err)
		return 1
	}
	if params.Policy != "" {
		e.cfg.Quote.Policy = params.Policy
	}
	category := e.cfg.Quote.Category
	if params.Category != "" {
		category = params.Category
	}
	gen, err := app.NewGenerator(e.cfg.Quote)
	if err != nil {
		fmt.Fprintf(stderr, "quote: %v\n", err)
		return 1
	}
	st := app.StoreFor(e.dirs)

	var text string
	if params.Last {
		text, err = st.LastQuote()
		if err != nil {
			fmt.Fprintf(stderr, "quote: %v\n", err)
			return 1
		}
		if text == "" {
			fmt.Fprintln(stderr, "quote: no quote shown yet")
			return 1
		}
	} else {
		q, err := gen.Generate(category)
		if err != nil {
			fmt.Fprintf(stderr, "quote: %v\n", err)
			return 1
		}
		text = q.Text
		if err := st.SaveLastQuote(text); err != nil {
			e.log.Warn().Err(err).Msg("saving last quote")
		}
	}

	if !isTerminal(stdout) {
		fmt.Fprintln(stdout, text)
		return 0
	}
	n, err := theme.Parse(e.cfg.Appearance.Theme)
	if err != nil {
		n = theme.Dark
	}
	fmt.Fprintln(stdout, theme.For(n).Styles().Quote.Render(text))
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
