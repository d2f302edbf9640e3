package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ItIsShivam/ItZShivam/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type ConfigParams struct {
	Config string `short:"c" optional:"true" help:"Config file (default: per-user config directory)."`
	Init   bool   `optional:"true" help:"Write a default config file if none exists."`
}

func ConfigCmd() *cobra.Command {
	return boa.CmdT[ConfigParams]{
		Use:         "config",
		Short:       "Show the effective configuration",
		ParamEnrich: paramEnricher(),
		RunFunc: func(params *ConfigParams, cmd *cobra.Command, args []string) {
			os.Exit(RunConfig(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunConfig(params *ConfigParams, stdout, stderr io.Writer) int {
	path := params.Config
	if path == "" {
		path = config.DefaultDirs().ConfigFile()
	}
	if params.Init {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := config.DefaultConfig().WriteConfigFile(path); err != nil {
				fmt.Fprintf(stderr, "config: %v\n", err)
				return 1
			}
			fmt.Fprintf(stderr, "wrote %s\n", path)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "# %s\n%s", path, b)
	return 0
}
