package main

import (
	"io"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/ItIsShivam/ItZShivam/internal/config"
	"github.com/ItIsShivam/ItZShivam/internal/logging"
	"github.com/rs/zerolog"
)

func paramEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

type env struct {
	cfg        *config.Config
	dirs       config.Dirs
	configPath string
	log        zerolog.Logger
}

// setup resolves the config file, loads it and configures logging to logOut.
func setup(configPath, level string, logOut io.Writer) (*env, error) {
	log, err := logging.Setup(level, logOut)
	if err != nil {
		return nil, err
	}
	dirs := config.DefaultDirs()
	if configPath == "" {
		configPath = dirs.ConfigFile()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("config", configPath).Msg("configuration loaded")
	return &env{cfg: cfg, dirs: dirs, configPath: configPath, log: log}, nil
}
