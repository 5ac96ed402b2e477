package main

import (
	"context"
	"io/fs"
	"os"

	"github.com/kempshot/rmes-client/pkg/api"
	"github.com/kempshot/rmes-client/pkg/config"
	"github.com/kempshot/rmes-client/pkg/controller"
	"github.com/kempshot/rmes-client/pkg/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	ctx := context.Background()

	configPath := pflag.String("config", "rmes-client.yaml", "path to the yaml config file")
	server := pflag.String("server", "", "backend base URL (overrides config)")
	logFile := pflag.String("log-file", "", "log file path (overrides config)")
	logLevel := pflag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	if *server != "" {
		cfg.Server = *server
	}

	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	zerolog.SetGlobalLevel(level)

	filePerms := 0o666

	out, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		panic(err)
	}

	defer out.Close()

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: out, TimeFormat: "2006-01-02_15:04:05",
	})

	log.Info().Str("server", cfg.Server).Msg("starting application...")

	client := api.NewClient(cfg.Server)

	var store *session.Store

	if cfg.SessionDB != "" {
		store, err = session.OpenStore(cfg.SessionDB)
		if err != nil {
			panic(err)
		}

		defer store.Close()
	}

	sess := session.New(client, cfg.Admin, store)

	controller, err := controller.NewController(ctx, client, sess)
	if err != nil {
		panic(err)
	}

	controller.Go()
}
