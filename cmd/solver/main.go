package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/worker"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could-not-load-config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}
	defer nc.Close()

	svc, err := worker.NewServiceFromConfig(nc, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("worker-exited")
		os.Exit(1)
	}
	log.Info().Msg("worker gracefully shut down")
}
