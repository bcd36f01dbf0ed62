package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/batch"
	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/search"
	"github.com/domino14/kouma/zobrist"
)

// Usage: batch [--boards-path=dir] [--batch-threads=n] [strategy ...]
//
// Runs every board file in the boards path with the given strategies, or
// all of them, and prints a summary.
func main() {
	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var strategies []search.Strategy
	for _, a := range args {
		if strings.HasPrefix(a, "--") {
			continue
		}
		st, err := search.ParseStrategy(a)
		if err != nil {
			log.Fatal().Err(err).Msg("bad-strategy")
		}
		strategies = append(strategies, st)
	}
	if len(strategies) == 0 {
		strategies = search.AllStrategies
	}

	boards, err := batch.LoadDir(cfg.GetString(config.ConfigBoardsPath))
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-load-boards")
	}
	opts, err := cfg.SearchOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("bad-search-config")
	}
	z := &zobrist.Zobrist{}
	z.Initialize(cfg.GetUint64(config.ConfigZobristSeed))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(opts, cfg.GetInt(config.ConfigBatchThreads), z)
	rep, err := runner.Run(ctx, boards, strategies)
	if err != nil {
		log.Fatal().Err(err).Msg("batch-failed")
	}
	fmt.Println(rep.ToDisplayText())
}
