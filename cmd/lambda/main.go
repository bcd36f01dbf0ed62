package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/worker"
	"github.com/domino14/kouma/zobrist"
)

var cfg *config.Config
var nc *nats.Conn

const replyTimeout = 3 * time.Second

func HandleRequest(ctx context.Context, req worker.SolveRequest) (string, error) {
	logger := log.With().
		Str("requestID", req.RequestID).
		Logger()

	defaults, err := cfg.SearchOptions()
	if err != nil {
		return "", err
	}
	z := &zobrist.Zobrist{}
	z.Initialize(cfg.GetUint64(config.ConfigZobristSeed))

	resp := worker.Handle(&req, defaults, z)
	if resp.Error != "" {
		logger.Error().Str("error", resp.Error).Msg("solve-failed")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}

	if req.ReplyChannel != "" && nc != nil {
		logger.Info().Msg("solve-done-sending-via-nats")
		err = retry.Do(
			func() error {
				_, err := nc.Request(req.ReplyChannel, data, replyTimeout)
				if err != nil {
					return err
				}
				// We're just waiting for an acknowledgement. The actual
				// data doesn't matter.
				return nil
			},
			retry.Context(ctx),
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")

	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	if len(resp.Best) == 0 {
		return resp.Fingerprint, nil
	}
	best := resp.Best[0]
	return fmt.Sprintf("%s: %d killed, %d moves", resp.Fingerprint, best.BossKilled, len(best.Path)-1), nil
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could-not-load-config")
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())
	cfg.AdjustRelativePaths(exPath)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	nc, err = nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
